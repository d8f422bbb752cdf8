package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/output"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the current user's profile",
	Long:  `Shows the current user with joined projects and per-project invited users.`,
	RunE:  runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	profile, err := c.svc.FetchUserProfile(cmd.Context())
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, profile)
	}
	if format == output.FormatCompact {
		output.ProfileCompact(os.Stdout, &profile)
		return nil
	}
	output.ProfileDetail(os.Stdout, &profile)
	return nil
}
