package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/output"
)

var inviteCmd = &cobra.Command{
	Use:   "invite USER_ID [USER_ID...]",
	Short: "Invite users to a project",
	Long:  `Invites one or more users to a project. Inviting an already-invited user is a no-op.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInvite,
}

func init() {
	inviteCmd.Flags().StringP("project", "p", "", "project ID or name (default: first project)")
	rootCmd.AddCommand(inviteCmd)
}

func runInvite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	projectArg, _ := cmd.Flags().GetString("project")
	project, err := resolveProject(cmd.Context(), c, projectArg)
	if err != nil {
		return err
	}

	if err := c.coord.InviteUsers(cmd.Context(), project.ID, args); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]interface{}{
			"status":    "invited",
			"projectId": project.ID,
			"userIds":   args,
		})
	}
	output.Messagef(os.Stdout, "Invited %d user(s) to %s", len(args), project.Name)
	return nil
}
