package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/output"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	projects, err := c.svc.FetchProjects(cmd.Context())
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, projects)
	}
	if format == output.FormatCompact {
		output.ProjectCompact(os.Stdout, projects, "")
		return nil
	}
	output.ProjectTable(os.Stdout, projects, "")
	return nil
}
