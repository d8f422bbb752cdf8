package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/output"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "List tasks across every project",
	RunE:  runAll,
}

func init() {
	rootCmd.AddCommand(allCmd)
}

func runAll(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	tasks, err := c.svc.FetchAllTasks(cmd.Context())
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, tasks)
	}

	// Compact and table forms group by project for readability.
	var lastProject string
	for _, t := range tasks {
		if t.ProjectName != lastProject {
			if lastProject != "" {
				fmt.Println()
			}
			output.Messagef(os.Stdout, "%s:", t.ProjectName)
			lastProject = t.ProjectName
		}
		line := "  " + t.ID + " [" + string(t.Status) + "] " + t.Title
		if t.Assignee.Name != "" {
			line += " @" + t.Assignee.Name
		}
		fmt.Println(line)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
	}
	return nil
}
