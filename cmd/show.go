package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show TASK_ID",
	Short: "Show task details",
	Long:  `Displays full details of a single task. The description renders as markdown.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringP("project", "p", "", "project ID or name (default: first project)")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
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

	t, err := c.svc.FetchTask(cmd.Context(), project.ID, args[0])
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	if format == output.FormatCompact {
		output.TaskDetailCompact(os.Stdout, &t)
		return nil
	}

	if t.Description != "" && !flagNoColor {
		if rendered, rerr := renderMarkdown(t.Description); rerr == nil {
			plain := t
			plain.Description = ""
			output.TaskDetail(os.Stdout, &plain)
			fmt.Print(rendered)
			return nil
		}
	}
	output.TaskDetail(os.Stdout, &t)
	return nil
}

// renderMarkdown formats a task description for terminal display.
func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80), //nolint:mnd // readable prose width
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}
