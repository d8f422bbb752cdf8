package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taskdeck/taskdeck/internal/date"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/output"
)

var createCmd = &cobra.Command{
	Use:   "create TITLE",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringP("project", "p", "", "project ID or name (default: first project)")
	createCmd.Flags().StringP("desc", "d", "", "task description")
	createCmd.Flags().StringP("status", "s", string(model.StatusTodo), "initial status")
	createCmd.Flags().StringP("assignee", "a", "", "assignee ID")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "description":
			name = "desc"
		case "due-date":
			name = "due"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	projectArg, _ := cmd.Flags().GetString("project")
	desc, _ := cmd.Flags().GetString("desc")
	statusArg, _ := cmd.Flags().GetString("status")
	assigneeID, _ := cmd.Flags().GetString("assignee")
	dueArg, _ := cmd.Flags().GetString("due")

	project, err := resolveProject(cmd.Context(), c, projectArg)
	if err != nil {
		return err
	}

	var due date.Date
	if dueArg != "" {
		if due, err = date.Parse(dueArg); err != nil {
			return err
		}
	}

	fields := model.TaskFields{
		Title:       args[0],
		Description: desc,
		Status:      model.Status(statusArg),
		AssigneeID:  assigneeID,
		DueDate:     due,
	}

	created, err := c.coord.CreateTask(cmd.Context(), project.ID, fields)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, created)
	}
	output.Messagef(os.Stdout, "Created task %s: %s", created.ID, created.Title)
	return nil
}
