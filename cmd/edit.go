package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/date"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/output"
)

var editCmd = &cobra.Command{
	Use:   "edit TASK_ID",
	Short: "Edit task fields",
	Long:  `Updates only the fields given as flags; everything else is left unchanged.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().StringP("project", "p", "", "project ID or name (default: first project)")
	editCmd.Flags().StringP("title", "t", "", "new title")
	editCmd.Flags().StringP("desc", "d", "", "new description")
	editCmd.Flags().StringP("status", "s", "", "new status")
	editCmd.Flags().StringP("assignee", "a", "", "new assignee ID")
	editCmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")
	editCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "description":
			name = "desc"
		case "due-date":
			name = "due"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	var patch model.TaskPatch
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		patch.Title = &v
	}
	if cmd.Flags().Changed("desc") {
		v, _ := cmd.Flags().GetString("desc")
		patch.Description = &v
	}
	if cmd.Flags().Changed("status") {
		v, _ := cmd.Flags().GetString("status")
		s := model.Status(v)
		patch.Status = &s
	}
	if cmd.Flags().Changed("assignee") {
		v, _ := cmd.Flags().GetString("assignee")
		patch.AssigneeID = &v
	}
	if cmd.Flags().Changed("due") {
		v, _ := cmd.Flags().GetString("due")
		d, derr := date.Parse(v)
		if derr != nil {
			return derr
		}
		patch.DueDate = &d
	}

	if patch == (model.TaskPatch{}) {
		return apperr.New(apperr.InvalidInput, "nothing to update: pass at least one field flag")
	}

	updated, err := c.coord.UpdateTask(cmd.Context(), project.ID, args[0], patch)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, updated)
	}
	output.Messagef(os.Stdout, "Updated task %s", updated.ID)
	return nil
}
