package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/output"
)

var moveCmd = &cobra.Command{
	Use:   "move TASK_ID [STATUS]",
	Short: "Move a task to another status",
	Long: `Moves a task to TODO, IN_PROGRESS, or DONE through the same optimistic path
the board uses. Give the target status, or --next/--prev to step one column.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // task ID plus optional status
	RunE: runMove,
}

func init() {
	moveCmd.Flags().StringP("project", "p", "", "project ID or name (default: first project)")
	moveCmd.Flags().Bool("next", false, "move one column forward")
	moveCmd.Flags().Bool("prev", false, "move one column back")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
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

	// The status mutation works against the cached task list; prime it.
	if err := c.coord.Refresh(cmd.Context(), cache.TasksKey(project.ID)); err != nil {
		return err
	}

	target, err := resolveTargetStatus(cmd, c, project.ID, args)
	if err != nil {
		return err
	}

	m, err := c.coord.UpdateTaskStatus(cmd.Context(), project.ID, args[0], target)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"taskId":  args[0],
			"status":  string(target),
			"outcome": m.State().String(),
		})
	}
	output.Messagef(os.Stdout, "Moved task %s to %s", args[0], target.Label())
	return nil
}

// resolveTargetStatus maps the positional status or the --next/--prev step
// flags to a concrete status.
func resolveTargetStatus(cmd *cobra.Command, c *client, projectID string, args []string) (model.Status, error) {
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")

	if len(args) == 2 {
		if next || prev {
			return "", apperr.New(apperr.InvalidInput, "give either a status argument or --next/--prev, not both")
		}
		return model.Status(args[1]), nil
	}
	if next == prev {
		return "", apperr.New(apperr.InvalidInput, "missing target: give a status argument or one of --next/--prev")
	}

	t, err := c.svc.FetchTask(cmd.Context(), projectID, args[0])
	if err != nil {
		return "", err
	}

	statuses := model.Statuses()
	idx := -1
	for i, s := range statuses {
		if t.Status == s {
			idx = i
			break
		}
	}
	if next {
		idx++
	} else {
		idx--
	}
	if idx < 0 || idx >= len(statuses) {
		return "", apperr.Newf(apperr.InvalidInput, "task %s is already at %s", t.ID, t.Status.Label())
	}
	return statuses[idx], nil
}
