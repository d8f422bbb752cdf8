package cmd

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks in a project",
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringP("project", "p", "", "project ID or name (default: first project)")
	listCmd.Flags().String("status", "", "filter by status (TODO, IN_PROGRESS, DONE)")
	listCmd.Flags().String("assignee", "", "filter by assignee name")
	listCmd.Flags().String("sort", "", "sort by field (title, status, due)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	projectArg, _ := cmd.Flags().GetString("project")
	statusArg, _ := cmd.Flags().GetString("status")
	assigneeArg, _ := cmd.Flags().GetString("assignee")
	sortArg, _ := cmd.Flags().GetString("sort")

	project, err := resolveProject(cmd.Context(), c, projectArg)
	if err != nil {
		return err
	}

	tasks, err := c.svc.FetchTasks(cmd.Context(), project.ID)
	if err != nil {
		return err
	}

	if statusArg != "" {
		status := model.Status(statusArg)
		if err := model.ValidateStatus(status); err != nil {
			return err
		}
		tasks = filterTasks(tasks, func(t model.Task) bool { return t.Status == status })
	}
	if assigneeArg != "" {
		tasks = filterTasks(tasks, func(t model.Task) bool { return t.Assignee.Name == assigneeArg })
	}
	if sortArg != "" {
		if err := sortTasks(tasks, sortArg); err != nil {
			return err
		}
	}

	return outputTaskList(tasks)
}

// sortTasks orders tasks in place by the given field. The sort is stable so
// ties keep the service's ordering.
func sortTasks(tasks []model.Task, field string) error {
	var less func(a, b model.Task) bool
	switch field {
	case "title":
		less = func(a, b model.Task) bool { return a.Title < b.Title }
	case "status":
		order := make(map[model.Status]int, len(model.Statuses()))
		for i, s := range model.Statuses() {
			order[s] = i
		}
		less = func(a, b model.Task) bool { return order[a.Status] < order[b.Status] }
	case "due":
		less = func(a, b model.Task) bool {
			// Undated tasks sort last.
			if a.DueDate.IsZero() != b.DueDate.IsZero() {
				return !a.DueDate.IsZero()
			}
			return a.DueDate.BeforeDate(b.DueDate)
		}
	default:
		return apperr.Newf(apperr.InvalidInput, "invalid sort field %q; allowed: title, status, due", field)
	}
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
	return nil
}

func filterTasks(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func outputTaskList(tasks []model.Task) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []model.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}
	output.TaskTable(os.Stdout, tasks)
	return nil
}
