package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/taskdeck/taskdeck/internal/model"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *model.Task) {
	fmt.Fprintln(w, formatTaskLine(*t))

	if t.Description != "" {
		for _, bodyLine := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+bodyLine)
		}
	}
}

// ProjectCompact renders the project list in compact format.
func ProjectCompact(w io.Writer, projects []model.Project, activeID string) {
	for _, p := range projects {
		line := p.ID + " " + p.Name
		if p.ID == activeID {
			line += " (active)"
		}
		fmt.Fprintln(w, line)
	}
}

// ProfileCompact renders a user profile in compact format.
func ProfileCompact(w io.Writer, p *model.UserProfile) {
	fmt.Fprintf(w, "%s <%s>\n", p.Name, p.Email)
	if len(p.JoinedProjects) > 0 {
		fmt.Fprintln(w, "joined: "+strings.Join(p.JoinedProjects, ", "))
	}
	for _, inv := range p.InvitedUsers {
		names := make([]string, 0, len(inv.Users))
		for _, u := range inv.Users {
			names = append(names, u.Name)
		}
		fmt.Fprintln(w, inv.ProjectName+" invited: "+strings.Join(names, ", "))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t model.Task) string {
	line := t.ID + " [" + string(t.Status) + "] " + t.Title

	if t.Assignee.Name != "" {
		line += " @" + t.Assignee.Name
	}
	if !t.DueDate.IsZero() {
		line += " due:" + t.DueDate.String()
	}

	return line
}
