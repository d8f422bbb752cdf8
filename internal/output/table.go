package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Status colors aligned with TUI column-header palette.
	statusStyles = map[model.Status]lipgloss.Style{
		model.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		model.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		model.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	assigneeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))
	staleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[model.Status]lipgloss.Style{}
	assigneeStyle = lipgloss.NewStyle()
	staleStyle = lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, statusW, titleW, assigneeW, dueW := 4, 13, 7, 10, 12
	for _, t := range tasks {
		idW = max(idW, len(t.ID)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		assigneeW = max(assigneeW, len(assigneeDisplay(t))+pad)
	}

	// Print header.
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		idW, "ID", statusW, "STATUS", titleW, "TITLE", assigneeW, "ASSIGNEE", dueW, "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	// Print rows.
	for _, t := range tasks {
		title := t.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		assignee := assigneeDisplay(t)
		if assignee == "" {
			assignee = dimStyle.Render("--")
		} else {
			assignee = assigneeStyle.Render(assignee)
		}
		due := "--"
		if !t.DueDate.IsZero() {
			due = t.DueDate.String()
		} else {
			due = dimStyle.Render(due)
		}

		row := fmt.Sprintf("%-*s %s %s %s %s",
			idW, t.ID,
			padRight(styledStatus(t.Status), statusW),
			padRight(title, titleW),
			padRight(assignee, assigneeW),
			due)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail.
func TaskDetail(w io.Writer, t *model.Task) {
	titleLine := fmt.Sprintf("Task %s: %s", t.ID, t.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Status", styledStatus(t.Status))
	if t.Assignee.Name != "" {
		printField(w, "Assignee", assigneeStyle.Render(t.Assignee.Name))
	} else {
		printField(w, "Assignee", dimStyle.Render("--"))
	}
	if !t.DueDate.IsZero() {
		printField(w, "Due", t.DueDate.String())
	} else {
		printField(w, "Due", dimStyle.Render("--"))
	}

	if t.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Description)
	}
}

// ProjectTable renders the project list as a formatted table.
func ProjectTable(w io.Writer, projects []model.Project, activeID string) {
	if len(projects) == 0 {
		fmt.Fprintln(os.Stderr, "No projects found.")
		return
	}

	const pad = 2
	idW, nameW := 4, 6
	for _, p := range projects {
		idW = max(idW, len(p.ID)+pad)
		nameW = max(nameW, len(p.Name)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %s", idW, "ID", nameW, "NAME", "ACTIVE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, p := range projects {
		active := dimStyle.Render("--")
		if p.ID == activeID {
			active = "*"
		}
		row := fmt.Sprintf("%-*s %-*s %s", idW, p.ID, nameW, p.Name, active)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// AssigneeTable renders the assignee list as a formatted table.
func AssigneeTable(w io.Writer, assignees []model.Assignee) {
	if len(assignees) == 0 {
		fmt.Fprintln(os.Stderr, "No assignees found.")
		return
	}

	const pad = 2
	idW, nameW := 4, 6
	for _, a := range assignees {
		idW = max(idW, len(a.ID)+pad)
		nameW = max(nameW, len(a.Name)+pad)
	}

	header := fmt.Sprintf("%-*s %s", idW, "ID", "NAME")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, a := range assignees {
		fmt.Fprintf(w, "%-*s %s\n", idW, a.ID, assigneeStyle.Render(a.Name))
	}
}

// ProfileDetail renders a user profile with joined and invited projects.
func ProfileDetail(w io.Writer, p *model.UserProfile) {
	titleLine := fmt.Sprintf("%s <%s>", p.Name, p.Email)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "User ID", p.ID)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("JOINED PROJECTS"))
	if len(p.JoinedProjects) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  (none)"))
	}
	for _, name := range p.JoinedProjects {
		fmt.Fprintln(w, "  "+name)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("INVITED USERS"))
	if len(p.InvitedUsers) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  (none)"))
	}
	for _, inv := range p.InvitedUsers {
		fmt.Fprintln(w, "  "+inv.ProjectName)
		for _, u := range inv.Users {
			fmt.Fprintln(w, "    "+assigneeStyle.Render(u.Name))
		}
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// assigneeDisplay returns "@name" if the task has an assignee, or "" otherwise.
func assigneeDisplay(t model.Task) string {
	if t.Assignee.Name != "" {
		return "@" + t.Assignee.Name
	}
	return ""
}

// styledStatus renders a status using its display label and color.
func styledStatus(s model.Status) string {
	label := s.Label()
	if st, ok := statusStyles[s]; ok {
		return st.Render(label)
	}
	return label
}
