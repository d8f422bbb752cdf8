package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/mutate"
	"github.com/taskdeck/taskdeck/internal/uistate"
)

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1)

	draggingCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("33")).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	assigneeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))

	staleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))

	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	switch a.screenState() {
	case screenTaskModal:
		return a.viewTaskModal()
	case screenInviteModal:
		return a.viewInviteModal()
	case screenProjectPicker:
		return a.viewProjectPicker()
	case screenConfirmDelete:
		return a.viewDeleteConfirm()
	}

	if a.uiSnap.ViewMode == uistate.ViewTable {
		return a.viewTable()
	}
	return a.viewBoard()
}

// --- Board view ---

func (a *App) viewBoard() string {
	if len(a.columns) == 0 {
		return a.wrapChrome("Loading board...")
	}

	colWidth := a.columnWidth()
	renderedCols := make([]string, len(a.columns))
	for i, col := range a.columns {
		renderedCols[i] = a.renderColumn(i, col, colWidth)
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)
	return a.wrapChrome(boardView)
}

func (a *App) columnWidth() int {
	if a.width == 0 || len(a.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	w := a.width / len(a.columns)
	const maxColWidth = 60
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

func (a *App) renderColumn(colIdx int, col column, width int) string {
	headerText := fmt.Sprintf("%s (%d)", col.status, len(col.tasks))
	const headerPad = 2
	headerText = truncate(headerText, width-headerPad)

	var header string
	if colIdx == a.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	} else {
		header = columnHeaderStyle.Width(width).Render(headerText)
	}

	parts := []string{header}
	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for rowIdx, t := range col.tasks {
		active := colIdx == a.activeCol && rowIdx == a.activeRow
		parts = append(parts, a.renderCard(t, active, width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderCard(t model.Task, active bool, width int) string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := width - cardChrome
	if cardWidth < 1 {
		cardWidth = 1
	}

	var lines []string
	lines = append(lines, truncate(t.Title, cardWidth))

	meta := ""
	if t.Assignee.Name != "" {
		meta = assigneeStyle.Render("@" + t.Assignee.Name)
	}
	if !t.DueDate.IsZero() {
		if meta != "" {
			meta += " "
		}
		meta += dimStyle.Render(t.DueDate.String())
	}
	if a.coord.IsDragging(t.ID) {
		if meta != "" {
			meta += " "
		}
		meta += staleStyle.Render("moving...")
	}
	if meta != "" {
		lines = append(lines, truncate(meta, cardWidth))
	}

	style := cardStyle
	if a.coord.IsDragging(t.ID) {
		style = draggingCardStyle
	}
	if active {
		style = activeCardStyle
	}

	return style.Width(width - 2).Render(strings.Join(lines, "\n")) //nolint:mnd // border width
}

// --- Table view ---

func (a *App) viewTable() string {
	list, ok := a.tasks.Data.([]model.Task)
	if !ok {
		return a.wrapChrome("Loading tasks...")
	}
	if len(list) == 0 {
		return a.wrapChrome(dimStyle.Render("No tasks in this project. Press n to create one."))
	}

	const pad = 2
	titleW, statusW, assigneeW := 7, 13, 10
	for _, t := range list {
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		assigneeW = max(assigneeW, len(t.Assignee.Name)+pad+1)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %s", titleW, "TITLE", statusW, "STATUS", assigneeW, "ASSIGNEE", "DUE")
	rows := []string{labelStyle.Render(truncate(header, a.width))}

	for i, t := range list {
		assignee := "--"
		if t.Assignee.Name != "" {
			assignee = "@" + t.Assignee.Name
		}
		due := "--"
		if !t.DueDate.IsZero() {
			due = t.DueDate.String()
		}
		row := fmt.Sprintf("%-*s %-*s %-*s %s",
			titleW, truncate(t.Title, titleW-pad),
			statusW, t.Status.Label(),
			assigneeW, assignee,
			due)
		row = truncate(row, a.width)
		if i == a.tableRow {
			row = selectedRowStyle.Render(row)
		}
		rows = append(rows, row)
	}

	return a.wrapChrome(strings.Join(rows, "\n"))
}

// wrapChrome pads the content to full height and appends the status bar.
func (a *App) wrapChrome(content string) string {
	const chrome = 2 // blank line + status bar
	targetHeight := a.height - chrome
	if targetHeight > 0 {
		actual := strings.Count(content, "\n") + 1
		if actual > targetHeight {
			lines := strings.SplitN(content, "\n", targetHeight+1)
			content = strings.Join(lines[:targetHeight], "\n")
		} else if actual < targetHeight {
			content += strings.Repeat("\n", targetHeight-actual)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, "", a.renderStatusBar())
}

func (a *App) renderStatusBar() string {
	name := a.activeProjectName()
	count := 0
	if list, ok := a.tasks.Data.([]model.Task); ok {
		count = len(list)
	}

	state := ""
	switch {
	case a.tasks.Status == cache.StatusLoading:
		state = " | loading"
	case a.tasks.Stale:
		state = " | refreshing"
	case a.tasks.Status == cache.StatusError:
		state = " | " + staleStyle.Render("offline data")
	}

	status := fmt.Sprintf(" %s | %d tasks%s | v:view n:new e:edit d:del H/L:move i:invite p:project q:quit",
		name, count, state)
	status = truncate(status, a.width)

	if a.notice != nil {
		style := infoStyle
		if a.notice.Level == mutate.LevelError {
			style = errorStyle
		}
		toast := style.Render(truncate(a.notice.Message, a.width))
		return toast + "\n" + statusBarStyle.Render(status)
	}
	if a.tasks.Status == cache.StatusError && a.tasks.Err != nil {
		errLine := errorStyle.Render(truncate("Error: "+a.tasks.Err.Error(), a.width))
		return errLine + "\n" + statusBarStyle.Render(status)
	}

	return statusBarStyle.Render(status)
}

func (a *App) activeProjectName() string {
	list, _ := a.projects.Data.([]model.Project)
	for _, p := range list {
		if p.ID == a.uiSnap.ActiveProjectID {
			return p.Name
		}
	}
	return "taskdeck"
}

// --- Dialogs ---

func (a *App) viewTaskModal() string {
	f := a.form
	if f == nil {
		return ""
	}

	heading := "New Task"
	if f.editingID != "" {
		heading = "Edit Task"
	}

	assignee := "(none)"
	if f.assigneeIdx < len(a.assignees) {
		assignee = a.assignees[f.assigneeIdx].Name
	}
	status := model.Statuses()[f.statusIdx].Label()

	var b strings.Builder
	b.WriteString(labelStyle.Render(heading) + "\n\n")
	b.WriteString(formLabel("Title", f.focus == fieldTitle) + f.inputs[fieldTitle].View() + "\n")
	b.WriteString(formLabel("Description", f.focus == fieldDescription) + f.inputs[fieldDescription].View() + "\n")
	b.WriteString(formLabel("Due date", f.focus == fieldDue) + f.inputs[fieldDue].View() + "\n")
	b.WriteString(formLabel("Assignee", f.focus == fieldAssignee) + choiceView(assignee, f.focus == fieldAssignee) + "\n")
	b.WriteString(formLabel("Status", f.focus == fieldStatus) + choiceView(status, f.focus == fieldStatus) + "\n")

	if f.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(truncate(f.errMsg, 60)) + "\n") //nolint:mnd // dialog width
	}
	if f.submitting {
		b.WriteString("\n" + dimStyle.Render("Saving...") + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("tab:next field  ←/→:choose  enter:save  esc:cancel"))

	return dialogStyle.Render(b.String())
}

func (a *App) viewInviteModal() string {
	f := a.invite
	if f == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Invite Users") + "\n\n")

	if len(a.assignees) == 0 {
		b.WriteString(dimStyle.Render("No users available.") + "\n")
	}
	for i, as := range a.assignees {
		mark := "[ ]"
		if f.selected[as.ID] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, as.Name)
		if i == f.cursor {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if f.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(truncate(f.errMsg, 60)) + "\n") //nolint:mnd // dialog width
	}
	if f.submitting {
		b.WriteString("\n" + dimStyle.Render("Inviting...") + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("space:toggle  enter:invite  esc:cancel"))

	return dialogStyle.Render(b.String())
}

func (a *App) viewProjectPicker() string {
	list, _ := a.projects.Data.([]model.Project)

	var b strings.Builder
	b.WriteString(labelStyle.Render("Switch Project") + "\n\n")
	for i, p := range list {
		line := p.Name
		if p.ID == a.uiSnap.ActiveProjectID {
			line += " (active)"
		}
		if i == a.pickerIdx {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter:select  esc:cancel"))

	return dialogStyle.Render(b.String())
}

func (a *App) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		"  " + a.deleteTitle + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

func formLabel(name string, focused bool) string {
	label := fmt.Sprintf("%-13s", name+":")
	if focused {
		return labelStyle.Render(label)
	}
	return dimStyle.Render(label)
}

func choiceView(value string, focused bool) string {
	if focused {
		return "< " + value + " >"
	}
	return "  " + value
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := maxLen - 3 //nolint:mnd // room for "..."
	if target > len(runes) {
		target = len(runes)
	}
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
