package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/date"
	"github.com/taskdeck/taskdeck/internal/model"
)

// Form field indexes, in tab order.
const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldAssignee
	fieldStatus
	fieldCount
)

// taskForm is the create/edit modal state. Validation happens on submit and
// failures render inline; the modal stays open until the input is fixed or
// the user cancels.
type taskForm struct {
	editingID   string // empty means create mode
	inputs      []textinput.Model
	focus       int
	assigneeIdx int
	statusIdx   int
	errMsg      string
	submitting  bool
}

// formDoneMsg reports a task form submission that settled.
type formDoneMsg struct{ err error }

// inviteDoneMsg reports an invite submission that settled.
type inviteDoneMsg struct{ err error }

// openForm prepares the modal. A nil task opens in create mode.
func (a *App) openForm(t *model.Task) {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 500

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 10

	f := &taskForm{inputs: []textinput.Model{title, desc, due}}

	if t != nil {
		f.editingID = t.ID
		f.inputs[fieldTitle].SetValue(t.Title)
		f.inputs[fieldDescription].SetValue(t.Description)
		if !t.DueDate.IsZero() {
			f.inputs[fieldDue].SetValue(t.DueDate.String())
		}
		for i, s := range model.Statuses() {
			if t.Status == s {
				f.statusIdx = i
			}
		}
		for i, as := range a.assignees {
			if t.Assignee.ID == as.ID {
				f.assigneeIdx = i
			}
		}
	}

	a.form = f
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.form
	if f == nil {
		a.ui.CloseModal()
		a.uiSnap = a.ui.Snapshot()
		return a, nil
	}
	if f.submitting {
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.closeForm()
		return a, nil
	case "tab", "down":
		f.setFocus((f.focus + 1) % fieldCount)
		return a, nil
	case "shift+tab", "up":
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return a, nil
	case "left":
		f.cycleChoice(a, -1)
		return a, nil
	case "right":
		f.cycleChoice(a, 1)
		return a, nil
	case "enter":
		return a, a.submitFormCmd()
	}

	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return a, cmd
	}
	return a, nil
}

func (f *taskForm) setFocus(idx int) {
	f.focus = idx
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// cycleChoice steps the assignee or status selector when focused.
func (f *taskForm) cycleChoice(a *App, delta int) {
	switch f.focus {
	case fieldAssignee:
		if n := len(a.assignees); n > 0 {
			f.assigneeIdx = (f.assigneeIdx + delta + n) % n
		}
	case fieldStatus:
		n := len(model.Statuses())
		f.statusIdx = (f.statusIdx + delta + n) % n
	}
}

// submitFormCmd validates locally-parseable input, then hands the payload to
// the coordinator. The modal closes only on success.
func (a *App) submitFormCmd() tea.Cmd {
	f := a.form
	projectID := a.uiSnap.ActiveProjectID

	var due date.Date
	if raw := f.inputs[fieldDue].Value(); raw != "" {
		parsed, err := date.Parse(raw)
		if err != nil {
			f.errMsg = err.Error()
			return nil
		}
		due = parsed
	}

	var assigneeID string
	if f.assigneeIdx < len(a.assignees) {
		assigneeID = a.assignees[f.assigneeIdx].ID
	}

	title := f.inputs[fieldTitle].Value()
	desc := f.inputs[fieldDescription].Value()
	status := model.Statuses()[f.statusIdx]

	f.errMsg = ""
	f.submitting = true

	if f.editingID == "" {
		fields := model.TaskFields{
			Title:       title,
			Description: desc,
			Status:      status,
			AssigneeID:  assigneeID,
			DueDate:     due,
		}
		return func() tea.Msg {
			_, err := a.coord.CreateTask(context.Background(), projectID, fields)
			return formDoneMsg{err: err}
		}
	}

	taskID := f.editingID
	patch := model.TaskPatch{
		Title:       &title,
		Description: &desc,
		Status:      &status,
		AssigneeID:  &assigneeID,
		DueDate:     &due,
	}
	return func() tea.Msg {
		_, err := a.coord.UpdateTask(context.Background(), projectID, taskID, patch)
		return formDoneMsg{err: err}
	}
}

func (a *App) closeForm() {
	a.form = nil
	a.ui.CloseModal()
	a.uiSnap = a.ui.Snapshot()
}

// --- Invite modal ---

// inviteForm is the multi-select invite dialog.
type inviteForm struct {
	cursor     int
	selected   map[string]bool
	errMsg     string
	submitting bool
}

func (a *App) openInvite() {
	a.invite = &inviteForm{selected: make(map[string]bool)}
}

func (a *App) handleInviteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.invite
	if f == nil {
		a.ui.CloseInviteModal()
		a.uiSnap = a.ui.Snapshot()
		return a, nil
	}
	if f.submitting {
		return a, nil
	}

	switch msg.String() {
	case "esc", "q":
		a.closeInvite()
	case "j", "down":
		if f.cursor < len(a.assignees)-1 {
			f.cursor++
		}
	case "k", "up":
		if f.cursor > 0 {
			f.cursor--
		}
	case " ":
		if f.cursor < len(a.assignees) {
			id := a.assignees[f.cursor].ID
			f.selected[id] = !f.selected[id]
		}
	case "enter":
		return a, a.submitInviteCmd()
	}
	return a, nil
}

func (a *App) submitInviteCmd() tea.Cmd {
	f := a.invite
	var ids []string
	for _, as := range a.assignees {
		if f.selected[as.ID] {
			ids = append(ids, as.ID)
		}
	}
	if len(ids) == 0 {
		f.errMsg = "select at least one user (space to toggle)"
		return nil
	}

	f.errMsg = ""
	f.submitting = true
	projectID := a.uiSnap.ActiveProjectID
	return func() tea.Msg {
		return inviteDoneMsg{err: a.coord.InviteUsers(context.Background(), projectID, ids)}
	}
}

func (a *App) closeInvite() {
	a.invite = nil
	a.ui.CloseInviteModal()
	a.uiSnap = a.ui.Snapshot()
}

// handleFormDone settles a task form submission: close on success, surface
// the failure inline otherwise.
func (a *App) handleFormDone(err error) {
	if a.form == nil {
		return
	}
	a.form.submitting = false
	if err == nil {
		a.closeForm()
		return
	}
	a.form.errMsg = formErrorText(err)
}

func (a *App) handleInviteDone(err error) {
	if a.invite == nil {
		return
	}
	a.invite.submitting = false
	if err == nil {
		a.closeInvite()
		return
	}
	a.invite.errMsg = formErrorText(err)
}

func formErrorText(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
