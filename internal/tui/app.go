// Package tui implements the interactive terminal client: a kanban board
// or table over the active project's tasks, driven entirely by the entity
// cache and the UI selection store.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/mutate"
	"github.com/taskdeck/taskdeck/internal/uistate"
)

// noticeTTL is how long a settle toast stays on screen.
const noticeTTL = 4 * time.Second

// screen represents the current overlay state.
type screen int

const (
	screenBoard screen = iota
	screenTaskModal
	screenInviteModal
	screenProjectPicker
	screenConfirmDelete
)

// App is the top-level bubbletea model.
type App struct {
	cfg   *config.Config
	coord *mutate.Coordinator
	ui    *uistate.Store

	width  int
	height int

	// Mirrors of the cache entries the screen renders. Refreshed on every
	// cacheChangedMsg so View never reads the store directly.
	projects      cache.Entry
	tasks         cache.Entry
	assignees     []model.Assignee
	uiSnap        uistate.State
	columns       []column
	activeCol     int
	activeRow     int
	tableRow      int
	pickerIdx     int
	notice        *mutate.Notice
	noticeExpires time.Time

	// Delete confirmation.
	deleteID    string
	deleteTitle string

	form   *taskForm
	invite *inviteForm
}

// column groups tasks belonging to a single status, in board order.
type column struct {
	status string
	tasks  []model.Task
}

// NewApp creates the top-level model.
func NewApp(cfg *config.Config, coord *mutate.Coordinator, ui *uistate.Store) *App {
	return &App{
		cfg:       cfg,
		coord:     coord,
		ui:        ui,
		uiSnap:    ui.Snapshot(),
		pickerIdx: -1,
	}
}

// --- Messages ---

// cacheChangedMsg is sent by the cache subscription after any entry change.
type cacheChangedMsg struct{ key cache.Key }

// uiChangedMsg is sent by the UI store subscription after any transition.
type uiChangedMsg struct{}

// noticeMsg carries a mutation settle toast.
type noticeMsg struct{ notice mutate.Notice }

// noticeExpiredMsg clears the toast after its TTL.
type noticeExpiredMsg struct{}

// opDoneMsg reports a background operation that settled. The cache and the
// notice stream already carry the interesting state; the error here only
// matters for operations without a toast of their own.
type opDoneMsg struct{ err error }

// Run starts the TUI program, bridging store subscriptions into messages.
func Run(cfg *config.Config, coord *mutate.Coordinator, ui *uistate.Store) error {
	app := NewApp(cfg, coord, ui)
	p := tea.NewProgram(app, tea.WithAltScreen())

	unsubCache := coord.Store().Subscribe(func(k cache.Key) {
		p.Send(cacheChangedMsg{key: k})
	})
	defer unsubCache()

	unsubUI := ui.Subscribe(func() {
		p.Send(uiChangedMsg{})
	})
	defer unsubUI()

	unsubNotices := coord.SubscribeNotices(func(n mutate.Notice) {
		p.Send(noticeMsg{notice: n})
	})
	defer unsubNotices()

	_, err := p.Run()
	return err
}

// Init implements tea.Model. The reference data and the project list load
// up front; the task list follows once a project becomes active.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.refreshCmd(cache.ProjectsKey()),
		a.refreshCmd(cache.AssigneesKey()),
		a.refreshCmd(cache.ProfileKey()),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil
	case cacheChangedMsg:
		return a, a.syncCache(msg.key)
	case uiChangedMsg:
		a.uiSnap = a.ui.Snapshot()
		return a, nil
	case noticeMsg:
		n := msg.notice
		a.notice = &n
		a.noticeExpires = time.Now().Add(noticeTTL)
		return a, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{} })
	case noticeExpiredMsg:
		if a.notice != nil && !time.Now().Before(a.noticeExpires) {
			a.notice = nil
		}
		return a, nil
	case formDoneMsg:
		a.handleFormDone(msg.err)
		return a, nil
	case inviteDoneMsg:
		a.handleInviteDone(msg.err)
		return a, nil
	case opDoneMsg:
		return a, nil
	}
	return a, nil
}

// syncCache pulls the changed entry into the model's render mirrors. An
// entry invalidated out from under the screen (mutation settle, fixture
// reload) is refetched right away; the stale data keeps rendering until
// the fresh copy lands.
func (a *App) syncCache(key cache.Key) tea.Cmd {
	store := a.coord.Store()

	var refetch tea.Cmd
	if e := store.Get(key); e.Stale && a.keyOnScreen(key) {
		refetch = a.ensureFreshCmd(key)
	}

	switch key.Kind {
	case cache.KindProjects:
		a.projects = store.Get(key)
		// First successful project load selects the first project, which
		// in turn pulls its task list.
		if a.uiSnap.ActiveProjectID == "" {
			if list, ok := a.projects.Data.([]model.Project); ok && len(list) > 0 {
				a.ui.SetActiveProject(list[0].ID)
				a.uiSnap = a.ui.Snapshot()
				return a.refreshCmd(cache.TasksKey(list[0].ID))
			}
		}
	case cache.KindTasks:
		if key.ProjectID != a.uiSnap.ActiveProjectID {
			return refetch
		}
		a.tasks = store.Get(key)
		a.rebuildColumns()
	case cache.KindAssignees:
		if list, ok := store.Get(key).Data.([]model.Assignee); ok {
			a.assignees = list
		}
	}
	return refetch
}

// keyOnScreen reports whether a stale entry for key should be refetched
// eagerly because the current screen renders it.
func (a *App) keyOnScreen(key cache.Key) bool {
	switch key.Kind {
	case cache.KindProjects, cache.KindAssignees:
		return true
	case cache.KindTasks:
		return key.ProjectID == a.uiSnap.ActiveProjectID
	}
	return false
}

// rebuildColumns regroups the cached task list into board columns.
func (a *App) rebuildColumns() {
	statuses := model.Statuses()
	a.columns = make([]column, len(statuses))
	for i, s := range statuses {
		a.columns[i] = column{status: s.Label()}
	}

	list, ok := a.tasks.Data.([]model.Task)
	if !ok {
		return
	}
	for _, t := range list {
		for i, s := range statuses {
			if t.Status == s {
				a.columns[i].tasks = append(a.columns[i].tasks, t)
				break
			}
		}
	}
	a.clampSelection()
}

func (a *App) clampSelection() {
	if len(a.columns) == 0 {
		a.activeCol, a.activeRow = 0, 0
		return
	}
	if a.activeCol >= len(a.columns) {
		a.activeCol = len(a.columns) - 1
	}
	col := a.columns[a.activeCol]
	if a.activeRow >= len(col.tasks) {
		a.activeRow = max(0, len(col.tasks)-1)
	}
	if list, ok := a.tasks.Data.([]model.Task); ok && a.tableRow >= len(list) {
		a.tableRow = max(0, len(list)-1)
	}
}

// screenState derives the active overlay from the UI selection store.
func (a *App) screenState() screen {
	switch {
	case a.uiSnap.IsInviteModalOpen:
		// The invite modal renders above the task modal when both are open.
		return screenInviteModal
	case a.uiSnap.IsModalOpen:
		return screenTaskModal
	case a.deleteID != "":
		return screenConfirmDelete
	case a.pickerIdx >= 0:
		return screenProjectPicker
	}
	return screenBoard
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return a, tea.Quit
	}

	switch a.screenState() {
	case screenTaskModal:
		return a.handleFormKey(msg)
	case screenInviteModal:
		return a.handleInviteKey(msg)
	case screenProjectPicker:
		return a.handlePickerKey(msg)
	case screenConfirmDelete:
		return a.handleDeleteKey(msg)
	}
	return a.handleBoardKey(msg)
}

func (a *App) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return a, tea.Quit
	case "v":
		a.ui.ToggleViewMode()
		a.uiSnap = a.ui.Snapshot()
	case "h", "left":
		if a.uiSnap.ViewMode == uistate.ViewBoard && a.activeCol > 0 {
			a.activeCol--
			a.clampSelection()
		}
	case "l", "right":
		if a.uiSnap.ViewMode == uistate.ViewBoard && a.activeCol < len(a.columns)-1 {
			a.activeCol++
			a.clampSelection()
		}
	case "j", "down":
		a.moveSelection(1)
	case "k", "up":
		a.moveSelection(-1)
	case "H", "shift+left":
		return a, a.moveTaskCmd(-1)
	case "L", "shift+right":
		return a, a.moveTaskCmd(1)
	case "n":
		a.openForm(nil)
		a.ui.OpenModal("")
		a.uiSnap = a.ui.Snapshot()
	case "enter", "e":
		if t := a.selectedTask(); t != nil {
			a.openForm(t)
			a.ui.OpenModal(t.ID)
			a.uiSnap = a.ui.Snapshot()
		}
	case "d":
		if t := a.selectedTask(); t != nil {
			a.deleteID = t.ID
			a.deleteTitle = t.Title
		}
	case "i":
		a.openInvite()
		a.ui.OpenInviteModal()
		a.uiSnap = a.ui.Snapshot()
	case "p":
		a.pickerIdx = a.currentProjectIdx()
	case "r":
		return a, a.refreshActiveCmd()
	}
	return a, nil
}

func (a *App) moveSelection(delta int) {
	if a.uiSnap.ViewMode == uistate.ViewTable {
		list, _ := a.tasks.Data.([]model.Task)
		next := a.tableRow + delta
		if next >= 0 && next < len(list) {
			a.tableRow = next
		}
		return
	}
	if a.activeCol >= len(a.columns) {
		return
	}
	next := a.activeRow + delta
	if next >= 0 && next < len(a.columns[a.activeCol].tasks) {
		a.activeRow = next
	}
}

// selectedTask returns the task under the cursor in the active view.
func (a *App) selectedTask() *model.Task {
	if a.uiSnap.ViewMode == uistate.ViewTable {
		list, _ := a.tasks.Data.([]model.Task)
		if a.tableRow >= 0 && a.tableRow < len(list) {
			t := list[a.tableRow]
			return &t
		}
		return nil
	}
	if a.activeCol >= len(a.columns) {
		return nil
	}
	col := a.columns[a.activeCol]
	if a.activeRow >= 0 && a.activeRow < len(col.tasks) {
		t := col.tasks[a.activeRow]
		return &t
	}
	return nil
}

func (a *App) currentProjectIdx() int {
	list, _ := a.projects.Data.([]model.Project)
	for i, p := range list {
		if p.ID == a.uiSnap.ActiveProjectID {
			return i
		}
	}
	return 0
}

// --- Commands ---

// refreshCmd fetches one key in the background. The cache subscription
// drives the resulting repaint.
func (a *App) refreshCmd(key cache.Key) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: a.coord.Refresh(context.Background(), key)}
	}
}

func (a *App) refreshActiveCmd() tea.Cmd {
	store := a.coord.Store()
	store.Invalidate(cache.TasksKey(a.uiSnap.ActiveProjectID))
	return a.refreshCmd(cache.TasksKey(a.uiSnap.ActiveProjectID))
}

// moveTaskCmd drags the selected card one column in the given direction.
// The optimistic cache write repaints the board before this command's
// goroutine even starts waiting on the data service.
func (a *App) moveTaskCmd(direction int) tea.Cmd {
	t := a.selectedTask()
	if t == nil {
		return nil
	}
	statuses := model.Statuses()
	idx := -1
	for i, s := range statuses {
		if t.Status == s {
			idx = i
			break
		}
	}
	next := idx + direction
	if idx < 0 || next < 0 || next >= len(statuses) {
		return nil
	}

	projectID, taskID, target := a.uiSnap.ActiveProjectID, t.ID, statuses[next]
	return func() tea.Msg {
		_, err := a.coord.UpdateTaskStatus(context.Background(), projectID, taskID, target)
		return opDoneMsg{err: err}
	}
}

func (a *App) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		projectID, taskID := a.uiSnap.ActiveProjectID, a.deleteID
		a.deleteID, a.deleteTitle = "", ""
		return a, tea.Batch(
			func() tea.Msg {
				return opDoneMsg{err: a.coord.DeleteTask(context.Background(), projectID, taskID)}
			},
			a.refreshCmd(cache.TasksKey(projectID)),
		)
	case "n", "N", "esc", "q":
		a.deleteID, a.deleteTitle = "", ""
	}
	return a, nil
}

func (a *App) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list, _ := a.projects.Data.([]model.Project)
	switch msg.String() {
	case "j", "down":
		if a.pickerIdx < len(list)-1 {
			a.pickerIdx++
		}
	case "k", "up":
		if a.pickerIdx > 0 {
			a.pickerIdx--
		}
	case "enter":
		if a.pickerIdx >= 0 && a.pickerIdx < len(list) {
			id := list[a.pickerIdx].ID
			a.pickerIdx = -1
			a.ui.SetActiveProject(id)
			a.uiSnap = a.ui.Snapshot()
			a.tasks = a.coord.Store().Get(cache.TasksKey(id))
			a.rebuildColumns()
			return a, a.ensureFreshCmd(cache.TasksKey(id))
		}
		a.pickerIdx = -1
	case "esc", "q", "p":
		a.pickerIdx = -1
	}
	return a, nil
}

func (a *App) ensureFreshCmd(key cache.Key) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: a.coord.EnsureFresh(context.Background(), key)}
	}
}
