// Package uistate holds the process-wide UI selection state: active
// project, modal state, and view mode. Transitions are pure and
// synchronous; there are no failure modes. The store is owned by the
// presentation layer's intents; nothing else mutates it.
package uistate

import "sync"

// ViewMode selects the board or table rendering of a project's tasks.
type ViewMode string

// View modes.
const (
	ViewBoard ViewMode = "board"
	ViewTable ViewMode = "table"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	return m == ViewBoard || m == ViewTable
}

// State is an atomic snapshot of the store.
// Invariant: EditingTaskID != "" implies IsModalOpen.
type State struct {
	ActiveProjectID   string
	IsModalOpen       bool
	EditingTaskID     string
	IsInviteModalOpen bool
	ViewMode          ViewMode
}

// Store is the UI selection store. The view mode is persisted across
// sessions through the persist hook; every other field resets on restart.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]func()
	nextID    int
	persist   func(ViewMode)
}

// NewStore creates a store. An unknown initial view mode falls back to the
// board view.
func NewStore(initial ViewMode) *Store {
	if !initial.Valid() {
		initial = ViewBoard
	}
	return &Store{
		state:     State{ViewMode: initial},
		listeners: make(map[int]func()),
	}
}

// OnViewModeChange installs the persistence hook, called (best-effort)
// whenever the view mode changes.
func (s *Store) OnViewModeChange(fn func(ViewMode)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist = fn
}

// Subscribe registers fn to run after every transition. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetActiveProject replaces the active project. Modal state is left alone
// on purpose: closing a modal on project switch would be surprising, and a
// task ID from another project surfaces as a recoverable not-found in the
// modal's own fetch.
func (s *Store) SetActiveProject(id string) {
	s.transition(func(st *State) {
		st.ActiveProjectID = id
	})
}

// OpenModal opens the task modal. An empty taskID means create mode.
func (s *Store) OpenModal(taskID string) {
	s.transition(func(st *State) {
		st.IsModalOpen = true
		st.EditingTaskID = taskID
	})
}

// CloseModal closes the task modal and clears the editing target.
func (s *Store) CloseModal() {
	s.transition(func(st *State) {
		st.IsModalOpen = false
		st.EditingTaskID = ""
	})
}

// OpenInviteModal opens the invite modal. Independent of the task modal;
// the presentation layer chooses render priority when both are open.
func (s *Store) OpenInviteModal() {
	s.transition(func(st *State) {
		st.IsInviteModalOpen = true
	})
}

// CloseInviteModal closes the invite modal.
func (s *Store) CloseInviteModal() {
	s.transition(func(st *State) {
		st.IsInviteModalOpen = false
	})
}

// SetViewMode switches between board and table. Unknown modes are ignored.
func (s *Store) SetViewMode(mode ViewMode) {
	if !mode.Valid() {
		return
	}
	var persist func(ViewMode)
	s.mu.Lock()
	if s.state.ViewMode != mode {
		s.state.ViewMode = mode
		persist = s.persist
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if persist != nil {
		persist(mode)
	}
	for _, fn := range listeners {
		fn()
	}
}

// ToggleViewMode flips between board and table.
func (s *Store) ToggleViewMode() {
	if s.Snapshot().ViewMode == ViewBoard {
		s.SetViewMode(ViewTable)
	} else {
		s.SetViewMode(ViewBoard)
	}
}

// Reset restores the session-transient fields. Test harness use only; the
// view mode is preserved because it survives restarts too.
func (s *Store) Reset() {
	s.transition(func(st *State) {
		mode := st.ViewMode
		*st = State{ViewMode: mode}
	})
}

func (s *Store) transition(apply func(*State)) {
	s.mu.Lock()
	apply(&s.state)
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (s *Store) snapshotListeners() []func() {
	if len(s.listeners) == 0 {
		return nil
	}
	listeners := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	return listeners
}
