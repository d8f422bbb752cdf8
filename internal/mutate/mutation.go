package mutate

import "sync"

// State is a mutation's lifecycle state. Every mutation starts pending and
// settles exactly once, as committed or rolled back.
type State int

// Mutation states.
const (
	StatePending State = iota
	StateCommitted
	StateRolledBack
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	}
	return "unknown"
}

// Mutation tracks one write operation against the data service. The rollback
// snapshot is captured when the mutation starts, so overlapping mutations on
// the same entity each restore their own "before" state.
type Mutation struct {
	Op        string
	ProjectID string
	TaskID    string

	mu    sync.Mutex
	state State
}

func newMutation(op, projectID, taskID string) *Mutation {
	return &Mutation{Op: op, ProjectID: projectID, TaskID: taskID}
}

// State returns the current lifecycle state.
func (m *Mutation) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// commit settles the mutation as committed. Settling twice is a no-op.
func (m *Mutation) commit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePending {
		m.state = StateCommitted
	}
}

// rollback settles the mutation as rolled back. Settling twice is a no-op.
func (m *Mutation) rollback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePending {
		m.state = StateRolledBack
	}
}
