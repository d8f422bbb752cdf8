// Package cache is the keyed store of fetched entities. It is the single
// source of truth the presentation layer subscribes to: all network results
// and optimistic edits land here, and nothing reads server state any other
// way.
//
// The cache itself never talks to the data service; fetching is the caller's
// job. Per-key generation counters let callers discard responses that were
// superseded while in flight.
package cache

import "sync"

// Kind identifies the entity class a key addresses.
type Kind string

// Entity kinds.
const (
	KindProjects  Kind = "projects"
	KindTasks     Kind = "tasks"
	KindTask      Kind = "task"
	KindAllTasks  Kind = "alltasks"
	KindAssignees Kind = "assignees"
	KindProfile   Kind = "profile"
)

// Key is a composite cache key. ProjectID and TaskID are set only for the
// kinds that scope to them.
type Key struct {
	Kind      Kind
	ProjectID string
	TaskID    string
}

// ProjectsKey addresses the project list.
func ProjectsKey() Key { return Key{Kind: KindProjects} }

// TasksKey addresses one project's task list.
func TasksKey(projectID string) Key { return Key{Kind: KindTasks, ProjectID: projectID} }

// TaskKey addresses a single task.
func TaskKey(projectID, taskID string) Key {
	return Key{Kind: KindTask, ProjectID: projectID, TaskID: taskID}
}

// AllTasksKey addresses the cross-project task list.
func AllTasksKey() Key { return Key{Kind: KindAllTasks} }

// AssigneesKey addresses the assignee list.
func AssigneesKey() Key { return Key{Kind: KindAssignees} }

// ProfileKey addresses the user profile.
func ProfileKey() Key { return Key{Kind: KindProfile} }

// Status is an entry's fetch state.
type Status int

// Entry lifecycle states.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Entry is the observable state of one cache key.
// Invariants: StatusSuccess implies Data != nil and Err == nil;
// StatusError implies Err != nil (Data keeps the last-known value so the
// presentation layer can show stale data next to the error).
type Entry struct {
	Key    Key
	Data   any
	Status Status
	Err    error
	Stale  bool
}

type entry struct {
	Entry
	gen uint64
}

// Store is the entity cache. All methods are safe for concurrent use; every
// state change notifies subscribers synchronously, after the entry has been
// written, so observers never see a half-applied update.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	subs    map[int]func(Key)
	nextSub int
}

// NewStore creates an empty cache.
func NewStore() *Store {
	return &Store{
		entries: make(map[Key]*entry),
		subs:    make(map[int]func(Key)),
	}
}

// Subscribe registers fn to run after every entry change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Key)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Get returns the current entry for key. An unknown key reads as idle.
func (s *Store) Get(key Key) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		return e.Entry
	}
	return Entry{Key: key, Status: StatusIdle}
}

// Set overwrites the entry with fresh data: success, no error, not stale.
// It also bumps the generation so any fetch still in flight for this key is
// superseded and will be discarded on settle.
func (s *Store) Set(key Key, data any) {
	s.mu.Lock()
	e := s.ensure(key)
	e.gen++
	e.Data = data
	e.Status = StatusSuccess
	e.Err = nil
	e.Stale = false
	subs := s.snapshotSubs()
	s.mu.Unlock()
	notify(subs, key)
}

// SetError marks the entry failed, preserving last-known data for optional
// stale display. Supersedes in-flight fetches like Set does.
func (s *Store) SetError(key Key, err error) {
	s.mu.Lock()
	e := s.ensure(key)
	e.gen++
	e.Status = StatusError
	e.Err = err
	subs := s.snapshotSubs()
	s.mu.Unlock()
	notify(subs, key)
}

// SetLoading marks the entry loading, unless it already holds fresh
// successful data (refetching fresh data must not flicker the UI back to a
// spinner).
func (s *Store) SetLoading(key Key) {
	s.mu.Lock()
	e := s.ensure(key)
	if e.Status == StatusSuccess && !e.Stale {
		s.mu.Unlock()
		return
	}
	e.Status = StatusLoading
	subs := s.snapshotSubs()
	s.mu.Unlock()
	notify(subs, key)
}

// Invalidate marks the entry for refetch on next access without clearing
// its data, so the UI keeps rendering the old value until fresh data lands.
// Calling it repeatedly has the same effect as calling it once.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	e := s.ensure(key)
	if e.Stale {
		s.mu.Unlock()
		return
	}
	e.gen++
	e.Stale = true
	subs := s.snapshotSubs()
	s.mu.Unlock()
	notify(subs, key)
}

// NeedsFetch reports whether the next access should trigger a fetch.
func (s *Store) NeedsFetch(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return true
	}
	return e.Stale || e.Status == StatusIdle || e.Status == StatusError
}

// Begin starts a fetch for key: the entry transitions to loading (per
// SetLoading rules), the stale mark is cleared, and the returned generation
// must be passed back to Commit or Fail. Beginning a new fetch supersedes
// any earlier in-flight fetch for the same key.
func (s *Store) Begin(key Key) uint64 {
	s.mu.Lock()
	e := s.ensure(key)
	e.gen++
	gen := e.gen
	e.Stale = false
	var subs []func(Key)
	if e.Status != StatusSuccess {
		e.Status = StatusLoading
		subs = s.snapshotSubs()
	}
	s.mu.Unlock()
	notify(subs, key)
	return gen
}

// Commit completes the fetch started by Begin. A response from a superseded
// generation is discarded and Commit reports false.
func (s *Store) Commit(key Key, gen uint64, data any) bool {
	s.mu.Lock()
	e := s.ensure(key)
	if e.gen != gen {
		s.mu.Unlock()
		return false
	}
	e.Data = data
	e.Status = StatusSuccess
	e.Err = nil
	e.Stale = false
	subs := s.snapshotSubs()
	s.mu.Unlock()
	notify(subs, key)
	return true
}

// Fail completes the fetch with an error, keeping last-known data. Superseded
// responses are discarded like in Commit.
func (s *Store) Fail(key Key, gen uint64, err error) bool {
	s.mu.Lock()
	e := s.ensure(key)
	if e.gen != gen {
		s.mu.Unlock()
		return false
	}
	e.Status = StatusError
	e.Err = err
	subs := s.snapshotSubs()
	s.mu.Unlock()
	notify(subs, key)
	return true
}

// InvalidateAll marks every entry stale. Used when the backing fixture is
// reloaded out from under the client.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	keys := make([]Key, 0, len(s.entries))
	for key, e := range s.entries {
		if !e.Stale {
			e.gen++
			e.Stale = true
			keys = append(keys, key)
		}
	}
	subs := s.snapshotSubs()
	s.mu.Unlock()
	for _, key := range keys {
		notify(subs, key)
	}
}

// Reset drops every entry. Test harness use only.
func (s *Store) Reset() {
	s.mu.Lock()
	s.entries = make(map[Key]*entry)
	s.mu.Unlock()
}

// ensure returns the entry for key, creating it idle. Caller holds the lock.
func (s *Store) ensure(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{Entry: Entry{Key: key, Status: StatusIdle}}
		s.entries[key] = e
	}
	return e
}

// snapshotSubs copies the subscriber list. Caller holds the lock; the copy
// is invoked after unlocking so subscribers may call back into the store.
func (s *Store) snapshotSubs() []func(Key) {
	if len(s.subs) == 0 {
		return nil
	}
	subs := make([]func(Key), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Key), key Key) {
	for _, fn := range subs {
		fn(key)
	}
}
