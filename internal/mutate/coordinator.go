// Package mutate coordinates write operations against the data service
// while keeping the entity cache visually consistent with user intent,
// even under latency or failure.
//
// Only the status drag is optimistic: it is the highest-frequency
// interaction, so its expected effect is applied to the cache before the
// network call settles, with a full-snapshot rollback on failure. Create,
// field edits, delete, and invites tolerate latency through loading
// indicators and settle by invalidating the affected keys.
package mutate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/date"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/service"
)

// Coordinator executes mutations and reconciles the cache on settle.
type Coordinator struct {
	api   service.API
	store *cache.Store

	mu         sync.Mutex
	dragging   map[string]int
	noticeSubs map[int]func(Notice)
	nextSub    int

	logDir string
	now    func() time.Time
}

// New creates a Coordinator over the given data service and cache.
func New(api service.API, store *cache.Store) *Coordinator {
	return &Coordinator{
		api:        api,
		store:      store,
		dragging:   make(map[string]int),
		noticeSubs: make(map[int]func(Notice)),
		now:        time.Now,
	}
}

// SetLogDir enables the JSONL mutation log in the given directory.
func (c *Coordinator) SetLogDir(dir string) {
	c.logDir = dir
}

// SetNow overrides the clock used for due-date validation (for testing).
func (c *Coordinator) SetNow(fn func() time.Time) {
	c.now = fn
}

// Store returns the cache the coordinator reconciles.
func (c *Coordinator) Store() *cache.Store {
	return c.store
}

// UpdateTaskStatus moves a task to a new board column. The cached task list
// reflects newStatus synchronously, before the data service call is issued;
// on failure the pre-mutation snapshot is restored verbatim. Either way the
// task list is refetched on settle to reconcile with concurrent edits
// elsewhere, and the drag marker is cleared.
//
// The method blocks until the mutation settles; callers that must not block
// (the TUI) run it on their own goroutine. The returned Mutation reports
// whether it committed or rolled back.
func (c *Coordinator) UpdateTaskStatus(ctx context.Context, projectID, taskID string, newStatus model.Status) (*Mutation, error) {
	if err := model.ValidateStatus(newStatus); err != nil {
		return nil, err
	}

	key := cache.TasksKey(projectID)
	entry := c.store.Get(key)
	previous, ok := entry.Data.([]model.Task)
	if !ok {
		return nil, apperr.Newf(apperr.InvalidInput,
			"no cached task list for project %s", projectID)
	}

	// Snapshot before touching anything; overlapping mutations each roll
	// back to their own "before" state.
	snapshot := append([]model.Task(nil), previous...)

	// Optimistic step: the moved card must be visible in the very next
	// frame. A missing task is a no-op here but the real call still goes
	// out and surfaces its error on settle.
	patched := append([]model.Task(nil), previous...)
	for i := range patched {
		if patched[i].ID == taskID {
			patched[i].Status = newStatus
			break
		}
	}
	c.store.Set(key, patched)
	c.setDragging(taskID, true)

	m := newMutation("updateTaskStatus", projectID, taskID)

	updated, err := c.api.UpdateTask(ctx, projectID, taskID, model.StatusPatch(newStatus))
	if err != nil {
		// Full rollback, not a partial patch: restoring the snapshot
		// verbatim avoids compounding drift when other fields changed
		// concurrently.
		m.rollback()
		c.store.Set(key, snapshot)
		c.notify(LevelError, fmt.Sprintf("Failed to move task: %v", err))
	} else {
		// The server response is authoritative; it may carry fields the
		// optimistic copy could not know.
		m.commit()
		c.replaceTask(key, updated)
		c.notify(LevelInfo, fmt.Sprintf("Task moved to %s", newStatus.Label()))
	}

	// Settled: reconcile with server state and drop the transient marker.
	c.setDragging(taskID, false)
	c.store.Invalidate(cache.AllTasksKey())
	c.refreshTasks(ctx, projectID)
	c.log(m, err)

	return m, err
}

// CreateTask validates the form fields and creates the task. Validation
// failures never reach the data service. No optimistic insert is performed:
// the task ID is server-assigned, so the list is invalidated on success and
// refetched instead of locally merged.
func (c *Coordinator) CreateTask(ctx context.Context, projectID string, fields model.TaskFields) (model.Task, error) {
	if fields.Status == "" {
		fields.Status = model.StatusTodo
	}
	if err := c.validateFields(ctx, fields); err != nil {
		return model.Task{}, err
	}

	m := newMutation("createTask", projectID, "")
	created, err := c.api.CreateTask(ctx, projectID, fields)
	if err != nil {
		m.rollback()
		c.notify(LevelError, fmt.Sprintf("Failed to create task: %v", err))
		c.log(m, err)
		return model.Task{}, err
	}

	m.commit()
	m.TaskID = created.ID
	c.store.Invalidate(cache.TasksKey(projectID))
	c.store.Invalidate(cache.AllTasksKey())
	c.notify(LevelInfo, fmt.Sprintf("Created task %q", created.Title))
	c.log(m, nil)
	return created, nil
}

// UpdateTask applies a field edit. No optimistic local mutation; affected
// keys are invalidated once the service confirms.
func (c *Coordinator) UpdateTask(ctx context.Context, projectID, taskID string, patch model.TaskPatch) (model.Task, error) {
	if err := c.validatePatch(ctx, patch); err != nil {
		return model.Task{}, err
	}

	m := newMutation("updateTask", projectID, taskID)
	updated, err := c.api.UpdateTask(ctx, projectID, taskID, patch)
	if err != nil {
		m.rollback()
		c.notify(LevelError, fmt.Sprintf("Failed to update task: %v", err))
		c.log(m, err)
		return model.Task{}, err
	}

	m.commit()
	c.store.Invalidate(cache.TasksKey(projectID))
	c.store.Invalidate(cache.TaskKey(projectID, taskID))
	c.store.Invalidate(cache.AllTasksKey())
	c.notify(LevelInfo, fmt.Sprintf("Updated task %q", updated.Title))
	c.log(m, nil)
	return updated, nil
}

// DeleteTask removes a task. Confirmation is the caller's responsibility.
func (c *Coordinator) DeleteTask(ctx context.Context, projectID, taskID string) error {
	m := newMutation("deleteTask", projectID, taskID)
	err := c.api.DeleteTask(ctx, projectID, taskID)
	if err != nil {
		m.rollback()
		c.notify(LevelError, fmt.Sprintf("Failed to delete task: %v", err))
		c.log(m, err)
		return err
	}

	m.commit()
	c.store.Invalidate(cache.TasksKey(projectID))
	c.store.Invalidate(cache.TaskKey(projectID, taskID))
	c.store.Invalidate(cache.AllTasksKey())
	c.notify(LevelInfo, "Task deleted")
	c.log(m, nil)
	return nil
}

// InviteUsers adds users to a project's invitation set and refreshes the
// profile-derived invitee lists.
func (c *Coordinator) InviteUsers(ctx context.Context, projectID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return apperr.New(apperr.ValidationFailed, "select at least one user to invite")
	}

	m := newMutation("inviteUsers", projectID, "")
	err := c.api.InviteUsersToProject(ctx, projectID, userIDs)
	if err != nil {
		m.rollback()
		c.notify(LevelError, fmt.Sprintf("Failed to invite users: %v", err))
		c.log(m, err)
		return err
	}

	m.commit()
	c.store.Invalidate(cache.ProfileKey())
	c.notify(LevelInfo, fmt.Sprintf("Invited %d user(s)", len(userIDs)))
	c.log(m, nil)
	return nil
}

// IsDragging reports whether a status mutation is in flight for the task.
func (c *Coordinator) IsDragging(taskID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging[taskID] > 0
}

// setDragging counts in-flight status mutations per task, so the marker
// stays set while any overlapping mutation is still unsettled.
func (c *Coordinator) setDragging(taskID string, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v {
		c.dragging[taskID]++
		return
	}
	if c.dragging[taskID]--; c.dragging[taskID] <= 0 {
		delete(c.dragging, taskID)
	}
}

// replaceTask swaps the server-authoritative task into the cached list.
func (c *Coordinator) replaceTask(key cache.Key, updated model.Task) {
	entry := c.store.Get(key)
	current, ok := entry.Data.([]model.Task)
	if !ok {
		return
	}
	merged := append([]model.Task(nil), current...)
	for i := range merged {
		if merged[i].ID == updated.ID {
			merged[i] = updated
			break
		}
	}
	c.store.Set(key, merged)
}

// validateFields runs the create-form checks. The assignee set comes from
// the cache when fresh, otherwise from a reference-data fetch; either way
// the write call itself is never issued for invalid input.
func (c *Coordinator) validateFields(ctx context.Context, fields model.TaskFields) error {
	if err := model.ValidateTitle(fields.Title); err != nil {
		return err
	}
	if err := model.ValidateStatus(fields.Status); err != nil {
		return err
	}
	assignees, err := c.assignees(ctx)
	if err != nil {
		return err
	}
	if err := model.ValidateAssigneeID(fields.AssigneeID, assignees); err != nil {
		return err
	}
	return model.ValidateDueDate(fields.DueDate, date.FromTime(c.now()))
}

func (c *Coordinator) validatePatch(ctx context.Context, patch model.TaskPatch) error {
	if patch.Title != nil {
		if err := model.ValidateTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.Status != nil {
		if err := model.ValidateStatus(*patch.Status); err != nil {
			return err
		}
	}
	if patch.AssigneeID != nil {
		assignees, err := c.assignees(ctx)
		if err != nil {
			return err
		}
		if err := model.ValidateAssigneeID(*patch.AssigneeID, assignees); err != nil {
			return err
		}
	}
	if patch.DueDate != nil {
		if err := model.ValidateDueDate(*patch.DueDate, date.FromTime(c.now())); err != nil {
			return err
		}
	}
	return nil
}

// assignees returns the assignee reference set, from cache when possible.
func (c *Coordinator) assignees(ctx context.Context) ([]model.Assignee, error) {
	key := cache.AssigneesKey()
	if entry := c.store.Get(key); entry.Status == cache.StatusSuccess && !entry.Stale {
		if list, ok := entry.Data.([]model.Assignee); ok {
			return list, nil
		}
	}
	if err := c.Refresh(ctx, key); err != nil {
		return nil, err
	}
	list, _ := c.store.Get(key).Data.([]model.Assignee)
	return list, nil
}
