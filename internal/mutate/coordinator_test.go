package mutate

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/date"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/service/memory"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *memory.Service, *cache.Store) {
	t.Helper()
	svc := memory.New(memory.DefaultSeed())
	store := cache.NewStore()
	c := New(svc, store)
	// Validation clocks against a day when the seed due dates are still open.
	c.SetNow(func() time.Time { return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC) })
	return c, svc, store
}

func primeTasks(t *testing.T, c *Coordinator, projectID string) []model.Task {
	t.Helper()
	if err := c.Refresh(context.Background(), cache.TasksKey(projectID)); err != nil {
		t.Fatalf("priming task cache: %v", err)
	}
	list, ok := c.Store().Get(cache.TasksKey(projectID)).Data.([]model.Task)
	if !ok {
		t.Fatal("task cache did not hold a task list")
	}
	return list
}

func TestUpdateTaskStatus_OptimisticVisibility(t *testing.T) {
	c, svc, store := newTestCoordinator(t)
	primeTasks(t, c, "proj-1")

	// Hold the service call open so the in-flight window is observable.
	enter := make(chan struct{})
	release := make(chan struct{})
	svc.SetIntercept(func(op string) error {
		if op == memory.OpUpdateTask {
			close(enter)
			<-release
		}
		return nil
	})

	done := make(chan *Mutation, 1)
	go func() {
		m, _ := c.UpdateTaskStatus(context.Background(), "proj-1", "task-101", model.StatusDone)
		done <- m
	}()

	<-enter
	// The call has not settled, but the cache already shows the new status.
	list, _ := store.Get(cache.TasksKey("proj-1")).Data.([]model.Task)
	if len(list) == 0 || list[0].Status != model.StatusDone {
		t.Errorf("optimistic status not visible while call in flight: %+v", list)
	}
	if !c.IsDragging("task-101") {
		t.Error("expected drag marker while mutation in flight")
	}

	svc.SetIntercept(nil)
	close(release)
	m := <-done

	if m.State() != StateCommitted {
		t.Errorf("expected committed, got %v", m.State())
	}
	if c.IsDragging("task-101") {
		t.Error("drag marker must clear on settle")
	}
	list, _ = store.Get(cache.TasksKey("proj-1")).Data.([]model.Task)
	if len(list) == 0 || list[0].Status != model.StatusDone {
		t.Errorf("committed status missing after settle: %+v", list)
	}
}

func TestUpdateTaskStatus_RollbackRestoresSnapshot(t *testing.T) {
	c, svc, store := newTestCoordinator(t)
	before := primeTasks(t, c, "proj-1")

	// Fail the write and the settle refetch, so the cache holds exactly what
	// the rollback restored.
	svc.SetIntercept(func(op string) error {
		if op == memory.OpUpdateTask || op == memory.OpFetchTasks {
			return errors.New("network down")
		}
		return nil
	})

	var gotNotice *Notice
	unsub := c.SubscribeNotices(func(n Notice) { gotNotice = &n })
	defer unsub()

	m, err := c.UpdateTaskStatus(context.Background(), "proj-1", "task-101", model.StatusDone)
	if err == nil {
		t.Fatal("expected error from failed mutation")
	}
	if m.State() != StateRolledBack {
		t.Errorf("expected rolled back, got %v", m.State())
	}

	after, _ := store.Get(cache.TasksKey("proj-1")).Data.([]model.Task)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("rollback did not restore the snapshot:\nbefore %+v\nafter  %+v", before, after)
	}
	if c.IsDragging("task-101") {
		t.Error("drag marker must clear even on failure")
	}
	if gotNotice == nil || gotNotice.Level != LevelError {
		t.Errorf("expected an error notice, got %+v", gotNotice)
	}
}

func TestUpdateTaskStatus_OverlappingRollbacksRestoreOwnSnapshots(t *testing.T) {
	c, svc, store := newTestCoordinator(t)
	primeTasks(t, c, "proj-1")
	key := cache.TasksKey("proj-1")

	// Hold both writes open, releasable one at a time, and fail them along
	// with the settle refetch so the cache holds exactly what each rollback
	// restored.
	enterFirst, releaseFirst := make(chan struct{}), make(chan struct{})
	enterSecond, releaseSecond := make(chan struct{}), make(chan struct{})
	var mu sync.Mutex
	updates := 0
	svc.SetIntercept(func(op string) error {
		switch op {
		case memory.OpUpdateTask:
			mu.Lock()
			updates++
			n := updates
			mu.Unlock()
			if n == 1 {
				close(enterFirst)
				<-releaseFirst
			} else {
				close(enterSecond)
				<-releaseSecond
			}
			return errors.New("network down")
		case memory.OpFetchTasks:
			return errors.New("network down")
		}
		return nil
	})

	done1 := make(chan *Mutation, 1)
	go func() {
		m, _ := c.UpdateTaskStatus(context.Background(), "proj-1", "task-101", model.StatusDone)
		done1 <- m
	}()
	<-enterFirst

	// The second mutation starts over the first one's optimistic state and
	// must roll back to exactly that, not to the original list.
	secondPre, _ := store.Get(key).Data.([]model.Task)
	if len(secondPre) == 0 || secondPre[0].Status != model.StatusDone {
		t.Fatalf("expected the first optimistic write in place, got %+v", secondPre)
	}

	done2 := make(chan *Mutation, 1)
	go func() {
		m, _ := c.UpdateTaskStatus(context.Background(), "proj-1", "task-101", model.StatusTodo)
		done2 <- m
	}()
	<-enterSecond

	close(releaseFirst)
	m1 := <-done1
	if m1.State() != StateRolledBack {
		t.Errorf("expected first mutation rolled back, got %v", m1.State())
	}
	if !c.IsDragging("task-101") {
		t.Error("drag marker must survive the first settlement while the second is in flight")
	}

	close(releaseSecond)
	m2 := <-done2
	if m2.State() != StateRolledBack {
		t.Errorf("expected second mutation rolled back, got %v", m2.State())
	}

	after, _ := store.Get(key).Data.([]model.Task)
	if !reflect.DeepEqual(secondPre, after) {
		t.Errorf("last settlement must restore its own snapshot:\nwant %+v\ngot  %+v", secondPre, after)
	}
	if c.IsDragging("task-101") {
		t.Error("drag marker must clear once every mutation has settled")
	}
}

func TestUpdateTaskStatus_RejectsInvalidStatus(t *testing.T) {
	c, svc, _ := newTestCoordinator(t)
	primeTasks(t, c, "proj-1")

	calls := 0
	svc.SetIntercept(func(string) error { calls++; return nil })

	_, err := c.UpdateTaskStatus(context.Background(), "proj-1", "task-101", model.Status("BOGUS"))
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || !appErr.IsValidation() {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("invalid status must never reach the service, got %d calls", calls)
	}
}

func TestUpdateTaskStatus_RequiresCachedList(t *testing.T) {
	c, _, _ := newTestCoordinator(t)

	_, err := c.UpdateTaskStatus(context.Background(), "proj-1", "task-101", model.StatusDone)
	if err == nil {
		t.Fatal("expected error when no task list is cached")
	}
}

func TestCreateTask_ValidationNeverReachesService(t *testing.T) {
	c, svc, _ := newTestCoordinator(t)

	writeCalls := 0
	svc.SetIntercept(func(op string) error {
		if op == memory.OpCreateTask {
			writeCalls++
		}
		return nil
	})

	cases := []struct {
		name   string
		fields model.TaskFields
	}{
		{"empty title", model.TaskFields{AssigneeID: "user-1", DueDate: date.New(2025, 6, 1)}},
		{"past due date", model.TaskFields{Title: "x", AssigneeID: "user-1", DueDate: date.New(2024, 1, 1)}},
		{"missing due date", model.TaskFields{Title: "x", AssigneeID: "user-1"}},
		{"unknown assignee", model.TaskFields{Title: "x", AssigneeID: "user-99", DueDate: date.New(2025, 6, 1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.CreateTask(context.Background(), "proj-1", tc.fields)
			var appErr *apperr.Error
			if !errors.As(err, &appErr) {
				t.Fatalf("expected a structured error, got %v", err)
			}
		})
	}
	if writeCalls != 0 {
		t.Errorf("invalid input must never reach the service, got %d create calls", writeCalls)
	}
}

func TestCreateTask_SuccessInvalidatesLists(t *testing.T) {
	c, _, store := newTestCoordinator(t)
	primeTasks(t, c, "proj-1")
	if err := c.Refresh(context.Background(), cache.AllTasksKey()); err != nil {
		t.Fatalf("priming all-tasks cache: %v", err)
	}

	created, err := c.CreateTask(context.Background(), "proj-1", model.TaskFields{
		Title:      "Write release notes",
		AssigneeID: "user-2",
		DueDate:    date.New(2025, 6, 1),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a server-assigned task ID")
	}
	if created.Status != model.StatusTodo {
		t.Errorf("status must default to TODO, got %v", created.Status)
	}
	if created.Assignee.Name != "Bob" {
		t.Errorf("assignee not resolved, got %+v", created.Assignee)
	}

	if !store.Get(cache.TasksKey("proj-1")).Stale {
		t.Error("task list must be invalidated on create")
	}
	if !store.Get(cache.AllTasksKey()).Stale {
		t.Error("cross-project list must be invalidated on create")
	}
}

func TestUpdateTask_InvalidatesAffectedKeys(t *testing.T) {
	c, _, store := newTestCoordinator(t)
	primeTasks(t, c, "proj-1")
	if err := c.Refresh(context.Background(), cache.TaskKey("proj-1", "task-101")); err != nil {
		t.Fatalf("priming task cache: %v", err)
	}

	title := "Renamed"
	_, err := c.UpdateTask(context.Background(), "proj-1", "task-101", model.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	for _, key := range []cache.Key{
		cache.TasksKey("proj-1"),
		cache.TaskKey("proj-1", "task-101"),
		cache.AllTasksKey(),
	} {
		if !store.Get(key).Stale {
			t.Errorf("key %v must be stale after update", key)
		}
	}
}

func TestDeleteTask_Settles(t *testing.T) {
	c, svc, store := newTestCoordinator(t)
	primeTasks(t, c, "proj-1")

	if err := c.DeleteTask(context.Background(), "proj-1", "task-101"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !store.Get(cache.TasksKey("proj-1")).Stale {
		t.Error("task list must be invalidated on delete")
	}

	_, err := svc.FetchTask(context.Background(), "proj-1", "task-101")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.TaskNotFound {
		t.Errorf("expected TASK_NOT_FOUND after delete, got %v", err)
	}
}

func TestInviteUsers_EmptySelectionRejected(t *testing.T) {
	c, svc, _ := newTestCoordinator(t)

	calls := 0
	svc.SetIntercept(func(string) error { calls++; return nil })

	err := c.InviteUsers(context.Background(), "proj-1", nil)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.ValidationFailed {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("empty invite must never reach the service, got %d calls", calls)
	}
}

func TestInviteUsers_SuccessInvalidatesProfile(t *testing.T) {
	c, _, store := newTestCoordinator(t)
	if err := c.Refresh(context.Background(), cache.ProfileKey()); err != nil {
		t.Fatalf("priming profile cache: %v", err)
	}

	if err := c.InviteUsers(context.Background(), "proj-1", []string{"user-3"}); err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if !store.Get(cache.ProfileKey()).Stale {
		t.Error("profile must be invalidated after invite")
	}
}

func TestRefresh_StaleResponseDiscarded(t *testing.T) {
	c, svc, store := newTestCoordinator(t)
	key := cache.TasksKey("proj-1")

	// Hold the fetch open, write directly into the cache, then release.
	enter := make(chan struct{})
	release := make(chan struct{})
	svc.SetIntercept(func(op string) error {
		if op == memory.OpFetchTasks {
			close(enter)
			<-release
		}
		return nil
	})

	done := make(chan struct{})
	go func() {
		_ = c.Refresh(context.Background(), key)
		close(done)
	}()

	<-enter
	direct := []model.Task{{ID: "task-direct", Title: "written mid-flight", Status: model.StatusTodo}}
	store.Set(key, direct)
	close(release)
	<-done

	got, _ := store.Get(key).Data.([]model.Task)
	if !reflect.DeepEqual(direct, got) {
		t.Errorf("slow fetch overwrote newer direct write: %+v", got)
	}
}

func TestEnsureFresh_InvalidateTwiceFetchesOnce(t *testing.T) {
	c, svc, store := newTestCoordinator(t)
	key := cache.TasksKey("proj-1")
	primeTasks(t, c, "proj-1")

	fetches := 0
	svc.SetIntercept(func(op string) error {
		if op == memory.OpFetchTasks {
			fetches++
		}
		return nil
	})

	store.Invalidate(key)
	store.Invalidate(key)

	if err := c.EnsureFresh(context.Background(), key); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if err := c.EnsureFresh(context.Background(), key); err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if fetches != 1 {
		t.Errorf("double invalidate must cost one refetch, got %d", fetches)
	}
}

func TestMutation_SettlesExactlyOnce(t *testing.T) {
	m := newMutation("updateTaskStatus", "proj-1", "task-101")
	if m.State() != StatePending {
		t.Fatalf("expected pending, got %v", m.State())
	}
	m.commit()
	m.rollback()
	if m.State() != StateCommitted {
		t.Errorf("settled mutation must not change state, got %v", m.State())
	}
}
