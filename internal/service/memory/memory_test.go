package memory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/date"
	"github.com/taskdeck/taskdeck/internal/model"
)

func TestFetchTasks_UnknownProject(t *testing.T) {
	svc := New(DefaultSeed())

	_, err := svc.FetchTasks(context.Background(), "proj-99")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.ProjectNotFound {
		t.Fatalf("expected PROJECT_NOT_FOUND, got %v", err)
	}
}

func TestFetchTask_NotFound(t *testing.T) {
	svc := New(DefaultSeed())

	_, err := svc.FetchTask(context.Background(), "proj-1", "task-999")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.TaskNotFound {
		t.Fatalf("expected TASK_NOT_FOUND, got %v", err)
	}
}

func TestCreateTask_AssignsIDAndResolvesAssignee(t *testing.T) {
	svc := New(DefaultSeed())

	created, err := svc.CreateTask(context.Background(), "proj-1", model.TaskFields{
		Title:      "New task",
		Status:     model.StatusTodo,
		AssigneeID: "user-3",
		DueDate:    date.New(2025, 7, 1),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a server-assigned ID")
	}
	if created.Assignee.Name != "Charlie" {
		t.Errorf("assignee not resolved: %+v", created.Assignee)
	}

	tasks, err := svc.FetchTasks(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected 2 tasks after create, got %d", len(tasks))
	}
}

func TestCreateTask_UnknownAssignee(t *testing.T) {
	svc := New(DefaultSeed())

	_, err := svc.CreateTask(context.Background(), "proj-1", model.TaskFields{
		Title:      "x",
		Status:     model.StatusTodo,
		AssigneeID: "user-99",
	})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.AssigneeNotFound {
		t.Fatalf("expected ASSIGNEE_NOT_FOUND, got %v", err)
	}
}

func TestUpdateTask_AppliesOnlyGivenFields(t *testing.T) {
	svc := New(DefaultSeed())

	title := "Renamed"
	updated, err := svc.UpdateTask(context.Background(), "proj-1", "task-101", model.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("title not applied: %q", updated.Title)
	}
	if updated.Status != model.StatusInProgress {
		t.Errorf("untouched field changed: %v", updated.Status)
	}
	if updated.Assignee.Name != "Alice" {
		t.Errorf("untouched assignee changed: %+v", updated.Assignee)
	}
}

func TestDeleteTask_RemovesTask(t *testing.T) {
	svc := New(DefaultSeed())

	if err := svc.DeleteTask(context.Background(), "proj-1", "task-101"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	tasks, err := svc.FetchTasks(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty project after delete, got %d tasks", len(tasks))
	}
}

func TestInviteUsers_MonotonicWithoutDuplicates(t *testing.T) {
	svc := New(DefaultSeed())
	ctx := context.Background()

	// user-2 is already invited to proj-1; re-inviting must be a no-op.
	if err := svc.InviteUsersToProject(ctx, "proj-1", []string{"user-2", "user-3"}); err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if err := svc.InviteUsersToProject(ctx, "proj-1", []string{"user-3"}); err != nil {
		t.Fatalf("repeat invite failed: %v", err)
	}

	profile, err := svc.FetchUserProfile(ctx)
	if err != nil {
		t.Fatalf("profile fetch failed: %v", err)
	}
	if len(profile.InvitedUsers) != 1 {
		t.Fatalf("expected invites for 1 joined project, got %d", len(profile.InvitedUsers))
	}
	inv := profile.InvitedUsers[0]
	if inv.ProjectID != "proj-1" {
		t.Errorf("expected invites for proj-1, got %q", inv.ProjectID)
	}
	if len(inv.Users) != 3 {
		t.Errorf("expected 3 unique invitees, got %d: %+v", len(inv.Users), inv.Users)
	}
}

func TestInviteUsers_UnknownUser(t *testing.T) {
	svc := New(DefaultSeed())

	err := svc.InviteUsersToProject(context.Background(), "proj-1", []string{"user-99"})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.UserNotFound {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
}

func TestFetchUserProfile_DerivesInvitesFromJoinedProjectsOnly(t *testing.T) {
	svc := New(DefaultSeed())

	profile, err := svc.FetchUserProfile(context.Background())
	if err != nil {
		t.Fatalf("profile fetch failed: %v", err)
	}
	// Alice joined proj-1 only; proj-2's invitations must not leak in.
	for _, inv := range profile.InvitedUsers {
		if inv.ProjectID != "proj-1" {
			t.Errorf("invites derived for non-joined project %q", inv.ProjectID)
		}
	}
}

func TestFetchTasks_ReturnsDefensiveCopy(t *testing.T) {
	svc := New(DefaultSeed())
	ctx := context.Background()

	tasks, err := svc.FetchTasks(ctx, "proj-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	tasks[0].Title = "mutated by caller"

	again, err := svc.FetchTasks(ctx, "proj-1")
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if again[0].Title == "mutated by caller" {
		t.Error("caller mutation leaked into service state")
	}
}

func TestIntercept_FailureInjection(t *testing.T) {
	svc := New(DefaultSeed())
	svc.SetIntercept(func(op string) error {
		if op == OpDeleteTask {
			return errors.New("injected")
		}
		return nil
	})

	if err := svc.DeleteTask(context.Background(), "proj-1", "task-101"); err == nil {
		t.Fatal("expected injected failure")
	}
	tasks, err := svc.FetchTasks(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("failed delete must not mutate state, got %d tasks", len(tasks))
	}
}

func TestOpen_MissingFileFallsBackToDefaultSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yml")

	svc, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	projects, err := svc.FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("expected default seed projects, got %d", len(projects))
	}
}

func TestWriteSeedAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yml")

	seed := DefaultSeed()
	if err := WriteSeed(path, seed); err != nil {
		t.Fatalf("write seed failed: %v", err)
	}

	svc, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	// Edit the fixture on disk and reload.
	seed.Projects = append(seed.Projects, model.Project{ID: "proj-3", Name: "Backend Rewrite"})
	if err := WriteSeed(path, seed); err != nil {
		t.Fatalf("rewrite seed failed: %v", err)
	}
	if err := svc.Reload(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	projects, err := svc.FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(projects) != 3 {
		t.Errorf("expected 3 projects after reload, got %d", len(projects))
	}
}
