// Package service defines the data service contract the client talks to.
// Implementations are free to be remote or local; the client treats every
// call as a network round-trip that can fail.
package service

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/model"
)

// API is the asynchronous data service consumed by the mutation coordinator
// and the cache refresh paths. Every call either returns a value or fails
// after a bounded delay; callers must treat any error as terminal for that
// call (no retries are performed by the client).
type API interface {
	FetchProjects(ctx context.Context) ([]model.Project, error)
	FetchUserProfile(ctx context.Context) (model.UserProfile, error)
	FetchTasks(ctx context.Context, projectID string) ([]model.Task, error)
	FetchTask(ctx context.Context, projectID, taskID string) (model.Task, error)
	FetchAllTasks(ctx context.Context) ([]model.TaskWithProject, error)
	FetchAssignees(ctx context.Context) ([]model.Assignee, error)
	CreateTask(ctx context.Context, projectID string, fields model.TaskFields) (model.Task, error)
	UpdateTask(ctx context.Context, projectID, taskID string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, projectID, taskID string) error
	InviteUsersToProject(ctx context.Context, projectID string, userIDs []string) error
}
