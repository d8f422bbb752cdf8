// Package memory implements the data service against in-memory state with
// simulated network latency. State is seeded from a YAML fixture file so the
// client can be exercised without a real backend.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/model"
)

// Operation names passed to the intercept hook.
const (
	OpFetchProjects    = "fetchProjects"
	OpFetchUserProfile = "fetchUserProfile"
	OpFetchTasks       = "fetchTasks"
	OpFetchTask        = "fetchTask"
	OpFetchAllTasks    = "fetchAllTasks"
	OpFetchAssignees   = "fetchAssignees"
	OpCreateTask       = "createTask"
	OpUpdateTask       = "updateTask"
	OpDeleteTask       = "deleteTask"
	OpInviteUsers      = "inviteUsersToProject"
)

// Seed is the fixture file schema.
type Seed struct {
	Projects    []model.Project         `yaml:"projects"`
	Tasks       map[string][]model.Task `yaml:"tasks"`
	Assignees   []model.Assignee        `yaml:"assignees"`
	Invitations map[string][]string     `yaml:"invitations"`
	Profile     model.UserProfile       `yaml:"profile"`
}

// Service is an in-memory data service. All exported methods are safe for
// concurrent use; each simulates one network round-trip.
type Service struct {
	mu          sync.Mutex
	projects    []model.Project
	tasks       map[string][]model.Task
	assignees   []model.Assignee
	invitations map[string][]string
	profile     model.UserProfile

	latency   time.Duration
	fixture   string
	logger    *slog.Logger
	intercept func(op string) error
}

// Option configures a Service.
type Option func(*Service)

// WithLatency sets the simulated per-call delay.
func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

// WithLogger sets the structured logger for mutations.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service from a seed.
func New(seed Seed, opts ...Option) *Service {
	s := &Service{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.apply(seed)
	return s
}

// Open creates a Service seeded from a YAML fixture file. A missing file
// falls back to the default seed; a malformed one is an error.
func Open(path string, opts ...Option) (*Service, error) {
	seed, err := LoadSeed(path)
	if err != nil {
		if os.IsNotExist(err) {
			seed = DefaultSeed()
		} else {
			return nil, err
		}
	}
	s := New(seed, opts...)
	s.fixture = path
	return s, nil
}

// LoadSeed reads a fixture file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted config
	if err != nil {
		return Seed{}, err
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return seed, nil
}

// WriteSeed writes a seed to a fixture file.
func WriteSeed(path string, seed Seed) error {
	data, err := yaml.Marshal(seed)
	if err != nil {
		return fmt.Errorf("marshaling fixture: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Reload re-seeds state from the fixture file. Used by the file watcher when
// the fixture changes on disk. No-op when the service was not opened from a
// file.
func (s *Service) Reload() error {
	if s.fixture == "" {
		return nil
	}
	seed, err := LoadSeed(s.fixture)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(seed)
	s.logger.Info("fixture reloaded", "path", s.fixture)
	return nil
}

// SetIntercept installs fn, invoked at the start of every call after the
// simulated latency has elapsed. A non-nil return fails the call. Tests use
// this to inject failures and to hold calls open mid-flight.
func (s *Service) SetIntercept(fn func(op string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intercept = fn
}

func (s *Service) apply(seed Seed) {
	s.projects = append([]model.Project(nil), seed.Projects...)
	s.assignees = append([]model.Assignee(nil), seed.Assignees...)
	s.tasks = make(map[string][]model.Task, len(seed.Tasks))
	for id, ts := range seed.Tasks {
		s.tasks[id] = append([]model.Task(nil), ts...)
	}
	s.invitations = make(map[string][]string, len(seed.Invitations))
	for id, users := range seed.Invitations {
		s.invitations[id] = append([]string(nil), users...)
	}
	s.profile = seed.Profile
}

// begin simulates the network round-trip delay and runs the intercept hook.
func (s *Service) begin(ctx context.Context, op string) error {
	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	fn := s.intercept
	s.mu.Unlock()
	if fn != nil {
		if err := fn(op); err != nil {
			return err
		}
	}
	return nil
}

// FetchProjects lists all projects.
func (s *Service) FetchProjects(ctx context.Context) ([]model.Project, error) {
	if err := s.begin(ctx, OpFetchProjects); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Project(nil), s.projects...), nil
}

// FetchUserProfile returns the profile with invitedUsers derived per joined
// project from the invitation sets.
func (s *Service) FetchUserProfile(ctx context.Context) (model.UserProfile, error) {
	if err := s.begin(ctx, OpFetchUserProfile); err != nil {
		return model.UserProfile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profile
	p.JoinedProjects = append([]string(nil), s.profile.JoinedProjects...)
	p.InvitedUsers = nil
	for _, proj := range s.projects {
		if !containsString(p.JoinedProjects, proj.ID) {
			continue
		}
		inv := model.ProjectInvites{ProjectID: proj.ID, ProjectName: proj.Name}
		for _, userID := range s.invitations[proj.ID] {
			if a, ok := s.findAssignee(userID); ok {
				inv.Users = append(inv.Users, a)
			}
		}
		p.InvitedUsers = append(p.InvitedUsers, inv)
	}
	return p, nil
}

// FetchTasks lists a project's tasks. Fails with PROJECT_NOT_FOUND for an
// unknown project.
func (s *Service) FetchTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	if err := s.begin(ctx, OpFetchTasks); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.tasks[projectID]
	if !ok {
		return nil, apperr.Newf(apperr.ProjectNotFound, "tasks not found for project: %s", projectID).
			WithDetails(map[string]any{"project_id": projectID})
	}
	return append([]model.Task(nil), ts...), nil
}

// FetchTask returns a single task.
func (s *Service) FetchTask(ctx context.Context, projectID, taskID string) (model.Task, error) {
	if err := s.begin(ctx, OpFetchTask); err != nil {
		return model.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.tasks[projectID]
	if !ok {
		return model.Task{}, apperr.Newf(apperr.ProjectNotFound, "project not found: %s", projectID)
	}
	for _, t := range ts {
		if t.ID == taskID {
			return t, nil
		}
	}
	return model.Task{}, apperr.Newf(apperr.TaskNotFound, "task not found: %s", taskID).
		WithDetails(map[string]any{"project_id": projectID, "task_id": taskID})
}

// FetchAllTasks returns every task across projects, annotated with the
// project name, ordered by project creation time.
func (s *Service) FetchAllTasks(ctx context.Context) ([]model.TaskWithProject, error) {
	if err := s.begin(ctx, OpFetchAllTasks); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := append([]model.Project(nil), s.projects...)
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})

	var all []model.TaskWithProject
	for _, proj := range projects {
		for _, t := range s.tasks[proj.ID] {
			all = append(all, model.TaskWithProject{Task: t, ProjectName: proj.Name})
		}
	}
	return all, nil
}

// FetchAssignees lists all known assignees.
func (s *Service) FetchAssignees(ctx context.Context) ([]model.Assignee, error) {
	if err := s.begin(ctx, OpFetchAssignees); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Assignee(nil), s.assignees...), nil
}

// CreateTask appends a task with a server-assigned ID. Fails when the
// assignee cannot be resolved.
func (s *Service) CreateTask(ctx context.Context, projectID string, fields model.TaskFields) (model.Task, error) {
	if err := s.begin(ctx, OpCreateTask); err != nil {
		return model.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	assignee, ok := s.findAssignee(fields.AssigneeID)
	if !ok {
		return model.Task{}, apperr.Newf(apperr.AssigneeNotFound, "assignee not found: %s", fields.AssigneeID)
	}

	t := model.Task{
		ID:          "task-" + uuid.NewString(),
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
		Assignee:    assignee,
		DueDate:     fields.DueDate,
	}
	s.tasks[projectID] = append(s.tasks[projectID], t)
	s.logger.Info("task created", "project", projectID, "task", t.ID, "title", t.Title)
	return t, nil
}

// UpdateTask applies a partial update and returns the updated task.
func (s *Service) UpdateTask(ctx context.Context, projectID, taskID string, patch model.TaskPatch) (model.Task, error) {
	if err := s.begin(ctx, OpUpdateTask); err != nil {
		return model.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.tasks[projectID]
	if !ok {
		return model.Task{}, apperr.Newf(apperr.ProjectNotFound, "project not found: %s", projectID)
	}
	for i := range ts {
		if ts[i].ID != taskID {
			continue
		}
		updated := ts[i]
		patch.Apply(&updated)
		if patch.AssigneeID != nil {
			a, found := s.findAssignee(*patch.AssigneeID)
			if !found {
				return model.Task{}, apperr.Newf(apperr.AssigneeNotFound, "assignee not found: %s", *patch.AssigneeID)
			}
			updated.Assignee = a
		}
		ts[i] = updated
		s.logger.Info("task updated", "project", projectID, "task", taskID)
		return updated, nil
	}
	return model.Task{}, apperr.Newf(apperr.TaskNotFound, "task not found: %s", taskID)
}

// DeleteTask removes a task from its project.
func (s *Service) DeleteTask(ctx context.Context, projectID, taskID string) error {
	if err := s.begin(ctx, OpDeleteTask); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.tasks[projectID]
	if !ok {
		return apperr.Newf(apperr.ProjectNotFound, "project not found: %s", projectID)
	}
	kept := ts[:0]
	for _, t := range ts {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	s.tasks[projectID] = kept
	s.logger.Info("task deleted", "project", projectID, "task", taskID)
	return nil
}

// InviteUsersToProject adds users to a project's invitation set. The set
// grows monotonically and never holds duplicates.
func (s *Service) InviteUsersToProject(ctx context.Context, projectID string, userIDs []string) error {
	if err := s.begin(ctx, OpInviteUsers); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.projectExists(projectID) {
		return apperr.Newf(apperr.ProjectNotFound, "project not found: %s", projectID)
	}
	for _, id := range userIDs {
		if _, ok := s.findAssignee(id); !ok {
			return apperr.Newf(apperr.UserNotFound, "user not found: %s", id)
		}
	}
	for _, id := range userIDs {
		if !containsString(s.invitations[projectID], id) {
			s.invitations[projectID] = append(s.invitations[projectID], id)
		}
	}
	s.logger.Info("users invited", "project", projectID, "count", len(userIDs))
	return nil
}

func (s *Service) findAssignee(id string) (model.Assignee, bool) {
	for _, a := range s.assignees {
		if a.ID == id {
			return a, true
		}
	}
	return model.Assignee{}, false
}

func (s *Service) projectExists(id string) bool {
	for _, p := range s.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
