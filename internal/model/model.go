// Package model defines the tracker's domain entities.
package model

import (
	"time"

	"github.com/taskdeck/taskdeck/internal/date"
)

// Status is a task's board column.
type Status string

// The three board columns, in display order.
const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses returns all statuses in board column order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is one of the three board statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns a human-readable column title.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Project is a container for tasks. Immutable once created: there is no
// project edit or delete operation.
type Project struct {
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	CreatedAt time.Time `yaml:"created_at" json:"createdAt"`
}

// Assignee is a read-only reference entity.
type Assignee struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Task belongs to exactly one project; the owning project ID lives in the
// cache key / service call, not on the task itself.
type Task struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Status      Status    `yaml:"status" json:"status"`
	Assignee    Assignee  `yaml:"assignee" json:"assignee"`
	DueDate     date.Date `yaml:"due_date" json:"dueDate"`
}

// TaskWithProject is a cross-project listing row.
type TaskWithProject struct {
	Task        `yaml:",inline"`
	ProjectName string `yaml:"project_name" json:"projectName"`
}

// ProjectInvites lists the users invited to one joined project.
type ProjectInvites struct {
	ProjectID   string     `yaml:"project_id" json:"projectId"`
	ProjectName string     `yaml:"project_name" json:"projectName"`
	Users       []Assignee `yaml:"users" json:"users"`
}

// UserProfile is the current user, read-only in this scope. InvitedUsers is
// derived per joined project by the data service.
type UserProfile struct {
	ID             string           `yaml:"id" json:"id"`
	Name           string           `yaml:"name" json:"name"`
	Email          string           `yaml:"email" json:"email"`
	JoinedProjects []string         `yaml:"joined_projects" json:"joinedProjects"`
	InvitedUsers   []ProjectInvites `yaml:"invited_users,omitempty" json:"invitedUsers,omitempty"`
}

// TaskFields carries the create-form payload. The task ID is assigned by the
// data service, and the assignee is referenced by ID and resolved there.
type TaskFields struct {
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Status      Status    `yaml:"status" json:"status"`
	AssigneeID  string    `yaml:"assignee_id" json:"assigneeId"`
	DueDate     date.Date `yaml:"due_date" json:"dueDate"`
}

// TaskPatch is a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	DueDate     *date.Date `json:"dueDate,omitempty"`
}

// StatusPatch builds a patch that only moves a task to the given status.
func StatusPatch(s Status) TaskPatch {
	return TaskPatch{Status: &s}
}

// Apply copies the patch's non-nil fields onto a task. The assignee is not
// resolved here; that is the data service's job.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
}
