package model

import (
	"errors"
	"testing"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/date"
)

var testAssignees = []Assignee{
	{ID: "user-1", Name: "Alice"},
	{ID: "user-2", Name: "Bob"},
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected structured error, got %v", err)
	}
	if appErr.Code != code {
		t.Errorf("expected code %s, got %s", code, appErr.Code)
	}
}

func TestValidateStatus(t *testing.T) {
	for _, s := range Statuses() {
		if err := ValidateStatus(s); err != nil {
			t.Errorf("valid status %q rejected: %v", s, err)
		}
	}
	assertCode(t, ValidateStatus("ARCHIVED"), apperr.InvalidStatus)
	assertCode(t, ValidateStatus(""), apperr.InvalidStatus)
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("Fix the build"); err != nil {
		t.Errorf("valid title rejected: %v", err)
	}
	assertCode(t, ValidateTitle(""), apperr.ValidationFailed)
	assertCode(t, ValidateTitle("   "), apperr.ValidationFailed)
}

func TestValidateDueDate(t *testing.T) {
	today := date.New(2025, 5, 1)

	if err := ValidateDueDate(today, today); err != nil {
		t.Errorf("today must be allowed: %v", err)
	}
	if err := ValidateDueDate(date.New(2025, 5, 2), today); err != nil {
		t.Errorf("future date must be allowed: %v", err)
	}
	assertCode(t, ValidateDueDate(date.New(2025, 4, 30), today), apperr.InvalidDate)
	assertCode(t, ValidateDueDate(date.Date{}, today), apperr.ValidationFailed)
}

func TestValidateAssigneeID(t *testing.T) {
	if err := ValidateAssigneeID("user-1", testAssignees); err != nil {
		t.Errorf("known assignee rejected: %v", err)
	}
	assertCode(t, ValidateAssigneeID("", testAssignees), apperr.ValidationFailed)
	assertCode(t, ValidateAssigneeID("user-99", testAssignees), apperr.AssigneeNotFound)
}

func TestValidateFields_StopsAtFirstFailure(t *testing.T) {
	today := date.New(2025, 5, 1)

	err := ValidateFields(TaskFields{}, testAssignees, today)
	assertCode(t, err, apperr.ValidationFailed)

	good := TaskFields{
		Title:      "x",
		Status:     StatusTodo,
		AssigneeID: "user-1",
		DueDate:    date.New(2025, 5, 2),
	}
	if err := ValidateFields(good, testAssignees, today); err != nil {
		t.Errorf("valid fields rejected: %v", err)
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	task := Task{
		ID:     "task-1",
		Title:  "Old",
		Status: StatusTodo,
	}

	title := "New"
	StatusPatch(StatusDone).Apply(&task)
	(TaskPatch{Title: &title}).Apply(&task)

	if task.Status != StatusDone {
		t.Errorf("status patch not applied: %v", task.Status)
	}
	if task.Title != "New" {
		t.Errorf("title patch not applied: %q", task.Title)
	}
	if task.ID != "task-1" {
		t.Errorf("untouched field changed: %q", task.ID)
	}
}
