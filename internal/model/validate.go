package model

import (
	"strings"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/date"
)

// ValidateStatus checks that a status is one of the three board columns.
func ValidateStatus(s Status) error {
	if s.Valid() {
		return nil
	}
	allowed := make([]string, 0, 3)
	for _, v := range Statuses() {
		allowed = append(allowed, string(v))
	}
	return apperr.Newf(apperr.InvalidStatus, "invalid status %q", s).
		WithDetails(map[string]any{
			"status":  string(s),
			"allowed": allowed,
		})
}

// ValidateTitle checks that a title is non-empty after trimming.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) != "" {
		return nil
	}
	return apperr.New(apperr.ValidationFailed, "title must not be empty").
		WithDetails(map[string]any{"field": "title"})
}

// ValidateDueDate checks that a due date is today or in the future.
// The comparison is date-only; time of day is ignored.
func ValidateDueDate(d date.Date, today date.Date) error {
	if d.IsZero() {
		return apperr.New(apperr.ValidationFailed, "due date is required").
			WithDetails(map[string]any{"field": "due_date"})
	}
	if d.BeforeDate(today) {
		return apperr.Newf(apperr.InvalidDate, "due date %s is in the past", d).
			WithDetails(map[string]any{
				"field": "due_date",
				"input": d.String(),
			})
	}
	return nil
}

// ValidateAssigneeID checks that the assignee ID resolves against the known
// assignee set.
func ValidateAssigneeID(id string, known []Assignee) error {
	if id == "" {
		return apperr.New(apperr.ValidationFailed, "assignee is required").
			WithDetails(map[string]any{"field": "assignee_id"})
	}
	for _, a := range known {
		if a.ID == id {
			return nil
		}
	}
	return apperr.Newf(apperr.AssigneeNotFound, "assignee not found: %s", id).
		WithDetails(map[string]any{"assignee_id": id})
}

// ValidateFields runs all create-form checks. Callers pass the current
// assignee set; validation never touches the network.
func ValidateFields(f TaskFields, known []Assignee, today date.Date) error {
	if err := ValidateTitle(f.Title); err != nil {
		return err
	}
	if err := ValidateStatus(f.Status); err != nil {
		return err
	}
	if err := ValidateAssigneeID(f.AssigneeID, known); err != nil {
		return err
	}
	return ValidateDueDate(f.DueDate, today)
}
