package memory

import (
	"time"

	"github.com/taskdeck/taskdeck/internal/date"
	"github.com/taskdeck/taskdeck/internal/model"
)

// DefaultSeed returns the built-in demo data used when no fixture file
// exists yet.
func DefaultSeed() Seed {
	alice := model.Assignee{ID: "user-1", Name: "Alice"}
	bob := model.Assignee{ID: "user-2", Name: "Bob"}
	charlie := model.Assignee{ID: "user-3", Name: "Charlie"}

	return Seed{
		Projects: []model.Project{
			{ID: "proj-1", Name: "Frontend Refactor", CreatedAt: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)},
			{ID: "proj-2", Name: "Mobile MVP", CreatedAt: time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)},
		},
		Tasks: map[string][]model.Task{
			"proj-1": {
				{
					ID:          "task-101",
					Title:       "Set up the state store",
					Description: "Implement global state for modal and current project",
					Status:      model.StatusInProgress,
					Assignee:    alice,
					DueDate:     date.New(2025, 5, 15),
				},
			},
			"proj-2": {
				{
					ID:          "task-201",
					Title:       "Design mobile UI",
					Description: "Create wireframes for the mobile app",
					Status:      model.StatusTodo,
					Assignee:    bob,
					DueDate:     date.New(2025, 6, 1),
				},
			},
		},
		Assignees: []model.Assignee{alice, bob, charlie},
		Invitations: map[string][]string{
			"proj-1": {"user-1", "user-2"},
			"proj-2": {"user-2", "user-3"},
		},
		Profile: model.UserProfile{
			ID:             "user-1",
			Name:           "Alice",
			Email:          "alice@example.com",
			JoinedProjects: []string{"proj-1"},
		},
	}
}
