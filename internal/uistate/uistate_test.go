package uistate

import "testing"

func TestStore_ModalInvariant(t *testing.T) {
	s := NewStore(ViewBoard)

	check := func(step string) {
		t.Helper()
		st := s.Snapshot()
		if st.EditingTaskID != "" && !st.IsModalOpen {
			t.Errorf("%s: editing task %q with modal closed", step, st.EditingTaskID)
		}
	}

	check("initial")
	s.OpenModal("task-1")
	check("open edit")
	st := s.Snapshot()
	if !st.IsModalOpen || st.EditingTaskID != "task-1" {
		t.Errorf("unexpected state after open: %+v", st)
	}

	s.CloseModal()
	check("close")
	st = s.Snapshot()
	if st.IsModalOpen || st.EditingTaskID != "" {
		t.Errorf("close must clear both fields: %+v", st)
	}

	s.OpenModal("")
	check("open create")
	if st = s.Snapshot(); !st.IsModalOpen {
		t.Error("create mode must open the modal")
	}
	if st.EditingTaskID != "" {
		t.Errorf("create mode must not set an editing target: %+v", st)
	}
}

func TestStore_SetActiveProjectKeepsModalState(t *testing.T) {
	s := NewStore(ViewBoard)
	s.SetActiveProject("proj-1")
	s.OpenModal("task-1")

	s.SetActiveProject("proj-2")

	st := s.Snapshot()
	if st.ActiveProjectID != "proj-2" {
		t.Errorf("expected active project proj-2, got %q", st.ActiveProjectID)
	}
	if !st.IsModalOpen || st.EditingTaskID != "task-1" {
		t.Errorf("project switch must not disturb the modal: %+v", st)
	}
}

func TestStore_InviteModalIndependent(t *testing.T) {
	s := NewStore(ViewBoard)
	s.OpenModal("task-1")
	s.OpenInviteModal()

	st := s.Snapshot()
	if !st.IsModalOpen || !st.IsInviteModalOpen {
		t.Errorf("both modals should be open: %+v", st)
	}

	s.CloseInviteModal()
	st = s.Snapshot()
	if st.IsInviteModalOpen {
		t.Error("invite modal should be closed")
	}
	if !st.IsModalOpen || st.EditingTaskID != "task-1" {
		t.Errorf("closing the invite modal must not touch the task modal: %+v", st)
	}
}

func TestStore_ViewMode(t *testing.T) {
	t.Run("unknown initial mode falls back to board", func(t *testing.T) {
		s := NewStore(ViewMode("spreadsheet"))
		if got := s.Snapshot().ViewMode; got != ViewBoard {
			t.Errorf("expected board fallback, got %q", got)
		}
	})

	t.Run("invalid set is ignored", func(t *testing.T) {
		s := NewStore(ViewTable)
		s.SetViewMode(ViewMode("spreadsheet"))
		if got := s.Snapshot().ViewMode; got != ViewTable {
			t.Errorf("invalid mode must be ignored, got %q", got)
		}
	})

	t.Run("toggle flips modes", func(t *testing.T) {
		s := NewStore(ViewBoard)
		s.ToggleViewMode()
		if got := s.Snapshot().ViewMode; got != ViewTable {
			t.Errorf("expected table after toggle, got %q", got)
		}
		s.ToggleViewMode()
		if got := s.Snapshot().ViewMode; got != ViewBoard {
			t.Errorf("expected board after second toggle, got %q", got)
		}
	})
}

func TestStore_ViewModePersistHook(t *testing.T) {
	s := NewStore(ViewBoard)

	var persisted []ViewMode
	s.OnViewModeChange(func(m ViewMode) { persisted = append(persisted, m) })

	s.SetViewMode(ViewTable)
	s.SetViewMode(ViewTable) // no change, no persist
	s.SetViewMode(ViewBoard)

	want := []ViewMode{ViewTable, ViewBoard}
	if len(persisted) != len(want) {
		t.Fatalf("expected %d persist calls, got %d", len(want), len(persisted))
	}
	for i := range want {
		if persisted[i] != want[i] {
			t.Errorf("persist call %d: expected %q, got %q", i, want[i], persisted[i])
		}
	}
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore(ViewBoard)

	var calls int
	unsub := s.Subscribe(func() { calls++ })

	s.OpenModal("task-1")
	s.CloseModal()
	if calls != 2 {
		t.Errorf("expected 2 notifications, got %d", calls)
	}

	unsub()
	s.OpenModal("task-2")
	if calls != 2 {
		t.Errorf("unsubscribed listener was notified: %d", calls)
	}
}

func TestStore_ResetPreservesViewMode(t *testing.T) {
	s := NewStore(ViewTable)
	s.SetActiveProject("proj-1")
	s.OpenModal("task-1")
	s.OpenInviteModal()

	s.Reset()

	st := s.Snapshot()
	if st.ActiveProjectID != "" || st.IsModalOpen || st.EditingTaskID != "" || st.IsInviteModalOpen {
		t.Errorf("reset must clear session state: %+v", st)
	}
	if st.ViewMode != ViewTable {
		t.Errorf("reset must preserve the view mode, got %q", st.ViewMode)
	}
}
