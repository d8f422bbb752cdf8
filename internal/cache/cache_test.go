package cache

import (
	"errors"
	"testing"
)

func TestStore_SetAndGet(t *testing.T) {
	s := NewStore()
	key := TasksKey("proj-1")

	if got := s.Get(key); got.Status != StatusIdle {
		t.Fatalf("expected idle for unknown key, got %v", got.Status)
	}

	s.Set(key, []string{"a", "b"})
	got := s.Get(key)
	if got.Status != StatusSuccess {
		t.Errorf("expected success, got %v", got.Status)
	}
	if got.Err != nil {
		t.Errorf("expected nil error, got %v", got.Err)
	}
	if got.Stale {
		t.Error("fresh set must not be stale")
	}
	data, ok := got.Data.([]string)
	if !ok || len(data) != 2 {
		t.Errorf("unexpected data: %v", got.Data)
	}
}

func TestStore_SetErrorKeepsLastKnownData(t *testing.T) {
	s := NewStore()
	key := ProjectsKey()

	s.Set(key, "old")
	s.SetError(key, errors.New("boom"))

	got := s.Get(key)
	if got.Status != StatusError {
		t.Fatalf("expected error status, got %v", got.Status)
	}
	if got.Err == nil {
		t.Error("expected error to be recorded")
	}
	if got.Data != "old" {
		t.Errorf("error must preserve last-known data, got %v", got.Data)
	}
}

func TestStore_SetLoadingDoesNotFlickerFreshData(t *testing.T) {
	s := NewStore()
	key := AssigneesKey()

	s.Set(key, "fresh")
	s.SetLoading(key)
	if got := s.Get(key); got.Status != StatusSuccess {
		t.Errorf("loading over fresh success must keep success, got %v", got.Status)
	}

	s.Invalidate(key)
	s.SetLoading(key)
	if got := s.Get(key); got.Status != StatusLoading {
		t.Errorf("loading over stale data should apply, got %v", got.Status)
	}
}

func TestStore_InvalidateIsIdempotentAndKeepsData(t *testing.T) {
	s := NewStore()
	key := TasksKey("proj-1")
	s.Set(key, "data")

	var notified int
	unsub := s.Subscribe(func(Key) { notified++ })
	defer unsub()

	s.Invalidate(key)
	s.Invalidate(key)
	s.Invalidate(key)

	got := s.Get(key)
	if !got.Stale {
		t.Error("expected stale after invalidate")
	}
	if got.Data != "data" {
		t.Errorf("invalidate must keep data, got %v", got.Data)
	}
	if got.Status != StatusSuccess {
		t.Errorf("invalidate must keep status, got %v", got.Status)
	}
	if notified != 1 {
		t.Errorf("repeat invalidations must notify once, got %d", notified)
	}
}

func TestStore_NeedsFetch(t *testing.T) {
	s := NewStore()
	key := ProfileKey()

	if !s.NeedsFetch(key) {
		t.Error("unknown key needs fetch")
	}

	s.Set(key, "x")
	if s.NeedsFetch(key) {
		t.Error("fresh success does not need fetch")
	}

	s.Invalidate(key)
	if !s.NeedsFetch(key) {
		t.Error("stale entry needs fetch")
	}

	gen := s.Begin(key)
	s.Fail(key, gen, errors.New("boom"))
	if !s.NeedsFetch(key) {
		t.Error("failed entry needs fetch")
	}
}

func TestStore_CommitDiscardsSupersededResponse(t *testing.T) {
	s := NewStore()
	key := TasksKey("proj-1")

	t.Run("direct write supersedes in-flight fetch", func(t *testing.T) {
		gen := s.Begin(key)
		s.Set(key, "optimistic")

		if s.Commit(key, gen, "slow response") {
			t.Error("commit of superseded generation must be discarded")
		}
		if got := s.Get(key); got.Data != "optimistic" {
			t.Errorf("stale response overwrote newer data: %v", got.Data)
		}
	})

	t.Run("newer fetch supersedes older fetch", func(t *testing.T) {
		first := s.Begin(key)
		second := s.Begin(key)

		if s.Commit(key, first, "first") {
			t.Error("older fetch must be discarded")
		}
		if !s.Commit(key, second, "second") {
			t.Error("newest fetch must land")
		}
		if got := s.Get(key); got.Data != "second" {
			t.Errorf("expected newest data, got %v", got.Data)
		}
	})

	t.Run("superseded failure is discarded", func(t *testing.T) {
		gen := s.Begin(key)
		s.Set(key, "newer")

		if s.Fail(key, gen, errors.New("slow failure")) {
			t.Error("failure of superseded generation must be discarded")
		}
		if got := s.Get(key); got.Status != StatusSuccess {
			t.Errorf("stale failure changed status: %v", got.Status)
		}
	})
}

func TestStore_BeginClearsStale(t *testing.T) {
	s := NewStore()
	key := TasksKey("proj-1")

	s.Set(key, "data")
	s.Invalidate(key)

	gen := s.Begin(key)
	if got := s.Get(key); got.Stale {
		t.Error("begin must clear the stale mark")
	}
	if got := s.Get(key); got.Status != StatusSuccess {
		t.Errorf("begin over successful data must not flicker to loading, got %v", got.Status)
	}
	s.Commit(key, gen, "new")
	if got := s.Get(key); got.Data != "new" {
		t.Errorf("expected committed data, got %v", got.Data)
	}
}

func TestStore_InvalidateAll(t *testing.T) {
	s := NewStore()
	s.Set(ProjectsKey(), 1)
	s.Set(TasksKey("p"), 2)
	s.Set(ProfileKey(), 3)

	s.InvalidateAll()

	for _, key := range []Key{ProjectsKey(), TasksKey("p"), ProfileKey()} {
		if got := s.Get(key); !got.Stale {
			t.Errorf("key %v not stale after InvalidateAll", key)
		}
	}
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore()
	key := ProjectsKey()

	var seen []Key
	unsub := s.Subscribe(func(k Key) { seen = append(seen, k) })

	s.Set(key, "x")
	if len(seen) != 1 || seen[0] != key {
		t.Fatalf("expected one notification for %v, got %v", key, seen)
	}

	unsub()
	s.Set(key, "y")
	if len(seen) != 1 {
		t.Errorf("unsubscribed listener was notified: %v", seen)
	}
}

func TestStore_SubscriberMayReenterStore(t *testing.T) {
	s := NewStore()
	key := ProjectsKey()

	var got Entry
	unsub := s.Subscribe(func(k Key) { got = s.Get(k) })
	defer unsub()

	s.Set(key, "x")
	if got.Data != "x" {
		t.Errorf("subscriber must observe the applied update, got %v", got.Data)
	}
}
