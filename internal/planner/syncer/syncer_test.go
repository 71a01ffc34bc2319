package syncer

import (
	"context"
	"errors"
	"testing"
)

func TestRefreshLoadsSnapshot(t *testing.T) {
	rows := []string{"a", "b"}
	s := New(func(context.Context) ([]string, error) { return rows, nil })

	if _, loaded := s.Current(); loaded {
		t.Fatal("nothing should be loaded before the first refresh")
	}
	got, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if _, loaded := s.Current(); !loaded {
		t.Fatal("snapshot should be marked loaded")
	}
}

func TestMutateRefetchesWholesale(t *testing.T) {
	rows := []string{"a"}
	fetches := 0
	s := New(func(context.Context) ([]string, error) {
		fetches++
		out := make([]string, len(rows))
		copy(out, rows)
		return out, nil
	})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got, err := s.Mutate(context.Background(), func(context.Context) error {
		// The store is the authority: the write changes more than the
		// client asked for, and the refetch must pick that up.
		rows = []string{"a", "b", "server-added"}
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if len(got) != 3 || got[2] != "server-added" {
		t.Fatalf("snapshot not refetched: %v", got)
	}
	if fetches != 2 {
		t.Fatalf("fetches = %d, want 2", fetches)
	}
}

func TestFailedMutateLeavesSnapshotUntouched(t *testing.T) {
	rows := []string{"a", "b"}
	fetches := 0
	s := New(func(context.Context) ([]string, error) {
		fetches++
		return rows, nil
	})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	boom := errors.New("row level security violation")
	got, err := s.Mutate(context.Background(), func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("snapshot changed on failed write: %v", got)
	}
	if fetches != 1 {
		t.Fatalf("failed write must not trigger a refetch, fetches = %d", fetches)
	}
}

func TestMutateRefetchFailureKeepsPrior(t *testing.T) {
	failFetch := false
	s := New(func(context.Context) ([]string, error) {
		if failFetch {
			return nil, errors.New("connection reset")
		}
		return []string{"a"}, nil
	})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	failFetch = true
	got, err := s.Mutate(context.Background(), func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("refetch failure should surface")
	}
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("prior snapshot should be kept, got %v", got)
	}

	failFetch = false
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("healing Refresh: %v", err)
	}
}

func TestPatchAppliesLocally(t *testing.T) {
	fetches := 0
	s := New(func(context.Context) (map[string]int, error) {
		fetches++
		return map[string]int{"progress": 10}, nil
	})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got := s.Patch(func(m map[string]int) map[string]int {
		m["progress"] = 40
		return m
	})
	if got["progress"] != 40 {
		t.Fatalf("patch not applied: %v", got)
	}
	if fetches != 1 {
		t.Fatalf("patch must not fetch, fetches = %d", fetches)
	}
}
