package evm

import (
	"errors"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestOrderSprintsDeduplicatesAndSorts(t *testing.T) {
	sprints := []Sprint{
		{ID: 3, Name: "Sprint 3", Start: day(20)},
		{ID: 1, Name: "Sprint 1", Start: day(1)},
		{ID: 3, Name: "Sprint 3", Start: day(20)}, // same sprint via a second board
		{ID: 4, Name: "Backlog"},                  // no start date
		{ID: 2, Name: "Sprint 2", Start: day(10)},
	}
	got := OrderSprints(sprints)
	wantNames := []string{"Sprint 1", "Sprint 2", "Sprint 3", "Backlog"}
	if len(got) != len(wantNames) {
		t.Fatalf("got %d sprints, want %d", len(got), len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestSprintsThrough(t *testing.T) {
	sprints := []Sprint{
		{ID: 1, Name: "Sprint 1"},
		{ID: 2, Name: " Sprint 2 "},
		{ID: 3, Name: "Sprint 3"},
	}

	got, err := SprintsThrough(sprints, "Sprint 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].ID != 2 {
		t.Errorf("got %+v, want the first two sprints", got)
	}

	if _, err := SprintsThrough(sprints, "Sprint 9"); !errors.Is(err, ErrSprintNotFound) {
		t.Errorf("got %v, want ErrSprintNotFound", err)
	}
}

func TestElapsedDaysSince(t *testing.T) {
	start := day(1)
	if got := ElapsedDaysSince(start, day(15)); got != 14 {
		t.Errorf("got %d days, want 14", got)
	}
	if got := ElapsedDaysSince(start, start); got != 0 {
		t.Errorf("got %d days, want 0", got)
	}
}
