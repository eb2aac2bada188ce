package stats

import (
	"math"
	"testing"
	"time"
)

func TestBuildEfficiencies(t *testing.T) {
	end := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)
	efforts := []SprintEffort{
		{Name: "Sprint 1", End: end, ProductiveSeconds: 3600 * 8, EstimatedSeconds: 3600 * 10},
		{Name: "Sprint 2", End: end.AddDate(0, 0, 14), ProductiveSeconds: 3600 * 6, EstimatedSeconds: 3600 * 10},
	}
	got := BuildEfficiencies(efforts)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if math.Abs(got[0].Percent-80) > 1e-9 {
		t.Errorf("sprint 1 Percent=%v, want 80", got[0].Percent)
	}
	if math.Abs(got[1].Percent-60) > 1e-9 {
		t.Errorf("sprint 2 Percent=%v, want 60", got[1].Percent)
	}
	// cumulative: 14h productive over 20h estimated
	if math.Abs(got[1].CumulativePct-70) > 1e-9 {
		t.Errorf("CumulativePct=%v, want 70", got[1].CumulativePct)
	}
	if got[0].ProductiveHours != 8 || got[0].EstimatedHours != 10 {
		t.Errorf("hours %v/%v, want 8/10", got[0].ProductiveHours, got[0].EstimatedHours)
	}
}

func TestBuildEfficienciesSkipsUnestimatedSprints(t *testing.T) {
	efforts := []SprintEffort{
		{Name: "Sprint 1", ProductiveSeconds: 3600},
		{Name: "Sprint 2", ProductiveSeconds: 3600, EstimatedSeconds: 3600},
	}
	got := BuildEfficiencies(efforts)
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Sprint != "Sprint 2" {
		t.Errorf("kept %q, want Sprint 2", got[0].Sprint)
	}
	// the skipped sprint must not leak into the cumulative either
	if math.Abs(got[0].CumulativePct-100) > 1e-9 {
		t.Errorf("CumulativePct=%v, want 100", got[0].CumulativePct)
	}
}

func TestBuildEfficienciesEmpty(t *testing.T) {
	if got := BuildEfficiencies(nil); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}
