package stats

import (
	"math"
	"testing"
	"time"
)

func TestQualityGate(t *testing.T) {
	got := QualityGate([]string{"success", "failure", "success", "cancelled"})
	if got.Total != 4 || got.Passed != 2 {
		t.Fatalf("got %d/%d, want 2/4", got.Passed, got.Total)
	}
	if got.Rate != 50 {
		t.Errorf("Rate=%v, want 50", got.Rate)
	}

	if got := QualityGate(nil); got.Total != 0 || got.Rate != 0 {
		t.Errorf("empty input: got %+v, want zero result", got)
	}
}

func TestIsConventional(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"feat: add sprint window resolver", true},
		{"fix(api): handle missing board", true},
		{"feat!: drop csv legacy layout", true},
		{"FEAT: uppercase type is fine", true},
		{"chore(deps): bump excelize", true},
		{"feat: subject only\n\nlong body that is not checked", true},
		{"update stuff", false},
		{"feat:missing space", false},
		{"feature: unknown type", false},
		{"fix: ", false},
		{"", false},
		{"merge branch 'main'", false},
	}
	for _, tt := range tests {
		if got := IsConventional(tt.message); got != tt.want {
			t.Errorf("IsConventional(%q)=%v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestMessageQuality(t *testing.T) {
	got := MessageQuality([]string{
		"feat: one",
		"fix: two",
		"wip",
	})
	if got.Total != 3 || got.Conventional != 2 {
		t.Fatalf("got %d/%d, want 2/3", got.Conventional, got.Total)
	}
	if math.Abs(got.Percent-200.0/3.0) > 1e-9 {
		t.Errorf("Percent=%v, want %v", got.Percent, 200.0/3.0)
	}

	if got := MessageQuality(nil); got.Percent != 0 {
		t.Errorf("empty input: Percent=%v, want 0", got.Percent)
	}
}

func TestMeanResolutionHours(t *testing.T) {
	durations := []time.Duration{2 * time.Hour, 4 * time.Hour}
	if got := MeanResolutionHours(durations); got != 3 {
		t.Errorf("got %v, want 3", got)
	}
	if got := MeanResolutionHours(nil); got != 0 {
		t.Errorf("empty input: got %v, want 0", got)
	}
}
