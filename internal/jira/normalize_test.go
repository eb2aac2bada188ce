package jira

import (
	"encoding/json"
	"testing"
)

func TestNormalizeReadsRoleAsOptionObject(t *testing.T) {
	raw := rawIssue{
		Key: "NT-12",
		Fields: json.RawMessage(`{
			"issuetype": {"name": "Execution Subtask"},
			"status": {"name": "In Progress", "statusCategory": {"key": "indeterminate"}},
			"timeoriginalestimate": 7200,
			"timespent": 3600,
			"customfield_10041": {"value": "Programmatore"}
		}`),
	}
	got, err := raw.normalize("customfield_10041")
	if err != nil {
		t.Fatal(err)
	}
	want := Issue{
		Key:             "NT-12",
		Type:            "Execution Subtask",
		StatusName:      "In Progress",
		StatusCategory:  "indeterminate",
		EstimateSeconds: 7200,
		SpentSeconds:    3600,
		Role:            "Programmatore",
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestNormalizeReadsRoleAsBareString(t *testing.T) {
	raw := rawIssue{
		Key:    "NT-13",
		Fields: json.RawMessage(`{"customfield_10041": "Analista"}`),
	}
	got, err := raw.normalize("customfield_10041")
	if err != nil {
		t.Fatal(err)
	}
	if got.Role != "Analista" {
		t.Errorf("Role=%q, want Analista", got.Role)
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	got, err := rawIssue{Key: "NT-14"}.normalize("customfield_10041")
	if err != nil {
		t.Fatal(err)
	}
	if got.EstimateSeconds != 0 || got.SpentSeconds != 0 || got.Role != "" {
		t.Errorf("got %+v, want zero efforts and empty role", got)
	}
}

func TestIssueDone(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  bool
	}{
		{"category done", Issue{StatusCategory: "done", StatusName: "Whatever"}, true},
		{"category not done wins over name", Issue{StatusCategory: "indeterminate", StatusName: "Done"}, false},
		{"name fallback done", Issue{StatusName: "Done"}, true},
		{"name fallback completed", Issue{StatusName: "COMPLETED"}, true},
		{"name fallback closed", Issue{StatusName: "closed"}, true},
		{"name fallback open", Issue{StatusName: "In Review"}, false},
		{"empty", Issue{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.issue.Done(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseJiraTime(t *testing.T) {
	if got := parseJiraTime("2026-03-02T09:00:00.000Z"); got.IsZero() {
		t.Error("millisecond layout did not parse")
	}
	if got := parseJiraTime("2026-03-02T09:00:00Z"); got.IsZero() {
		t.Error("RFC3339 layout did not parse")
	}
	if got := parseJiraTime("not a date"); !got.IsZero() {
		t.Errorf("got %v, want zero time", got)
	}
	if got := parseJiraTime(""); !got.IsZero() {
		t.Errorf("got %v, want zero time", got)
	}
}
