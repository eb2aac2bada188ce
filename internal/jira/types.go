package jira

import (
	"encoding/json"
	"strings"
	"time"
)

type Board struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Sprint carries parsed dates; missing dates stay zero. May appear on
// several boards, callers deduplicate by ID.
type Sprint struct {
	ID        int64
	Name      string
	State     string
	StartDate time.Time
	EndDate   time.Time
}

// Issue is the normalized work item record. Absent estimates and logged
// time are zero seconds, the role is a plain string ("" when unmapped).
type Issue struct {
	Key             string
	Type            string
	StatusName      string
	StatusCategory  string
	EstimateSeconds int64
	SpentSeconds    int64
	Role            string
}

// Done resolves completion with a two-tier policy: the structured status
// category when present, else a case-insensitive status-name match. The
// fallback absorbs schema variation across Jira instances.
func (i Issue) Done() bool {
	if i.StatusCategory != "" {
		return i.StatusCategory == "done"
	}
	switch strings.ToLower(i.StatusName) {
	case "done", "completed", "closed":
		return true
	}
	return false
}

type boardPage struct {
	IsLast bool    `json:"isLast"`
	Values []Board `json:"values"`
}

type sprintPage struct {
	IsLast bool        `json:"isLast"`
	Values []rawSprint `json:"values"`
}

type rawSprint struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (r rawSprint) sprint() Sprint {
	return Sprint{
		ID:        r.ID,
		Name:      r.Name,
		State:     r.State,
		StartDate: parseJiraTime(r.StartDate),
		EndDate:   parseJiraTime(r.EndDate),
	}
}

// parseJiraTime accepts the RFC3339-with-millis timestamps the agile API
// emits, returning the zero time for anything unparseable.
func parseJiraTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02T15:04:05.000Z07:00", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type searchPage struct {
	StartAt    int        `json:"startAt"`
	MaxResults int        `json:"maxResults"`
	Total      int        `json:"total"`
	Issues     []rawIssue `json:"issues"`
}

type rawIssue struct {
	Key    string          `json:"key"`
	Fields json.RawMessage `json:"fields"`
}
