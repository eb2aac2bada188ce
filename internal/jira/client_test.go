package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "bot@example.com", "token", 5*time.Second, zerolog.Nop())
}

func TestSearchIssuesFollowsPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/search", func(w http.ResponseWriter, r *http.Request) {
		if user, _, ok := r.BasicAuth(); !ok || user != "bot@example.com" {
			t.Errorf("missing basic auth, got user %q", user)
		}
		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		fmt.Fprintf(w, `{"startAt": %d, "total": 3, "issues": [%s]}`,
			startAt, issuesPage(startAt))
	})
	c := testClient(t, mux)

	issues, err := c.SearchIssues(context.Background(), `project = NT`, []string{"status"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3", len(issues))
	}
	if issues[2].Key != "NT-3" {
		t.Errorf("last key %q, want NT-3", issues[2].Key)
	}
}

func issuesPage(startAt int) string {
	switch startAt {
	case 0:
		return `{"key": "NT-1", "fields": {}}, {"key": "NT-2", "fields": {}}`
	case 2:
		return `{"key": "NT-3", "fields": {}}`
	default:
		return ``
	}
}

func TestSearchIssuesRejectsEmptyJQL(t *testing.T) {
	c := NewClient("http://jira.invalid", "", "token", time.Second, zerolog.Nop())
	if _, err := c.SearchIssues(context.Background(), "", nil, ""); err == nil {
		t.Fatal("expected an error for empty jql")
	}
}

func TestSprintsTreats400AsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/agile/1.0/board/7/sprint", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages": ["The board does not support sprints"]}`, http.StatusBadRequest)
	})
	c := testClient(t, mux)

	sprints, err := c.Sprints(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sprints != nil {
		t.Errorf("got %+v, want nil", sprints)
	}
}

func TestSprintsParsesDates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/agile/1.0/board/1/sprint", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"isLast": true, "values": [
			{"id": 10, "name": "Sprint 1", "state": "closed",
			 "startDate": "2026-03-02T09:00:00.000Z", "endDate": "2026-03-16T17:00:00.000Z"},
			{"id": 11, "name": "Sprint 2", "state": "future"}
		]}`)
	})
	c := testClient(t, mux)

	sprints, err := c.Sprints(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sprints) != 2 {
		t.Fatalf("got %d sprints, want 2", len(sprints))
	}
	if sprints[0].StartDate.IsZero() || sprints[0].EndDate.IsZero() {
		t.Errorf("sprint 1 dates not parsed: %+v", sprints[0])
	}
	if !sprints[1].StartDate.IsZero() {
		t.Errorf("future sprint should have a zero start, got %v", sprints[1].StartDate)
	}
}

func TestBoardsFallsBackToAllBoards(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/agile/1.0/board", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("projectKeyOrId") == "NT" {
			fmt.Fprint(w, `{"isLast": true, "values": []}`)
			return
		}
		fmt.Fprint(w, `{"isLast": true, "values": [{"id": 1, "name": "Main board", "type": "scrum"}]}`)
	})
	c := testClient(t, mux)

	boards, err := c.Boards(context.Background(), "NT")
	if err != nil {
		t.Fatal(err)
	}
	if len(boards) != 1 || boards[0].Name != "Main board" {
		t.Errorf("got %+v, want the unfiltered board list", boards)
	}
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/agile/1.0/board", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"isLast": true, "values": [{"id": 1, "name": "Board", "type": "scrum"}]}`)
	})
	c := testClient(t, mux)

	boards, err := c.Boards(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("got %d calls, want 3", calls)
	}
	if len(boards) != 1 {
		t.Errorf("got %d boards, want 1", len(boards))
	}
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/search", func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad jql", http.StatusBadRequest)
	})
	c := testClient(t, mux)

	if _, err := c.SearchIssues(context.Background(), "nonsense", nil, ""); err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}
