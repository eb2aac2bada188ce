package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const pageSize = 50

// Client is a thin Jira REST client covering the agile board/sprint
// endpoints and JQL search. Authentication is Basic (email + API token)
// when an email is configured, Bearer otherwise.
type Client struct {
	baseURL string
	email   string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL, email, token string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "jira").Logger(),
	}
}

func (c *Client) apiURL(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u = u + "?" + q.Encode()
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	if c.baseURL == "" {
		return errors.New("jira: empty baseURL")
	}
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.email != "" {
			req.SetBasicAuth(c.email, c.token)
		} else if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 300 {
			apiErr := fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
			// retry on 429/5xx only
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = apiErr
				continue
			}
			return apiErr
		}
		return json.Unmarshal(body, out)
	}
	return lastErr
}

// Boards lists scrum/kanban boards for the project key, falling back to
// all boards when the project filter matches nothing.
func (c *Client) Boards(ctx context.Context, projectKey string) ([]Board, error) {
	boards, err := c.listBoards(ctx, projectKey)
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 && projectKey != "" {
		return c.listBoards(ctx, "")
	}
	return boards, nil
}

func (c *Client) listBoards(ctx context.Context, projectKey string) ([]Board, error) {
	var out []Board
	startAt := 0
	for {
		q := url.Values{}
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", strconv.Itoa(pageSize))
		if projectKey != "" {
			q.Set("projectKeyOrId", projectKey)
		}
		var page boardPage
		if err := c.getJSON(ctx, c.apiURL("/rest/agile/1.0/board", q), &page); err != nil {
			return nil, err
		}
		out = append(out, page.Values...)
		if page.IsLast || len(page.Values) == 0 {
			return out, nil
		}
		startAt += len(page.Values)
	}
}

// Sprints lists the sprints of one board. Boards that do not support
// sprints (kanban) answer 400; that is treated as an empty list.
func (c *Client) Sprints(ctx context.Context, boardID int64) ([]Sprint, error) {
	var out []Sprint
	startAt := 0
	for {
		q := url.Values{}
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", strconv.Itoa(pageSize))
		path := "/rest/agile/1.0/board/" + strconv.FormatInt(boardID, 10) + "/sprint"
		var page sprintPage
		if err := c.getJSON(ctx, c.apiURL(path, q), &page); err != nil {
			if strings.Contains(err.Error(), "status=400") {
				c.log.Debug().Int64("board", boardID).Msg("board has no sprints")
				return nil, nil
			}
			return nil, err
		}
		for _, raw := range page.Values {
			out = append(out, raw.sprint())
		}
		if page.IsLast || len(page.Values) == 0 {
			return out, nil
		}
		startAt += len(page.Values)
	}
}

// SearchIssues runs a JQL query and returns every matching issue,
// following pagination to the end. roleField names the custom field the
// role assignment lives in; pass "" when the caller does not need roles.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string, roleField string) ([]Issue, error) {
	if jql == "" {
		return nil, errors.New("jira: empty jql")
	}
	var out []Issue
	startAt := 0
	for {
		q := url.Values{}
		q.Set("jql", jql)
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", strconv.Itoa(pageSize))
		if len(fields) > 0 {
			q.Set("fields", strings.Join(fields, ","))
		}
		var page searchPage
		if err := c.getJSON(ctx, c.apiURL("/rest/api/3/search", q), &page); err != nil {
			return nil, err
		}
		for _, raw := range page.Issues {
			issue, err := raw.normalize(roleField)
			if err != nil {
				return nil, fmt.Errorf("decoding issue %s: %w", raw.Key, err)
			}
			out = append(out, issue)
		}
		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			c.log.Debug().Int("total", len(out)).Str("jql", jql).Msg("search complete")
			return out, nil
		}
	}
}
