package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100
)

// Client is a paginating GitHub REST client. A token-bucket limiter paces
// requests well under the authenticated API budget of 5000/hour, so a
// full-organization sweep never trips secondary rate limits.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewClient(token string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(1), 5),
		log:     log.With().Str("component", "github").Logger(),
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u = u + "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var errNotFound = fmt.Errorf("github: not found")

// OrgRepos lists every repository of the organization.
func (c *Client) OrgRepos(ctx context.Context, org string) ([]Repo, error) {
	var out []Repo
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("type", "all")
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))
		var repos []Repo
		if err := c.getJSON(ctx, "/orgs/"+url.PathEscape(org)+"/repos", q, &repos); err != nil {
			return nil, err
		}
		if len(repos) == 0 {
			return out, nil
		}
		out = append(out, repos...)
	}
}

// WorkflowRuns lists the completed workflow runs of one repository. A 404
// (no actions, or repo not accessible) and transient mid-pagination
// failures both end the listing with whatever was collected so far.
func (c *Client) WorkflowRuns(ctx context.Context, org, repo string) ([]WorkflowRun, error) {
	var out []WorkflowRun
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("status", "completed")
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))
		var p workflowRunsPage
		err := c.getJSON(ctx, "/repos/"+url.PathEscape(org)+"/"+url.PathEscape(repo)+"/actions/runs", q, &p)
		if err == errNotFound {
			return nil, nil
		}
		if err != nil {
			c.log.Warn().Err(err).Str("repo", repo).Msg("workflow run listing truncated")
			return out, nil
		}
		if len(p.WorkflowRuns) == 0 {
			return out, nil
		}
		out = append(out, p.WorkflowRuns...)
	}
}

// CommitsSince lists commits on the default branch since a given time.
func (c *Client) CommitsSince(ctx context.Context, org, repo string, since time.Time) ([]Commit, error) {
	var out []Commit
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("since", since.UTC().Format(time.RFC3339))
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))
		var commits []Commit
		err := c.getJSON(ctx, "/repos/"+url.PathEscape(org)+"/"+url.PathEscape(repo)+"/commits", q, &commits)
		if err == errNotFound {
			return nil, nil
		}
		if err != nil {
			// Empty repositories answer 409 on the commits endpoint.
			if strings.Contains(err.Error(), "status=409") {
				return nil, nil
			}
			c.log.Warn().Err(err).Str("repo", repo).Msg("commit listing truncated")
			return out, nil
		}
		if len(commits) == 0 {
			return out, nil
		}
		out = append(out, commits...)
	}
}

// ClosedPRs lists the most recently updated closed pull requests, newest
// first. One page is enough for lookback-window metrics.
func (c *Client) ClosedPRs(ctx context.Context, org, repo string) ([]PullRequest, error) {
	q := url.Values{}
	q.Set("state", "closed")
	q.Set("sort", "updated")
	q.Set("direction", "desc")
	q.Set("per_page", strconv.Itoa(perPage))
	var prs []PullRequest
	err := c.getJSON(ctx, "/repos/"+url.PathEscape(org)+"/"+url.PathEscape(repo)+"/pulls", q, &prs)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		c.log.Warn().Err(err).Str("repo", repo).Msg("pull request listing failed")
		return nil, nil
	}
	return prs, nil
}
