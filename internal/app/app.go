package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/notipswe/teamreport/internal/config"
	"github.com/notipswe/teamreport/internal/evm"
	"github.com/notipswe/teamreport/internal/github"
	"github.com/notipswe/teamreport/internal/jira"
	"github.com/notipswe/teamreport/internal/stats"
)

// App wires configuration, logging and the API clients together. Each
// subcommand builds one App, runs its pipeline and exits; there is no
// long-lived state.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Jira   *jira.Client
	GitHub *github.Client
}

func New(cfg *config.Config, log zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Log:    log,
		Jira:   jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.Token, cfg.HTTPTimeout, log),
		GitHub: github.NewClient(cfg.GitHub.Token, cfg.HTTPTimeout, log),
	}
}

// ProjectSprints collects the project's sprints across all of its boards,
// deduplicated by ID and ordered by start date. Boards whose sprint
// listing fails are skipped, matching the best-effort sweep the reports
// have always done.
func (a *App) ProjectSprints(ctx context.Context) ([]evm.Sprint, error) {
	boards, err := a.Jira.Boards(ctx, a.Config.Jira.ProjectKey)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	var all []evm.Sprint
	for _, board := range boards {
		sprints, err := a.Jira.Sprints(ctx, board.ID)
		if err != nil {
			a.Log.Warn().Err(err).Str("board", board.Name).Msg("skipping board")
			continue
		}
		for _, s := range sprints {
			all = append(all, evm.Sprint{
				ID:    s.ID,
				Name:  s.Name,
				State: s.State,
				Start: s.StartDate,
				End:   s.EndDate,
			})
		}
	}
	return evm.OrderSprints(all), nil
}

// FetchWorkItems fetches the issues of the given sprints with the fields
// the cost calculation needs, already normalized at the boundary.
func (a *App) FetchWorkItems(ctx context.Context, sprintIDs []int64) ([]evm.WorkItem, error) {
	if len(sprintIDs) == 0 {
		return nil, nil
	}
	roleField := a.Config.Jira.RoleField
	fields := []string{"key", "issuetype", "status", "timeoriginalestimate", "timespent", roleField}
	issues, err := a.Jira.SearchIssues(ctx, sprintJQL(sprintIDs), fields, roleField)
	if err != nil {
		return nil, fmt.Errorf("searching issues: %w", err)
	}
	items := make([]evm.WorkItem, 0, len(issues))
	for _, is := range issues {
		items = append(items, evm.WorkItem{
			Key:             is.Key,
			Type:            is.Type,
			Done:            is.Done(),
			Role:            is.Role,
			EstimateSeconds: is.EstimateSeconds,
			SpentSeconds:    is.SpentSeconds,
		})
	}
	return items, nil
}

// SprintDoneSpentSeconds sums logged time over the completed issues of
// one sprint, the velocity input.
func (a *App) SprintDoneSpentSeconds(ctx context.Context, sprintID int64) (int64, error) {
	jql := fmt.Sprintf(`sprint = %d AND statusCategory = "done"`, sprintID)
	issues, err := a.Jira.SearchIssues(ctx, jql, []string{"timespent"}, "")
	if err != nil {
		return 0, err
	}
	var total int64
	for _, is := range issues {
		total += is.SpentSeconds
	}
	return total, nil
}

// SprintEffort collects the efficiency inputs of one sprint: estimated
// seconds across every issue, logged seconds across the completed ones.
func (a *App) SprintEffort(ctx context.Context, sprint evm.Sprint) (stats.SprintEffort, error) {
	jql := fmt.Sprintf("sprint = %d", sprint.ID)
	issues, err := a.Jira.SearchIssues(ctx, jql, []string{"timespent", "timeoriginalestimate", "status"}, "")
	if err != nil {
		return stats.SprintEffort{}, err
	}
	effort := stats.SprintEffort{Name: sprint.Name, End: sprint.End}
	for _, is := range issues {
		effort.EstimatedSeconds += is.EstimateSeconds
		if is.Done() {
			effort.ProductiveSeconds += is.SpentSeconds
		}
	}
	return effort, nil
}

// RateTable builds the billing table from configuration.
func (a *App) RateTable() evm.RateTable {
	return evm.RateTable{
		Rates:       a.Config.Budget.Rates,
		DefaultRate: a.Config.Budget.DefaultRate,
	}
}

func sprintJQL(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "sprint in (" + strings.Join(parts, ", ") + ")"
}
