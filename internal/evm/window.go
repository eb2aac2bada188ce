package evm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	lo "github.com/samber/lo"
)

// ErrSprintNotFound reports a target sprint name that matches nothing.
var ErrSprintNotFound = errors.New("sprint not found")

// OrderSprints deduplicates sprints by ID (the same sprint can belong to
// several boards) and orders them by start date, undated sprints last.
func OrderSprints(sprints []Sprint) []Sprint {
	unique := lo.UniqBy(sprints, func(s Sprint) int64 { return s.ID })
	sort.SliceStable(unique, func(i, j int) bool {
		a, b := unique[i].Start, unique[j].Start
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.Before(b)
	})
	return unique
}

// SprintsThrough returns the prefix of the ordered sprint list from the
// earliest sprint up to and including the first whose trimmed name equals
// target.
func SprintsThrough(sprints []Sprint, target string) ([]Sprint, error) {
	want := strings.TrimSpace(target)
	for i, s := range sprints {
		if strings.TrimSpace(s.Name) == want {
			return sprints[:i+1], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSprintNotFound, target)
}

// ElapsedDaysSince counts calendar days between the project start and an
// explicit "as of" date. Scheduled runs pass today; historical trend
// exports pass each sprint's end date instead.
func ElapsedDaysSince(start, on time.Time) int {
	return int(on.Sub(start).Hours() / 24)
}
