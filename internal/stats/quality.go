package stats

import (
	"regexp"
	"time"
)

// GateResult is the quality-gate pass rate of one repository.
type GateResult struct {
	Total  int
	Passed int
	Rate   float64
}

// QualityGate computes the share of successful runs among completed
// workflow run conclusions. No runs yields the zero result, not an error.
func QualityGate(conclusions []string) GateResult {
	r := GateResult{Total: len(conclusions)}
	if r.Total == 0 {
		return r
	}
	for _, c := range conclusions {
		if c == "success" {
			r.Passed++
		}
	}
	r.Rate = float64(r.Passed) / float64(r.Total) * 100
	return r
}

// conventionalCommit matches <type>[optional scope][optional !]: <description>.
var conventionalCommit = regexp.MustCompile(
	`^(?i)(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)(\(.+\))?!?: .+`)

// IsConventional reports whether a commit subject line follows the
// Conventional Commits format. Only the first line of the message counts.
func IsConventional(message string) bool {
	for i := 0; i < len(message); i++ {
		if message[i] == '\n' {
			message = message[:i]
			break
		}
	}
	return conventionalCommit.MatchString(message)
}

// CommitQuality is the adherence share over a set of commit messages.
type CommitQuality struct {
	Total        int
	Conventional int
	Percent      float64
}

func MessageQuality(messages []string) CommitQuality {
	q := CommitQuality{Total: len(messages)}
	if q.Total == 0 {
		return q
	}
	for _, m := range messages {
		if IsConventional(m) {
			q.Conventional++
		}
	}
	q.Percent = float64(q.Conventional) / float64(q.Total) * 100
	return q
}

// MeanResolutionHours averages created-to-merged durations. An empty set
// yields zero so a quiet period still records a row.
func MeanResolutionHours(durations []time.Duration) float64 {
	if len(durations) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range durations {
		sum += d
	}
	return sum.Hours() / float64(len(durations))
}
