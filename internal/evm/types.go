package evm

import "time"

// WorkItem is one raw work-item record as delivered by the tracker
// boundary: efforts in seconds (zero when absent), the role already
// normalized to a plain string, completion already resolved.
type WorkItem struct {
	Key             string
	Type            string
	Done            bool
	Role            string
	EstimateSeconds int64
	SpentSeconds    int64
}

// Sprint is one iteration, ordered by start date. The same sprint can be
// listed by several boards; dedupe by ID before windowing.
type Sprint struct {
	ID    int64
	Name  string
	State string
	Start time.Time
	End   time.Time
}

// CostRow is the per-item cost derivation. EV is either 0 or PV, never
// partial credit.
type CostRow struct {
	PV float64
	EV float64
	AC float64
}

// Metrics is one fully derived snapshot. Values are unrounded; rounding
// happens at presentation time so repeated aggregation does not compound
// rounding error.
type Metrics struct {
	PV       float64
	EV       float64
	AC       float64
	CPI      float64
	SPI      float64
	EAC      float64
	ETC      float64
	TEAC     float64
	BurnRate float64
}

// RateTable maps role names to hourly rates, with a fallback for roles
// outside the table.
type RateTable struct {
	Rates       map[string]float64
	DefaultRate float64
}

func (t RateTable) Rate(role string) float64 {
	if r, ok := t.Rates[role]; ok {
		return r
	}
	return t.DefaultRate
}

// SubtaskTypes is the default set of issue types that carry cost; other
// types never produce a CostRow.
var SubtaskTypes = []string{"Execution Subtask", "Verification Subtask"}
