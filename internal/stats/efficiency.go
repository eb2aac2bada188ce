package stats

import "time"

// SprintEffort is the raw per-sprint input: seconds spent on completed
// issues versus seconds originally estimated across the whole sprint.
type SprintEffort struct {
	Name              string
	End               time.Time
	ProductiveSeconds int64
	EstimatedSeconds  int64
}

// Efficiency is one output row: per-sprint efficiency plus the running
// cumulative over everything processed so far.
type Efficiency struct {
	Sprint          string
	End             time.Time
	ProductiveHours float64
	EstimatedHours  float64
	Percent         float64
	CumulativePct   float64
}

// BuildEfficiencies converts sprint efforts to efficiency rows in input
// order. Sprints with no estimate are skipped, they carry no signal and
// would divide by zero.
func BuildEfficiencies(efforts []SprintEffort) []Efficiency {
	var out []Efficiency
	var runningProd, runningTotal float64
	for _, e := range efforts {
		if e.EstimatedSeconds == 0 {
			continue
		}
		prod := float64(e.ProductiveSeconds) / 3600.0
		total := float64(e.EstimatedSeconds) / 3600.0
		runningProd += prod
		runningTotal += total

		cumulative := 0.0
		if runningTotal > 0 {
			cumulative = runningProd / runningTotal * 100
		}
		out = append(out, Efficiency{
			Sprint:          e.Name,
			End:             e.End,
			ProductiveHours: prod,
			EstimatedHours:  total,
			Percent:         prod / total * 100,
			CumulativePct:   cumulative,
		})
	}
	return out
}
