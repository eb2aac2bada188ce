package stats

import "math"

// SprintVelocity is the logged effort of one closed sprint, in hours.
type SprintVelocity struct {
	Sprint string
	Hours  float64
}

// StabilityResult is the dispersion-based consistency measure over a
// series of sprint velocities: 1 - (stddev / mean), as a percentage.
type StabilityResult struct {
	StabilityPct float64
	MeanHours    float64
	Sprints      []SprintVelocity
}

// Stability computes the velocity stability ratio. A zero mean (no logged
// effort at all) yields a defined zero instead of a division error.
func Stability(velocities []SprintVelocity) StabilityResult {
	if len(velocities) == 0 {
		return StabilityResult{}
	}
	var sum float64
	for _, v := range velocities {
		sum += v.Hours
	}
	mean := sum / float64(len(velocities))

	var sq float64
	for _, v := range velocities {
		d := v.Hours - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(velocities)))

	stability := 0.0
	if mean > 0 {
		stability = (1 - stddev/mean) * 100
	}
	return StabilityResult{
		StabilityPct: stability,
		MeanHours:    mean,
		Sprints:      velocities,
	}
}
