package holomem

import "math"

// TrajectoryPoint is one accepted evolution step's measurements.
type TrajectoryPoint struct {
	Lambda       float64
	TotalEnergy  float64
	FieldEntropy float64
}

// TrajectoryAnalysis summarizes the dynamics of a recorded evolution run.
type TrajectoryAnalysis struct {
	Points int

	// Period is the detected oscillation period of the energy series
	// (1 = settled, 2/4/8… = period-doubled, −1 = aperiodic or too short).
	Period int

	// Amplitude is max−min of the analyzed energy tail.
	Amplitude float64

	// Converged is true when the tail amplitude fell below the tolerance:
	// the field reached its attractor.
	Converged   bool
	FinalEnergy float64
}

// Trajectory records the measurements of accepted Evolve steps so the
// field's approach to its attractor can be analyzed offline. Gated results
// are skipped — they measure nothing new by contract.
type Trajectory struct {
	points []TrajectoryPoint
}

// Record appends an accepted evolve result. Gated results are ignored.
func (t *Trajectory) Record(res EvolveResult) {
	if res.Gated {
		return
	}
	t.points = append(t.points, TrajectoryPoint{
		Lambda:       res.Lambda,
		TotalEnergy:  res.TotalEnergy,
		FieldEntropy: res.FieldEntropy,
	})
}

// Len returns the number of recorded points.
func (t *Trajectory) Len() int { return len(t.points) }

// Points returns the recorded series.
func (t *Trajectory) Points() []TrajectoryPoint { return t.points }

// maxDetectPeriod bounds the period-doubling search: beyond this the series
// is treated as aperiodic.
const maxDetectPeriod = 64

// Analyze inspects the tail half of the energy series: detects its
// oscillation period (testing 1, 2, 4, … doublings), measures its
// amplitude, and reports convergence against the tolerance.
func (t *Trajectory) Analyze(tolerance float64) TrajectoryAnalysis {
	a := TrajectoryAnalysis{Points: len(t.points), Period: -1}
	if len(t.points) == 0 {
		return a
	}
	a.FinalEnergy = t.points[len(t.points)-1].TotalEnergy

	// Skip the transient: analyze the second half only.
	tail := make([]float64, 0, len(t.points)/2+1)
	for _, p := range t.points[len(t.points)/2:] {
		tail = append(tail, p.TotalEnergy)
	}

	lo, hi := tail[0], tail[0]
	for _, v := range tail {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	a.Amplitude = hi - lo
	a.Converged = a.Amplitude <= tolerance
	a.Period = detectPeriod(tail, tolerance)
	return a
}

// detectPeriod finds the smallest power-of-two period at which the series
// repeats within the tolerance, or −1.
func detectPeriod(series []float64, tolerance float64) int {
	for period := 1; period <= maxDetectPeriod; period *= 2 {
		if len(series) < 2*period {
			return -1
		}
		periodic := true
		for i := period; i < len(series); i++ {
			if math.Abs(series[i]-series[i-period]) > tolerance {
				periodic = false
				break
			}
		}
		if periodic {
			return period
		}
	}
	return -1
}
