package holomem

import "math"

// CrosstalkResult measures reconstruction fidelity at one prime-set size.
type CrosstalkResult struct {
	PrimeCount int
	GridSize   int

	// MaxRelativeError is the worst per-prime relative magnitude error of
	// a fully excited state after a project/reconstruct round trip.
	MaxRelativeError  float64
	MeanRelativeError float64
}

// CrosstalkConfig controls a crosstalk survey.
type CrosstalkConfig struct {
	GridSize        int
	WavelengthScale float64

	// PrimeCounts are the prime-set sizes to measure, each a prefix of
	// DefaultPrimes.
	PrimeCounts []int
}

// DefaultCrosstalkConfig returns a survey over growing prime sets at the
// default grid.
func DefaultCrosstalkConfig() CrosstalkConfig {
	return CrosstalkConfig{
		GridSize:        DefaultGridSize,
		WavelengthScale: DefaultWavelengthScale,
		PrimeCounts:     []int{1, 2, 4, 8, 16, 25},
	}
}

// SurveyCrosstalk quantifies the carrier basis's reconstruction error as
// the prime set grows. Reconstruct is an approximate decoder — energy
// bleeds between numerically close wavevectors — and this survey makes that
// documented limitation measurable instead of hiding it: run it when
// choosing a grid size or prime set for a deployment.
//
// Every prime in each set is excited at unit amplitude (the worst case for
// mutual interference) and the per-prime relative magnitude error of the
// round trip is collected.
func SurveyCrosstalk(cfg CrosstalkConfig) []CrosstalkResult {
	if cfg.GridSize <= 0 {
		cfg.GridSize = DefaultGridSize
	}
	if cfg.WavelengthScale <= 0 {
		cfg.WavelengthScale = DefaultWavelengthScale
	}
	if len(cfg.PrimeCounts) == 0 {
		cfg.PrimeCounts = DefaultCrosstalkConfig().PrimeCounts
	}

	all := DefaultPrimes()
	results := make([]CrosstalkResult, 0, len(cfg.PrimeCounts))

	for _, count := range cfg.PrimeCounts {
		if count <= 0 {
			continue
		}
		if count > len(all) {
			count = len(all)
		}
		primes := all[:count]

		enc := NewEncoder(&Config{
			GridSize:        cfg.GridSize,
			Primes:          primes,
			WavelengthScale: cfg.WavelengthScale,
		})

		state := make(State, count)
		for _, p := range primes {
			state[p] = Real(1)
		}
		enc.Project(state, true)
		recovered := enc.Reconstruct()

		maxErr, sumErr := 0.0, 0.0
		for _, p := range primes {
			relErr := math.Abs(recovered[p].Norm() - 1)
			sumErr += relErr
			if relErr > maxErr {
				maxErr = relErr
			}
		}

		results = append(results, CrosstalkResult{
			PrimeCount:        count,
			GridSize:          cfg.GridSize,
			MaxRelativeError:  maxErr,
			MeanRelativeError: sumErr / float64(count),
		})
	}
	return results
}
