package holomem

import (
	"math"
	"time"
)

// Stabilization interpretation buckets. Thresholds are absolute damping
// rates, independent of the configured λ0.
const (
	InterpretHigh   = "high_stabilization" // λ > 0.3
	InterpretNormal = "normal"             // 0.1 ≤ λ ≤ 0.3
	InterpretLow    = "low_stabilization"  // λ < 0.1
)

// Trend labels returned by Stabilizer.Trend.
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendSteady  = "steady"
)

// StabilizerConfig holds the adaptive damping law parameters.
type StabilizerConfig struct {
	// Lambda0 is the base damping rate the sigmoid scales.
	Lambda0 float64 `yaml:"lambda0"`

	// Weighting coefficients for the three input metrics.
	WeightCoherence float64 `yaml:"weight_coherence"` // aC: coherence raises damping
	WeightEntropy   float64 `yaml:"weight_entropy"`   // aS: entropy lowers it
	WeightSMF       float64 `yaml:"weight_smf"`       // aSMF: frequency-map disorder lowers it

	// Steepness controls how sharply the sigmoid switches between the
	// low-damping and high-damping regimes.
	Steepness float64 `yaml:"steepness"`

	// Output bounds [LambdaMin, LambdaMax].
	LambdaMin float64 `yaml:"lambda_min"`
	LambdaMax float64 `yaml:"lambda_max"`

	// HistorySize bounds the computation history ring (drop-oldest).
	HistorySize int `yaml:"history_size"`
}

// DefaultStabilizerConfig returns the standard control-law parameters.
func DefaultStabilizerConfig() StabilizerConfig {
	return StabilizerConfig{
		Lambda0:         0.1,
		WeightCoherence: 1.0,
		WeightEntropy:   0.3,
		WeightSMF:       0.2,
		Steepness:       2.0,
		LambdaMin:       0.0,
		LambdaMax:       1.0,
		HistorySize:     64,
	}
}

// LambdaRecord is one stabilization computation kept in the bounded history.
type LambdaRecord struct {
	Lambda     float64
	Coherence  float64
	Entropy    float64
	SMFEntropy float64
	At         time.Time
}

// Stabilizer computes an adaptive damping rate λ from externally supplied
// coherence and entropy metrics. It is a closed-loop control law, not a
// clock: higher upstream coherence pulls the field toward a coherent
// attractor (more damping), while entropy and frequency-map disorder favor
// freer, less-damped evolution.
//
//	λ = λ0 · σ(steepness · (aC·coherence − aS·entropy − aSMF·smfEntropy))
//
// where σ is the logistic sigmoid, clamped to [λmin, λmax].
type Stabilizer struct {
	cfg     StabilizerConfig
	history *ring[LambdaRecord]
}

// NewStabilizer builds a controller, filling zero-valued config fields with
// defaults.
func NewStabilizer(cfg StabilizerConfig) *Stabilizer {
	def := DefaultStabilizerConfig()
	if cfg.Lambda0 == 0 {
		cfg.Lambda0 = def.Lambda0
	}
	if cfg.Steepness == 0 {
		cfg.Steepness = def.Steepness
	}
	if cfg.LambdaMax == 0 {
		cfg.LambdaMax = def.LambdaMax
	}
	if cfg.HistorySize == 0 {
		cfg.HistorySize = def.HistorySize
	}
	return &Stabilizer{
		cfg:     cfg,
		history: newRing[LambdaRecord](cfg.HistorySize),
	}
}

// ComputeLambda evaluates the damping law for one evolution step and appends
// the result to the bounded history. Coherence is expected in [0,1]; the
// entropy inputs are non-negative and unbounded.
func (s *Stabilizer) ComputeLambda(coherence, entropy, smfEntropy float64) float64 {
	drive := s.cfg.WeightCoherence*coherence -
		s.cfg.WeightEntropy*entropy -
		s.cfg.WeightSMF*smfEntropy

	lambda := s.cfg.Lambda0 * sigmoid(s.cfg.Steepness*drive)

	if lambda < s.cfg.LambdaMin {
		lambda = s.cfg.LambdaMin
	}
	if lambda > s.cfg.LambdaMax {
		lambda = s.cfg.LambdaMax
	}

	s.history.push(LambdaRecord{
		Lambda:     lambda,
		Coherence:  coherence,
		Entropy:    entropy,
		SMFEntropy: smfEntropy,
		At:         time.Now(),
	})
	return lambda
}

// Interpret buckets a damping rate into the three stabilization regimes.
func (s *Stabilizer) Interpret(lambda float64) string {
	switch {
	case lambda > 0.3:
		return InterpretHigh
	case lambda < 0.1:
		return InterpretLow
	default:
		return InterpretNormal
	}
}

// Trend compares the mean λ over the earlier vs later half of the last 10
// history entries. Fewer than 4 entries is always TrendSteady.
func (s *Stabilizer) Trend() string {
	recent := s.history.last(10)
	if len(recent) < 4 {
		return TrendSteady
	}
	half := len(recent) / 2
	earlier := meanLambda(recent[:half])
	later := meanLambda(recent[half:])

	// 5% relative band, with an absolute floor so a near-zero baseline
	// does not flag noise as a trend.
	band := 0.05 * earlier
	if band < 1e-6 {
		band = 1e-6
	}
	switch {
	case later > earlier+band:
		return TrendRising
	case later < earlier-band:
		return TrendFalling
	default:
		return TrendSteady
	}
}

// History returns up to n recent computations, oldest first.
func (s *Stabilizer) History(n int) []LambdaRecord {
	return s.history.last(n)
}

func meanLambda(records []LambdaRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range records {
		sum += r.Lambda
	}
	return sum / float64(len(records))
}

// sigmoid is the logistic function 1/(1+e^−x).
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
