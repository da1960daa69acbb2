package holomem

import "time"

// GateMode selects the tick gate's admission policy.
type GateMode string

const (
	// GateStrict passes only when a tick was registered since the last pass.
	GateStrict GateMode = "strict"
	// GateAdaptive (default) passes on pending ticks, on sufficient
	// coherence after MinInterval, or on the timeout fallback.
	GateAdaptive GateMode = "adaptive"
	// GateFree passes every call.
	GateFree GateMode = "free"
)

// Decision reasons reported by ShouldProcess.
const (
	ReasonFreeMode         = "free_mode"
	ReasonPendingTick      = "pending_tick"
	ReasonCoherenceTrigger = "coherence_trigger"
	ReasonTimeoutFallback  = "timeout_fallback"
	ReasonNoPendingTick    = "no_pending_tick"
	ReasonAwaitingTick     = "awaiting_tick"
)

// GateConfig holds the tick gate parameters.
type GateConfig struct {
	Mode GateMode `yaml:"mode"`

	// CoherenceThreshold is the coherence level that auto-registers a tick
	// in adaptive mode.
	CoherenceThreshold float64 `yaml:"coherence_threshold"`

	// MinInterval is the minimum spacing between coherence-triggered ticks.
	MinInterval time.Duration `yaml:"min_interval"`

	// TimeoutFactor × MinInterval is the adaptive-mode liveness fallback:
	// after that long without a tick, the next call passes regardless.
	TimeoutFactor float64 `yaml:"timeout_factor"`

	// HistorySize bounds the tick-timestamp ring used for rate estimation.
	HistorySize int `yaml:"history_size"`
}

// DefaultGateConfig returns the standard gate parameters.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		Mode:               GateAdaptive,
		CoherenceThreshold: 0.7,
		MinInterval:        100 * time.Millisecond,
		TimeoutFactor:      10,
		HistorySize:        32,
	}
}

// GateDecision is the outcome of one ShouldProcess call.
type GateDecision struct {
	ShouldPass bool
	Reason     string
}

// GateStats is a snapshot of the gate's counters.
type GateStats struct {
	Mode        GateMode
	Pending     bool
	TickCount   int64
	PassedCount int64
	GatedCount  int64
	GateRatio   float64 // gated / (gated + passed)
	TickRate    float64 // ticks per second over recent history
}

// TickGate is a rate-limiting state machine deciding whether an expensive
// field evolution step may run. A tick is a discrete, semantically
// significant event registered by an external detector — not a uniform
// clock frame. The gate throttles how OFTEN work runs; it is not a
// concurrency primitive, and a gated call must be a pure no-op upstream.
//
// States: idle, pending. Tick moves idle→pending; a strict or adaptive pass
// consumes the pending tick back to idle.
type TickGate struct {
	cfg     GateConfig
	pending bool

	lastTick  time.Time
	tickCount int64
	passed    int64
	gated     int64
	history   *ring[time.Time]

	// now is the clock source; replaceable in tests for deterministic
	// timeout behavior.
	now func() time.Time
}

// NewTickGate builds a gate, filling zero-valued config fields with
// defaults. The construction instant counts as the last tick time, so the
// timeout fallback measures from startup on a silent input.
func NewTickGate(cfg GateConfig) *TickGate {
	def := DefaultGateConfig()
	if cfg.Mode == "" {
		cfg.Mode = def.Mode
	}
	if cfg.CoherenceThreshold == 0 {
		cfg.CoherenceThreshold = def.CoherenceThreshold
	}
	if cfg.MinInterval == 0 {
		cfg.MinInterval = def.MinInterval
	}
	if cfg.TimeoutFactor == 0 {
		cfg.TimeoutFactor = def.TimeoutFactor
	}
	if cfg.HistorySize == 0 {
		cfg.HistorySize = def.HistorySize
	}
	g := &TickGate{
		cfg:     cfg,
		history: newRing[time.Time](cfg.HistorySize),
		now:     time.Now,
	}
	g.lastTick = g.now()
	return g
}

// Mode returns the configured admission policy.
func (g *TickGate) Mode() GateMode { return g.cfg.Mode }

// Tick registers a discrete event: idle→pending, and records the tick time
// in the bounded history.
func (g *TickGate) Tick() {
	g.pending = true
	g.recordTick(g.now())
}

func (g *TickGate) recordTick(t time.Time) {
	g.lastTick = t
	g.tickCount++
	g.history.push(t)
}

// ShouldProcess decides whether the caller's evolution step may run.
// Exactly one of the passed/gated counters increments per call.
func (g *TickGate) ShouldProcess(coherence float64) GateDecision {
	switch g.cfg.Mode {
	case GateFree:
		return g.pass(ReasonFreeMode)

	case GateStrict:
		if g.pending {
			g.pending = false
			return g.pass(ReasonPendingTick)
		}
		return g.gate(ReasonNoPendingTick)

	default: // GateAdaptive
		if g.pending {
			g.pending = false
			return g.pass(ReasonPendingTick)
		}

		now := g.now()
		elapsed := now.Sub(g.lastTick)

		if coherence >= g.cfg.CoherenceThreshold && elapsed >= g.cfg.MinInterval {
			// Coherence spike: auto-register the tick and consume it.
			g.recordTick(now)
			g.pending = false
			return g.pass(ReasonCoherenceTrigger)
		}

		timeout := time.Duration(g.cfg.TimeoutFactor * float64(g.cfg.MinInterval))
		if elapsed >= timeout {
			// Liveness guarantee: a silent input cannot stall evolution
			// forever.
			g.recordTick(now)
			g.pending = false
			return g.pass(ReasonTimeoutFallback)
		}

		return g.gate(ReasonAwaitingTick)
	}
}

func (g *TickGate) pass(reason string) GateDecision {
	g.passed++
	return GateDecision{ShouldPass: true, Reason: reason}
}

func (g *TickGate) gate(reason string) GateDecision {
	g.gated++
	return GateDecision{ShouldPass: false, Reason: reason}
}

// TickRate estimates ticks per second from the last 10 recorded tick
// timestamps. Fewer than two ticks yields 0.
func (g *TickGate) TickRate() float64 {
	recent := g.history.last(10)
	if len(recent) < 2 {
		return 0
	}
	span := recent[len(recent)-1].Sub(recent[0]).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(len(recent)-1) / span
}

// Stats returns a snapshot of the gate's counters.
func (g *TickGate) Stats() GateStats {
	total := g.passed + g.gated
	ratio := 0.0
	if total > 0 {
		ratio = float64(g.gated) / float64(total)
	}
	return GateStats{
		Mode:        g.cfg.Mode,
		Pending:     g.pending,
		TickCount:   g.tickCount,
		PassedCount: g.passed,
		GatedCount:  g.gated,
		GateRatio:   ratio,
		TickRate:    g.TickRate(),
	}
}
