package holomem

import (
	"math"
)

// Metrics is the external control input to one evolution step. Coherence is
// the upstream synchrony scalar in [0,1]; the two entropies are non-negative
// disorder measures (field-side and frequency-map-side).
type Metrics struct {
	Coherence  float64 `json:"coherence"`
	Entropy    float64 `json:"entropy"`
	SMFEntropy float64 `json:"smfEntropy"`
}

// EvolveResult reports what one Evolve call did. A gated result carries the
// reason and the (unchanged) field measurements; an accepted result carries
// the applied damping rate and its interpretation.
type EvolveResult struct {
	Lambda         float64 `json:"lambda"`
	Interpretation string  `json:"interpretation,omitempty"`
	Gated          bool    `json:"gated"`
	Reason         string  `json:"reason,omitempty"`
	TotalEnergy    float64 `json:"totalEnergy"`
	FieldEntropy   float64 `json:"fieldEntropy"`
}

// Encoder projects sparse prime-amplitude states into a dense holographic
// field and reconstructs them back. It owns its field exclusively and runs
// every operation to completion synchronously; cost is O(P·N²) for Project
// and O(N²) for everything else.
//
// Reconstruction is a discrete correlation against each prime's own carrier,
// NOT a true orthogonal inverse transform: fidelity degrades as two primes'
// wavevectors approach each other. See SurveyCrosstalk for quantifying this.
type Encoder struct {
	smf   *FrequencyMap
	field *Field
	gate  *TickGate
	stab  *Stabilizer

	basePhase     float64
	nonlinearGain float64
	backend       ComputeBackend
}

// NewEncoder builds an encoder from a configuration. A nil config uses
// DefaultConfig.
func NewEncoder(cfg *Config) *Encoder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return newEncoderShared(cfg, NewFrequencyMap(cfg.Primes, cfg.WavelengthScale))
}

// newEncoderShared builds an encoder around an existing frequency map so the
// memory store can mint many traces without recomputing the carrier basis.
func newEncoderShared(cfg *Config, smf *FrequencyMap) *Encoder {
	gain := cfg.NonlinearGain
	if gain == 0 {
		gain = 1.0
	}
	return &Encoder{
		smf:           smf,
		field:         NewField(cfg.GridSize),
		gate:          NewTickGate(cfg.Gate),
		stab:          NewStabilizer(cfg.Stabilizer),
		basePhase:     cfg.BasePhase,
		nonlinearGain: gain,
	}
}

// SetBackend injects an optional compute backend. A nil backend restores the
// pure Go path.
func (e *Encoder) SetBackend(b ComputeBackend) { e.backend = b }

// Field exposes the encoder's field for read-oriented views.
func (e *Encoder) Field() *Field { return e.field }

// Frequencies exposes the immutable carrier assignment.
func (e *Encoder) Frequencies() *FrequencyMap { return e.smf }

// Gate exposes the tick gate, so an external coherence-spike detector can
// inspect its stats.
func (e *Encoder) Gate() *TickGate { return e.gate }

// Stabilizer exposes the damping controller.
func (e *Encoder) Stabilizer() *Stabilizer { return e.stab }

// Tick forwards a discrete event to the gate.
func (e *Encoder) Tick() { e.gate.Tick() }

// Project writes the state into the field as a superposition of per-prime
// plane waves:
//
//	H[x,y] += Σ_p α_p · exp(i(kx_p·x + ky_p·y + φ0))
//
// When clear is true the field is zeroed first; otherwise the new waves add
// into whatever is already there (multi-source superposition). Amplitudes at
// or below the energy floor and primes outside the configured set are
// skipped silently.
func (e *Encoder) Project(state State, clear bool) {
	comps := e.components(state)
	if clear {
		e.field.Zero()
	}
	if len(comps) == 0 {
		return
	}
	if e.backend != nil {
		if err := e.backend.Project(e.field.cells, e.field.gridSize, comps); err == nil {
			return
		}
		// Backend failure falls back to the reference path.
	}
	projectPure(e.field.cells, e.field.gridSize, comps)
}

// ProjectRaw is the tolerant-input variant of Project: it accepts the
// untyped prime→value map shape produced by upstream drivers.
func (e *Encoder) ProjectRaw(raw map[int]any, clear bool) {
	e.Project(ParseState(raw), clear)
}

func (e *Encoder) components(state State) []WaveComponent {
	comps := make([]WaveComponent, 0, len(state))
	for p, a := range state {
		if a.IsZero() {
			continue
		}
		sf, ok := e.smf.Lookup(p)
		if !ok {
			continue
		}
		// Fold the base phase into the component's amplitude so backends
		// only see (amp, kx, ky).
		amp := a.Complex128() * phasor(e.basePhase)
		comps = append(comps, WaveComponent{Amp: amp, Kx: sf.Kx, Ky: sf.Ky})
	}
	return comps
}

func projectPure(cells []complex128, gridSize int, comps []WaveComponent) {
	for _, c := range comps {
		i := 0
		for y := 0; y < gridSize; y++ {
			ky := c.Ky * float64(y)
			for x := 0; x < gridSize; x++ {
				cells[i] += c.Amp * phasor(c.Kx*float64(x)+ky)
				i++
			}
		}
	}
}

// Reconstruct recovers an amplitude per configured prime by correlating the
// field against that prime's own carrier:
//
//	α_p = (1/N²) · Σ_{x,y} H[x,y] · exp(−i(kx_p·x + ky_p·y + φ0))
//
// This is an approximate decoder: energy from nearby carriers bleeds into
// each estimate (crosstalk). The carrier basis is kept as-is because the
// store's similarity semantics depend on it.
func (e *Encoder) Reconstruct() State {
	n := e.field.gridSize
	norm := 1.0 / float64(n*n)
	out := make(State, e.smf.Len())

	for _, p := range e.smf.Primes() {
		sf, _ := e.smf.Lookup(p)
		var sum complex128
		i := 0
		for y := 0; y < n; y++ {
			ky := sf.Ky * float64(y)
			for x := 0; x < n; x++ {
				sum += e.field.cells[i] * phasor(-(sf.Kx*float64(x) + ky + e.basePhase))
				i++
			}
		}
		alpha := sum * complex(norm, 0)
		out[p] = Complex(real(alpha), imag(alpha))
	}
	return out
}

// Evolve runs one damping step under the tick gate. A gated call mutates
// nothing — it only reports the current field measurements — so rapid
// repeated invocation is idempotent between ticks. An accepted call asks the
// stabilizer for λ and applies per-cell damping:
//
//	H[x,y] *= exp(−λ·dt·(1 + gain·I[x,y]/Ipeak))
//
// The intensity-proportional term damps hot cells harder, progressively
// concentrating energy into fewer dominant modes under sustained coherence.
func (e *Encoder) Evolve(m Metrics, dt float64) EvolveResult {
	decision := e.gate.ShouldProcess(m.Coherence)
	if !decision.ShouldPass {
		return EvolveResult{
			Gated:        true,
			Reason:       decision.Reason,
			TotalEnergy:  e.field.TotalEnergy(),
			FieldEntropy: e.field.Entropy(),
		}
	}

	lambda := e.stab.ComputeLambda(m.Coherence, m.Entropy, m.SMFEntropy)

	applied := false
	if e.backend != nil {
		if err := e.backend.Damp(e.field.cells, e.field.gridSize, lambda, dt, e.nonlinearGain); err == nil {
			applied = true
		}
	}
	if !applied {
		dampPure(e.field.cells, lambda, dt, e.nonlinearGain)
	}

	return EvolveResult{
		Lambda:         lambda,
		Interpretation: e.stab.Interpret(lambda),
		TotalEnergy:    e.field.TotalEnergy(),
		FieldEntropy:   e.field.Entropy(),
	}
}

func dampPure(cells []complex128, lambda, dt, gain float64) {
	peak := 0.0
	for _, c := range cells {
		re, im := real(c), imag(c)
		if v := re*re + im*im; v > peak {
			peak = v
		}
	}
	for i, c := range cells {
		extra := 0.0
		if peak > NormFloor {
			re, im := real(c), imag(c)
			extra = gain * (re*re + im*im) / peak
		}
		cells[i] = c * complex(math.Exp(-lambda*dt*(1+extra)), 0)
	}
}

// Superpose adds another encoder's field into this one.
func (e *Encoder) Superpose(other *Encoder) error {
	return e.field.Superpose(other.field)
}

// Scale multiplies the field by a real factor.
func (e *Encoder) Scale(factor float64) {
	e.field.Scale(factor)
}

// Clone copies the field into a fresh encoder sharing the same immutable
// carrier basis. Gate and stabilizer state start fresh: they belong to the
// evolution loop, not to the pattern.
func (e *Encoder) Clone() *Encoder {
	out := &Encoder{
		smf:           e.smf,
		field:         e.field.Clone(),
		gate:          NewTickGate(e.gate.cfg),
		stab:          NewStabilizer(e.stab.cfg),
		basePhase:     e.basePhase,
		nonlinearGain: e.nonlinearGain,
		backend:       e.backend,
	}
	return out
}

// Snapshot serializes the encoder's field sparsely.
func (e *Encoder) Snapshot() FieldSnapshot {
	return e.field.Snapshot()
}

// LoadSnapshot replaces the field from a snapshot, rejecting a mismatched
// grid size.
func (e *Encoder) LoadSnapshot(snap FieldSnapshot) error {
	return e.field.LoadSnapshot(snap)
}

// phasor returns exp(iθ) without allocating through math/cmplx.
func phasor(theta float64) complex128 {
	s, c := math.Sincos(theta)
	return complex(c, s)
}
