// Package holomem implements holographic encoding and associative memory
// over prime-indexed amplitude states.
//
// # Overview
//
// An external oscillator subsystem supplies sparse states: maps from prime
// numbers to complex amplitudes. holomem projects such a state into a dense
// 2D interference field by superposing one plane wave per excited prime,
// reconstructs amplitudes back out of the field by carrier correlation,
// stores many encoded fields as decaying traces, and retrieves them by
// intensity-correlation similarity. Two control primitives govern how the
// field evolves between projections: an adaptive damping law and a
// rate-limiting tick gate.
//
// # Architecture
//
// The package components:
//
//   - FrequencyMap  - one-time carrier assignment (golden-ratio spiral)
//   - Field         - mutable 2D grid of complex cells + derived views
//   - Encoder       - project / reconstruct / evolve
//   - Stabilizer    - adaptive damping controller (sigmoid law)
//   - TickGate      - throttle deciding when evolution may run
//   - MemoryStore   - store / recall / decay / prune over traces
//   - Comparator    - pairwise state similarity and difference fields
//
// # Quick Start
//
//	enc := holomem.NewEncoder(holomem.DefaultConfig())
//
//	enc.Project(holomem.State{
//	    2: holomem.Real(1.0),
//	    3: holomem.Complex(0.3, 0.4),
//	}, true)
//
//	res := enc.Evolve(holomem.Metrics{Coherence: 0.8, Entropy: 1.2}, 0.1)
//	if !res.Gated {
//	    fmt.Printf("λ = %.4f (%s)\n", res.Lambda, res.Interpretation)
//	}
//
//	recovered := enc.Reconstruct()
//
// # The Carrier Basis
//
// Prime i of the configured set gets the spatial frequency
//
//	angle_i      = (2π · i · φ) mod 2π
//	wavelength_i = scale · (1 + ln(p_i)/ln 2)
//	(kx, ky)     = (2π/wavelength_i) · (cos angle_i, sin angle_i)
//
// Reconstruction correlates the field against each prime's own carrier. It
// is an approximate decoder, not an inverse transform: nothing guarantees
// orthogonality for arbitrary prime sets, and crosstalk grows as two
// wavevectors approach each other. The basis is kept as-is on purpose —
// every similarity score in the memory store is defined relative to it.
// SurveyCrosstalk measures the error for a given grid and prime set.
//
// # The Stabilizer
//
// Damping follows a sigmoid control law over externally supplied metrics:
//
//	λ = λ0 · σ(steepness · (aC·coherence − aS·entropy − aSMF·smfEntropy))
//
// High coherence pulls the field toward a coherent attractor (more
// damping); entropy and frequency-map disorder favor freer evolution.
//
// # The Tick Gate
//
// Evolution is O(N²) per step, so it runs behind a gate keyed to ticks:
// discrete, semantically significant events, not clock frames. Strict mode
// requires a tick per step; free mode always passes; adaptive mode (the
// default) also passes on sustained coherence and carries a 10×MinInterval
// timeout fallback so a silent input can never stall the field forever. A
// gated call mutates nothing.
//
// # The Memory Store
//
// Store projects a state into a fresh trace at strength 1.0. Recall
// encodes a cue, returns the best trace above threshold and reinforces it;
// FindSimilar is the read-only bulk variant that deliberately does NOT
// reinforce. Decay multiplies strengths down and forgets traces at or
// below 0.1; exceeding capacity prunes by strength×(accessCount+1).
//
// # Concurrency
//
// Everything is synchronous and single-owner: one logical driver calls into
// each Encoder or MemoryStore, every operation runs to completion, and no
// state is shared except by value. The gate throttles how often expensive
// work runs — it is not a lock.
//
// # Testing
//
// Property assertions are exported for reuse:
//
//	func TestMyDeployment(t *testing.T) {
//	    holomem.AssertRoundTrip(t, cfg, 2, holomem.Real(1), 0.15)
//	    holomem.AssertGateLiveness(t, holomem.DefaultGateConfig())
//	    holomem.AssertLambdaMonotonic(t, holomem.DefaultStabilizerConfig(), 0, 0)
//	}
package holomem
