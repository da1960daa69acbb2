package holomem

import (
	"testing"
	"time"
)

// Test helpers for the subsystem's mathematical contracts, meant to be
// called from _test.go files the way property assertions are: each one
// checks a single documented invariant and logs the measured values.

// AssertRoundTrip verifies that a single excited prime survives a
// project/reconstruct round trip within the relative magnitude tolerance.
//
// Mathematical property:
//
//	|‖α̂_p‖ − ‖α_p‖| / ‖α_p‖ ≤ tolerance  (single carrier, no competitors)
func AssertRoundTrip(t *testing.T, cfg *Config, prime int, amp Amplitude, tolerance float64) {
	t.Helper()

	enc := NewEncoder(cfg)
	enc.Project(State{prime: amp}, true)
	recovered := enc.Reconstruct()

	want := amp.Norm()
	if want <= NormFloor {
		t.Fatalf("degenerate input amplitude for prime %d", prime)
	}
	got := recovered[prime].Norm()
	relErr := abs(got-want) / want
	if relErr > tolerance {
		t.Errorf("round trip error too high for prime %d: |α̂|=%.6f, |α|=%.6f, rel err %.4f (max %.4f)",
			prime, got, want, relErr, tolerance)
	}
	t.Logf("round trip prime %d: rel err %.4f (tolerance %.4f)", prime, relErr, tolerance)
}

// AssertCorrelationSymmetry verifies Correlate(A,B) == Correlate(B,A).
func AssertCorrelationSymmetry(t *testing.T, a, b *Encoder) {
	t.Helper()

	ab := Correlate(a, b)
	ba := Correlate(b, a)
	if abs(ab-ba) > 1e-12 {
		t.Errorf("correlation not symmetric: corr(A,B)=%.12f, corr(B,A)=%.12f", ab, ba)
	}
	t.Logf("correlation symmetric: %.6f", ab)
}

// AssertCapacityInvariant verifies the store never holds more traces than
// its configured maximum.
func AssertCapacityInvariant(t *testing.T, store *MemoryStore, maxMemories int) {
	t.Helper()

	if store.Len() > maxMemories {
		t.Errorf("capacity invariant violated: %d traces stored (max %d)", store.Len(), maxMemories)
	}
}

// AssertDecayIdentity verifies Decay(0) changes no trace strength.
func AssertDecayIdentity(t *testing.T, store *MemoryStore) {
	t.Helper()

	before := make(map[string]float64, store.Len())
	for _, tr := range store.Traces() {
		before[tr.ID] = tr.Strength
	}
	if dropped := store.Decay(0); dropped != 0 {
		t.Errorf("Decay(0) dropped %d traces", dropped)
	}
	for _, tr := range store.Traces() {
		if tr.Strength != before[tr.ID] {
			t.Errorf("Decay(0) changed strength of %s: %.6f → %.6f", tr.ID, before[tr.ID], tr.Strength)
		}
	}
}

// AssertGateLiveness verifies the adaptive timeout fallback: with coherence
// held at zero and no explicit tick, the gate must pass once elapsed time
// reaches TimeoutFactor × MinInterval. The gate's clock is advanced
// artificially, so the assertion is deterministic.
func AssertGateLiveness(t *testing.T, cfg GateConfig) {
	t.Helper()

	cfg.Mode = GateAdaptive
	g := NewTickGate(cfg)

	base := time.Now()
	g.now = func() time.Time { return base }
	g.lastTick = base

	if d := g.ShouldProcess(0); d.ShouldPass {
		t.Fatalf("gate passed immediately at zero coherence (reason %q)", d.Reason)
	}

	timeout := time.Duration(g.cfg.TimeoutFactor * float64(g.cfg.MinInterval))
	g.now = func() time.Time { return base.Add(timeout) }

	d := g.ShouldProcess(0)
	if !d.ShouldPass {
		t.Errorf("gate still closed after %v at zero coherence (reason %q)", timeout, d.Reason)
	}
	if d.Reason != ReasonTimeoutFallback {
		t.Errorf("expected %q, got %q", ReasonTimeoutFallback, d.Reason)
	}
	t.Logf("liveness fallback passed after %v", timeout)
}

// AssertGateSoundness verifies strict mode never passes without a tick
// registered since the previous ShouldProcess call.
func AssertGateSoundness(t *testing.T, calls int) {
	t.Helper()

	g := NewTickGate(GateConfig{Mode: GateStrict})
	for i := 0; i < calls; i++ {
		if d := g.ShouldProcess(1.0); d.ShouldPass {
			t.Fatalf("strict gate passed on call %d without a tick (reason %q)", i, d.Reason)
		}
	}

	g.Tick()
	if d := g.ShouldProcess(0); !d.ShouldPass {
		t.Errorf("strict gate refused a pending tick (reason %q)", d.Reason)
	}
	if d := g.ShouldProcess(0); d.ShouldPass {
		t.Errorf("strict gate passed twice on one tick")
	}
	t.Logf("strict gate sound over %d tickless calls", calls)
}

// AssertLambdaMonotonic verifies λ is monotonically non-decreasing in
// coherence with the entropy inputs held fixed.
func AssertLambdaMonotonic(t *testing.T, cfg StabilizerConfig, entropy, smfEntropy float64) {
	t.Helper()

	s := NewStabilizer(cfg)
	prev := -1.0
	for c := 0.0; c <= 1.0001; c += 0.1 {
		lambda := s.ComputeLambda(c, entropy, smfEntropy)
		if lambda < prev {
			t.Errorf("λ not monotonic in coherence: λ(%.1f)=%.6f < λ(%.1f)=%.6f",
				c, lambda, c-0.1, prev)
		}
		prev = lambda
	}
	t.Logf("λ monotonic in coherence at entropy=%.2f, smf=%.2f", entropy, smfEntropy)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
