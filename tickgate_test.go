package holomem

import (
	"testing"
	"time"
)

func TestTickGate_FreeModeNeverGates(t *testing.T) {
	g := NewTickGate(GateConfig{Mode: GateFree})
	for i := 0; i < 1000; i++ {
		if d := g.ShouldProcess(0); !d.ShouldPass || d.Reason != ReasonFreeMode {
			t.Fatalf("free mode gated on call %d: %+v", i, d)
		}
	}
	stats := g.Stats()
	if stats.GatedCount != 0 {
		t.Errorf("free mode gated count = %d, want 0", stats.GatedCount)
	}
	if stats.PassedCount != 1000 {
		t.Errorf("free mode passed count = %d, want 1000", stats.PassedCount)
	}
}

func TestTickGate_StrictSoundness(t *testing.T) {
	AssertGateSoundness(t, 100)
}

func TestTickGate_StrictConsumesTick(t *testing.T) {
	g := NewTickGate(GateConfig{Mode: GateStrict})
	g.Tick()
	g.Tick() // pending is a flag, not a queue

	if d := g.ShouldProcess(0); !d.ShouldPass || d.Reason != ReasonPendingTick {
		t.Fatalf("first call after tick: %+v", d)
	}
	if d := g.ShouldProcess(0); d.ShouldPass {
		t.Errorf("second call passed without a new tick: %+v", d)
	}
	if g.Stats().TickCount != 2 {
		t.Errorf("tick count = %d, want 2", g.Stats().TickCount)
	}
}

func TestTickGate_AdaptivePendingTick(t *testing.T) {
	g := NewTickGate(DefaultGateConfig())
	g.Tick()
	if d := g.ShouldProcess(0); !d.ShouldPass || d.Reason != ReasonPendingTick {
		t.Errorf("adaptive pending tick: %+v", d)
	}
}

func TestTickGate_AdaptiveCoherenceTrigger(t *testing.T) {
	g := NewTickGate(DefaultGateConfig())
	base := time.Now()
	g.now = func() time.Time { return base }
	g.lastTick = base

	// High coherence before MinInterval elapses: still gated.
	if d := g.ShouldProcess(0.9); d.ShouldPass {
		t.Fatalf("coherence trigger fired before MinInterval: %+v", d)
	}

	g.now = func() time.Time { return base.Add(g.cfg.MinInterval) }
	d := g.ShouldProcess(0.9)
	if !d.ShouldPass || d.Reason != ReasonCoherenceTrigger {
		t.Fatalf("coherence trigger after MinInterval: %+v", d)
	}

	// The auto-tick resets the interval clock: an immediate repeat gates.
	if d := g.ShouldProcess(0.9); d.ShouldPass {
		t.Errorf("coherence trigger ignored MinInterval spacing: %+v", d)
	}
}

func TestTickGate_AdaptiveBelowThreshold(t *testing.T) {
	g := NewTickGate(DefaultGateConfig())
	base := time.Now()
	g.now = func() time.Time { return base.Add(g.cfg.MinInterval) }
	g.lastTick = base

	if d := g.ShouldProcess(0.69); d.ShouldPass {
		t.Errorf("passed below coherence threshold: %+v", d)
	}
}

func TestTickGate_TimeoutLiveness(t *testing.T) {
	AssertGateLiveness(t, DefaultGateConfig())
}

func TestTickGate_ExactlyOneCounterPerCall(t *testing.T) {
	g := NewTickGate(DefaultGateConfig())
	base := time.Now()
	g.now = func() time.Time { return base }
	g.lastTick = base

	calls := int64(0)
	for i := 0; i < 50; i++ {
		if i%5 == 0 {
			g.Tick()
		}
		g.ShouldProcess(0.5)
		calls++
	}
	stats := g.Stats()
	if stats.PassedCount+stats.GatedCount != calls {
		t.Errorf("passed %d + gated %d != calls %d",
			stats.PassedCount, stats.GatedCount, calls)
	}
}

func TestTickGate_TickRate(t *testing.T) {
	g := NewTickGate(DefaultGateConfig())
	base := time.Now()
	current := base
	g.now = func() time.Time { return current }

	// 5 ticks spaced 100ms: 4 intervals over 0.4s = 10 ticks/s.
	for i := 0; i < 5; i++ {
		current = base.Add(time.Duration(i) * 100 * time.Millisecond)
		g.Tick()
	}
	got := g.TickRate()
	if got < 9.99 || got > 10.01 {
		t.Errorf("TickRate = %v, want 10", got)
	}
}

func TestTickGate_TickRateFewTicks(t *testing.T) {
	g := NewTickGate(DefaultGateConfig())
	if got := g.TickRate(); got != 0 {
		t.Errorf("TickRate with no ticks = %v, want 0", got)
	}
	g.Tick()
	if got := g.TickRate(); got != 0 {
		t.Errorf("TickRate with one tick = %v, want 0", got)
	}
}

func TestTickGate_Defaults(t *testing.T) {
	g := NewTickGate(GateConfig{})
	if g.Mode() != GateAdaptive {
		t.Errorf("default mode = %q, want adaptive", g.Mode())
	}
	if g.cfg.CoherenceThreshold != 0.7 {
		t.Errorf("default threshold = %v, want 0.7", g.cfg.CoherenceThreshold)
	}
	if g.cfg.MinInterval != 100*time.Millisecond {
		t.Errorf("default min interval = %v, want 100ms", g.cfg.MinInterval)
	}
}
