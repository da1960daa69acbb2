package holomem

import (
	"math"
	"testing"
)

func TestComparator_IdenticalStates(t *testing.T) {
	c := NewComparator(nil)
	s := State{2: Real(1), 3: Complex(0.3, 0.4)}
	if got := c.Similarity(s, s.Clone()); math.Abs(got-1) > 1e-9 {
		t.Errorf("self-similarity = %v, want 1", got)
	}
}

func TestComparator_Symmetric(t *testing.T) {
	c := NewComparator(nil)
	a := State{2: Real(1), 3: Real(0.5)}
	b := State{5: Real(0.8), 7: Real(0.2)}
	ab := c.Similarity(a, b)
	ba := c.Similarity(b, a)
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("similarity not symmetric: %v vs %v", ab, ba)
	}
}

func TestComparator_DegenerateState(t *testing.T) {
	c := NewComparator(nil)
	if got := c.Similarity(State{}, State{2: Real(1)}); got != 0 {
		t.Errorf("similarity with empty state = %v, want 0", got)
	}
	if got := c.Similarity(State{}, State{}); got != 0 {
		t.Errorf("similarity of two empty states = %v, want 0", got)
	}
}

func TestComparator_PhaseInsensitive(t *testing.T) {
	// Intensity scoring ignores a global phase rotation.
	c := NewComparator(nil)
	a := State{2: Real(1)}
	b := State{2: Polar(1, math.Pi/2)}
	if got := c.Similarity(a, b); math.Abs(got-1) > 1e-9 {
		t.Errorf("similarity under global phase = %v, want 1", got)
	}
}

func TestComparator_DifferenceOfIdentical(t *testing.T) {
	c := NewComparator(nil)
	s := State{2: Real(1), 11: Real(0.5)}
	diff := c.Difference(s, s.Clone())
	if got := diff.TotalEnergy(); got > 1e-18 {
		t.Errorf("difference of identical states has energy %v, want 0", got)
	}
}

func TestComparator_DifferenceIsolatesComponent(t *testing.T) {
	// A − (A without one component) leaves exactly that component's wave.
	c := NewComparator(nil)
	full := State{2: Real(1), 3: Real(0.5)}
	partial := State{2: Real(1)}
	diff := c.Difference(full, partial)

	solo := NewEncoder(DefaultConfig())
	solo.Project(State{3: Real(0.5)}, true)

	if math.Abs(diff.TotalEnergy()-solo.Field().TotalEnergy()) > 1e-9 {
		t.Errorf("residual energy = %v, want %v",
			diff.TotalEnergy(), solo.Field().TotalEnergy())
	}
}
