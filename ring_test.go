package holomem

import "testing"

func TestRing_FillAndOverwrite(t *testing.T) {
	r := newRing[int](3)
	for i := 1; i <= 5; i++ {
		r.push(i)
	}
	if r.len() != 3 {
		t.Fatalf("len = %d, want 3", r.len())
	}
	got := r.last(3)
	want := []int{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("last(3) = %v, want %v", got, want)
			break
		}
	}
}

func TestRing_LastOrdering(t *testing.T) {
	r := newRing[int](8)
	for i := 0; i < 5; i++ {
		r.push(i)
	}
	got := r.last(3)
	want := []int{2, 3, 4} // oldest first
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("last(3) = %v, want %v", got, want)
			break
		}
	}
}

func TestRing_LastBeyondCount(t *testing.T) {
	r := newRing[int](4)
	r.push(7)
	got := r.last(10)
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("last(10) = %v, want [7]", got)
	}
	if r.last(0) != nil {
		t.Error("last(0) should be nil")
	}
}

func TestRing_ZeroCapacity(t *testing.T) {
	r := newRing[int](0)
	r.push(1)
	r.push(2)
	if r.len() != 1 {
		t.Errorf("len = %d, want 1", r.len())
	}
	if got := r.last(1); got[0] != 2 {
		t.Errorf("last(1) = %v, want [2]", got)
	}
}
