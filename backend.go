package holomem

// WaveComponent is one plane wave handed to a compute backend: a complex
// amplitude and the wavevector of the prime's carrier.
type WaveComponent struct {
	Amp complex128
	Kx  float64
	Ky  float64
}

// ComputeBackend is an optional acceleration strategy for the three hot
// kernels. The encoder and store never require one: the pure Go path is the
// reference implementation and stays fully functional standalone. When a
// backend is injected and a call fails, the caller falls back to the pure
// path for that call.
type ComputeBackend interface {
	// Name identifies the backend in stats and logs.
	Name() string

	// Project accumulates Σ_p α_p·exp(i(kx·x+ky·y+φ0)) into cells
	// (row-major, gridSize²). The base phase is folded into comps by the
	// caller.
	Project(cells []complex128, gridSize int, comps []WaveComponent) error

	// Damp applies per-cell damping exp(−λ·dt·(1+gain·I/Ipeak)) in place.
	Damp(cells []complex128, gridSize int, lambda, dt, gain float64) error

	// Correlate returns the normalized dot product of two intensity
	// arrays, or 0 when either norm is below the floor.
	Correlate(a, b []float64) (float64, error)
}
