package holomem

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is a read-only spectral view of a field, in the same family as
// Intensity and PhasePattern but taken in frequency space.
type Spectrum struct {
	GridSize int

	// Power is the 2D power spectrum |F[kx,ky]|², row-major.
	Power []float64

	// DominantKx/Ky are the signed frequency bins of the strongest
	// non-DC mode.
	DominantKx int
	DominantKy int
	PeakPower  float64

	// SpectralEntropy is the Shannon entropy (bits) of the normalized
	// power distribution; 0 for an empty field.
	SpectralEntropy float64
}

// Spectrum computes the field's 2D discrete Fourier transform and derives
// the dominant mode and spectral entropy. The DC bin is excluded from the
// dominant-mode search: a uniform offset says nothing about which carriers
// hold the energy.
func (f *Field) Spectrum() Spectrum {
	n := f.gridSize

	rows := make([][]complex128, n)
	for y := 0; y < n; y++ {
		rows[y] = f.cells[y*n : (y+1)*n]
	}
	transformed := fft.FFT2(rows)

	spec := Spectrum{
		GridSize: n,
		Power:    make([]float64, n*n),
	}

	total := 0.0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := transformed[y][x]
			re, im := real(c), imag(c)
			p := re*re + im*im
			spec.Power[y*n+x] = p
			total += p
			if (x != 0 || y != 0) && p > spec.PeakPower {
				spec.PeakPower = p
				spec.DominantKx = signedBin(x, n)
				spec.DominantKy = signedBin(y, n)
			}
		}
	}

	if total > NormFloor {
		h := 0.0
		for _, p := range spec.Power {
			q := p / total
			if q > NormFloor {
				h -= q * math.Log2(q)
			}
		}
		spec.SpectralEntropy = h
	}
	return spec
}

// signedBin maps an FFT bin index to its signed frequency: bins past N/2
// wrap to negative frequencies.
func signedBin(b, n int) int {
	if b > n/2 {
		return b - n
	}
	return b
}
