package holomem

import "math"

// GoldenRatio φ = (1+√5)/2. Successive multiples of 2πφ fill the circle
// quasi-uniformly (three-distance theorem), which is what keeps the carrier
// angles spread without any two primes sharing a direction.
const GoldenRatio = 1.6180339887498949

// SpatialFrequency is the immutable 2D carrier assigned to one prime:
// a wavevector (Kx, Ky) and the wavelength it was derived from.
type SpatialFrequency struct {
	Kx         float64
	Ky         float64
	Wavelength float64
}

// FrequencyMap assigns a distinct spatial frequency to every prime in a
// configured set. The assignment is deterministic and computed exactly once
// at construction:
//
//	angle_i      = (2π · i · φ) mod 2π        (golden-ratio angular spiral)
//	wavelength_i = scale · (1 + ln(p_i)/ln 2) (log-scaled wavenumber)
//	k            = 2π / wavelength_i
//	(Kx, Ky)     = (k·cos(angle_i), k·sin(angle_i))
//
// No collision-freedom guarantee exists for arbitrary prime sets: two primes
// can land on numerically close wavevectors, and reconstruction crosstalk
// grows as they do. That is an accepted property of this carrier basis, not
// a defect to engineer away here — the store's similarity semantics depend
// on the basis staying as-is.
type FrequencyMap struct {
	primes          []int
	freqs           map[int]SpatialFrequency
	wavelengthScale float64
}

// DefaultWavelengthScale is the base wavelength multiplier used when a
// configuration leaves it unset.
const DefaultWavelengthScale = 10.0

// DefaultPrimes returns the standard prime set: the first 25 primes (2..97).
func DefaultPrimes() []int {
	return []int{
		2, 3, 5, 7, 11, 13, 17, 19, 23, 29,
		31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
		73, 79, 83, 89, 97,
	}
}

// NewFrequencyMap computes the carrier assignment for the given primes.
// A nil or empty prime slice falls back to DefaultPrimes; a non-positive
// scale falls back to DefaultWavelengthScale.
func NewFrequencyMap(primes []int, wavelengthScale float64) *FrequencyMap {
	if len(primes) == 0 {
		primes = DefaultPrimes()
	}
	if wavelengthScale <= 0 {
		wavelengthScale = DefaultWavelengthScale
	}

	m := &FrequencyMap{
		primes:          make([]int, len(primes)),
		freqs:           make(map[int]SpatialFrequency, len(primes)),
		wavelengthScale: wavelengthScale,
	}
	copy(m.primes, primes)

	for i, p := range m.primes {
		angle := math.Mod(2*math.Pi*float64(i)*GoldenRatio, 2*math.Pi)
		wavelength := wavelengthScale * (1 + math.Log(float64(p))/math.Ln2)
		k := 2 * math.Pi / wavelength
		m.freqs[p] = SpatialFrequency{
			Kx:         k * math.Cos(angle),
			Ky:         k * math.Sin(angle),
			Wavelength: wavelength,
		}
	}
	return m
}

// Lookup returns the spatial frequency for p, and whether p belongs to the
// configured set.
func (m *FrequencyMap) Lookup(p int) (SpatialFrequency, bool) {
	sf, ok := m.freqs[p]
	return sf, ok
}

// Primes returns a copy of the configured prime set, in assignment order.
func (m *FrequencyMap) Primes() []int {
	out := make([]int, len(m.primes))
	copy(out, m.primes)
	return out
}

// WavelengthScale returns the scale the map was built with.
func (m *FrequencyMap) WavelengthScale() float64 {
	return m.wavelengthScale
}

// Len returns the number of configured primes.
func (m *FrequencyMap) Len() int {
	return len(m.primes)
}
