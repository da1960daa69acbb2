package holomem

import "math"

// NormFloor is the ε floor applied to every norm and normalization in the
// package. Values at or below it are treated as zero energy; divisions are
// guarded so degenerate inputs produce 0, never NaN or Inf.
const NormFloor = 1e-10

// AmplitudeKind tags the two accepted amplitude representations.
type AmplitudeKind int

const (
	// KindReal is a bare real weight (imaginary part zero).
	KindReal AmplitudeKind = iota
	// KindComplex is a full complex weight.
	KindComplex
)

// Amplitude is a complex weight attached to a prime. It is a tagged union
// rather than an interface: every accepted input shape is normalized into
// one of the two kinds exactly once, at the boundary, so the hot paths
// never probe types.
type Amplitude struct {
	Kind AmplitudeKind
	Re   float64
	Im   float64
}

// Real builds a purely real amplitude.
func Real(v float64) Amplitude {
	return Amplitude{Kind: KindReal, Re: v}
}

// Complex builds a complex amplitude from rectangular parts.
func Complex(re, im float64) Amplitude {
	return Amplitude{Kind: KindComplex, Re: re, Im: im}
}

// Polar builds a complex amplitude from norm and phase.
func Polar(norm, phase float64) Amplitude {
	return Amplitude{Kind: KindComplex, Re: norm * math.Cos(phase), Im: norm * math.Sin(phase)}
}

// Norm returns |a|.
func (a Amplitude) Norm() float64 {
	return math.Hypot(a.Re, a.Im)
}

// Phase returns arg(a) in (−π, π].
func (a Amplitude) Phase() float64 {
	return math.Atan2(a.Im, a.Re)
}

// Complex128 returns the amplitude as a native complex value.
func (a Amplitude) Complex128() complex128 {
	return complex(a.Re, a.Im)
}

// IsZero reports whether the amplitude is below the energy floor.
func (a Amplitude) IsZero() bool {
	return a.Norm() <= NormFloor
}

// NormPhaser is the duck-typed amplitude shape accepted at the boundary:
// anything exposing polar coordinates.
type NormPhaser interface {
	Norm() float64
	Phase() float64
}

// ParseAmplitude is the single tolerant normalizer for untrusted amplitude
// input. Accepted shapes:
//
//   - float64, float32, int, int32, int64 — bare real weight
//   - complex128, complex64               — rectangular complex weight
//   - map[string]float64 / map[string]any with "re"/"im" keys
//   - any value implementing NormPhaser
//   - Amplitude itself (passed through)
//
// Unrecognized shapes are treated as zero amplitude. This never returns an
// error: tolerating junk at the boundary is part of the contract, since
// upstream drivers feed heterogeneous state maps.
func ParseAmplitude(v any) Amplitude {
	switch x := v.(type) {
	case Amplitude:
		return x
	case float64:
		return Real(x)
	case float32:
		return Real(float64(x))
	case int:
		return Real(float64(x))
	case int32:
		return Real(float64(x))
	case int64:
		return Real(float64(x))
	case complex128:
		return Complex(real(x), imag(x))
	case complex64:
		return Complex(float64(real(x)), float64(imag(x)))
	case map[string]float64:
		return Complex(x["re"], x["im"])
	case map[string]any:
		return Complex(toFloat(x["re"]), toFloat(x["im"]))
	case NormPhaser:
		return Polar(x.Norm(), x.Phase())
	default:
		return Amplitude{}
	}
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}

// State is a sparse prime-amplitude map: the active semantic directions
// supplied by the upstream oscillator bank. Keys outside the configured
// prime set are ignored by the encoder, not rejected.
type State map[int]Amplitude

// ParseState normalizes a raw prime→value map into a State using
// ParseAmplitude for every entry.
func ParseState(raw map[int]any) State {
	s := make(State, len(raw))
	for p, v := range raw {
		s[p] = ParseAmplitude(v)
	}
	return s
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for p, a := range s {
		out[p] = a
	}
	return out
}
