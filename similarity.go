package holomem

// Comparator scores two prime-amplitude states by encoding both into
// scratch fields and correlating their intensity patterns. It reuses one
// frequency map across calls, so comparing many pairs is cheap beyond the
// O(P·N²) projections themselves.
type Comparator struct {
	cfg *Config
	smf *FrequencyMap
}

// NewComparator builds a comparator. A nil config uses DefaultConfig.
func NewComparator(cfg *Config) *Comparator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Comparator{
		cfg: cfg,
		smf: NewFrequencyMap(cfg.Primes, cfg.WavelengthScale),
	}
}

// Similarity returns the intensity correlation of the two states' fields:
// symmetric, phase-insensitive, 0 for degenerate (zero-energy) inputs.
func (c *Comparator) Similarity(s1, s2 State) float64 {
	a := c.encode(s1)
	b := c.encode(s2)
	return Correlate(a, b)
}

// Difference returns the cell-wise complex difference field₁ − field₂ of
// the two encoded states. It is a field, not a scalar: the caller gets the
// full interference residue for diagnostic or visualization use.
func (c *Comparator) Difference(s1, s2 State) *Field {
	a := c.encode(s1)
	b := c.encode(s2)
	// Same comparator, same grid: Subtract cannot fail here.
	diff, _ := a.field.Subtract(b.field)
	return diff
}

func (c *Comparator) encode(s State) *Encoder {
	enc := newEncoderShared(c.cfg, c.smf)
	enc.Project(s, true)
	return enc
}
