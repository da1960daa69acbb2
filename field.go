package holomem

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// ErrGridSizeMismatch is returned when a snapshot or a second field does not
// match the receiver's grid dimensions. Dimension mismatch is the one
// structural misuse this package raises on; every numerical edge case is
// absorbed locally instead.
var ErrGridSizeMismatch = errors.New("holomem: grid size mismatch")

// DefaultGridSize is used when a configuration leaves the grid size unset.
const DefaultGridSize = 64

// Field is a gridSize × gridSize grid of complex cells, stored flat in
// row-major order. It is the dense interference pattern that plane-wave
// projection writes into. A Field is owned by exactly one Encoder or caller;
// nothing in this package shares one across goroutines.
type Field struct {
	gridSize int
	cells    []complex128
}

// NewField allocates a zeroed field. Non-positive sizes fall back to
// DefaultGridSize.
func NewField(gridSize int) *Field {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	return &Field{
		gridSize: gridSize,
		cells:    make([]complex128, gridSize*gridSize),
	}
}

// GridSize returns the edge length N.
func (f *Field) GridSize() int { return f.gridSize }

// At returns the cell at (x, y).
func (f *Field) At(x, y int) complex128 {
	return f.cells[y*f.gridSize+x]
}

// Zero resets every cell.
func (f *Field) Zero() {
	for i := range f.cells {
		f.cells[i] = 0
	}
}

// Clone returns an independent copy.
func (f *Field) Clone() *Field {
	out := &Field{gridSize: f.gridSize, cells: make([]complex128, len(f.cells))}
	copy(out.cells, f.cells)
	return out
}

// Superpose adds other into f cell-wise.
func (f *Field) Superpose(other *Field) error {
	if other.gridSize != f.gridSize {
		return fmt.Errorf("%w: have %d, got %d", ErrGridSizeMismatch, f.gridSize, other.gridSize)
	}
	for i := range f.cells {
		f.cells[i] += other.cells[i]
	}
	return nil
}

// Scale multiplies every cell by a real factor.
func (f *Field) Scale(factor float64) {
	c := complex(factor, 0)
	for i := range f.cells {
		f.cells[i] *= c
	}
}

// Subtract returns f − other as a new field. Used by the similarity
// comparator's diagnostic difference view.
func (f *Field) Subtract(other *Field) (*Field, error) {
	if other.gridSize != f.gridSize {
		return nil, fmt.Errorf("%w: have %d, got %d", ErrGridSizeMismatch, f.gridSize, other.gridSize)
	}
	out := NewField(f.gridSize)
	for i := range f.cells {
		out.cells[i] = f.cells[i] - other.cells[i]
	}
	return out, nil
}

// Intensity returns |H[x,y]|² per cell, row-major.
func (f *Field) Intensity() []float64 {
	out := make([]float64, len(f.cells))
	for i, c := range f.cells {
		re, im := real(c), imag(c)
		out[i] = re*re + im*im
	}
	return out
}

// RealPart returns Re(H[x,y]) per cell, row-major.
func (f *Field) RealPart() []float64 {
	out := make([]float64, len(f.cells))
	for i, c := range f.cells {
		out[i] = real(c)
	}
	return out
}

// PhasePattern returns arg(H[x,y]) per cell, row-major.
func (f *Field) PhasePattern() []float64 {
	out := make([]float64, len(f.cells))
	for i, c := range f.cells {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// TotalEnergy returns Σ|H[x,y]|².
func (f *Field) TotalEnergy() float64 {
	return floats.Sum(f.Intensity())
}

// Entropy returns the Shannon entropy (bits) of the normalized per-cell
// energy distribution. A field with no energy has entropy 0.
func (f *Field) Entropy() float64 {
	intensity := f.Intensity()
	total := floats.Sum(intensity)
	if total <= NormFloor {
		return 0
	}
	h := 0.0
	for _, v := range intensity {
		p := v / total
		if p > NormFloor {
			h -= p * math.Log2(p)
		}
	}
	return h
}

// CellSnapshot is one non-empty cell in a serialized field.
type CellSnapshot struct {
	X  int     `json:"x"`
	Y  int     `json:"y"`
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// FieldSnapshot is the sparse wire form of a field: only cells whose energy
// exceeds the floor are listed.
type FieldSnapshot struct {
	GridSize    int            `json:"gridSize"`
	Cells       []CellSnapshot `json:"cells"`
	TotalEnergy float64        `json:"totalEnergy"`
}

// Snapshot serializes the field sparsely.
func (f *Field) Snapshot() FieldSnapshot {
	snap := FieldSnapshot{GridSize: f.gridSize}
	for y := 0; y < f.gridSize; y++ {
		for x := 0; x < f.gridSize; x++ {
			c := f.cells[y*f.gridSize+x]
			re, im := real(c), imag(c)
			if re*re+im*im > NormFloor {
				snap.Cells = append(snap.Cells, CellSnapshot{X: x, Y: y, Re: re, Im: im})
			}
		}
	}
	snap.TotalEnergy = f.TotalEnergy()
	return snap
}

// LoadSnapshot replaces the field contents from a snapshot. The snapshot's
// grid size must match the field's; this is the single configuration error
// the subsystem surfaces to callers.
func (f *Field) LoadSnapshot(snap FieldSnapshot) error {
	if snap.GridSize != f.gridSize {
		return fmt.Errorf("%w: field is %d, snapshot is %d", ErrGridSizeMismatch, f.gridSize, snap.GridSize)
	}
	f.Zero()
	for _, c := range snap.Cells {
		if c.X < 0 || c.X >= f.gridSize || c.Y < 0 || c.Y >= f.gridSize {
			continue
		}
		f.cells[c.Y*f.gridSize+c.X] = complex(c.Re, c.Im)
	}
	return nil
}
