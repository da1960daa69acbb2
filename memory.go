package holomem

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
)

// StoreConfig holds the associative memory parameters.
type StoreConfig struct {
	// MaxMemories caps the number of stored traces; exceeding it triggers
	// a prune by strength×(accessCount+1).
	MaxMemories int `yaml:"max_memories"`

	// RecallThreshold is the default minimum correlation for a recall hit.
	RecallThreshold float64 `yaml:"recall_threshold"`
}

// DefaultStoreConfig returns the standard store parameters.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		MaxMemories:     100,
		RecallThreshold: 0.3,
	}
}

// minStrength is the eviction floor: traces decayed to or below it are
// forgotten.
const minStrength = 0.1

// reinforcement is the strength bonus applied on every recall hit, capped
// at 1.0.
const reinforcement = 0.1

// Trace is one stored holographic encoding with its metadata, decaying
// strength and access statistics.
type Trace struct {
	ID          string
	Metadata    map[string]any
	CreatedAt   time.Time
	AccessCount int
	Strength    float64

	encoder *Encoder
}

// RecallResult is the winning trace of a Recall, with its state
// reconstructed from the stored field.
type RecallResult struct {
	ID       string
	State    State
	Metadata map[string]any
	Score    float64
	Strength float64
}

// Match is one entry of a FindSimilar result set.
type Match struct {
	ID       string
	Metadata map[string]any
	Score    float64
	Strength float64
}

// MemoryStore holds many encoded traces and retrieves them by correlation
// similarity against a cue pattern. Traces decay multiplicatively over time
// and are pruned by strength×(accessCount+1) when capacity is exceeded.
//
// Recall and FindSimilar are deliberately asymmetric: Recall is an ACCESS —
// it reinforces the winning trace's strength and access count — while
// FindSimilar is a read-only bulk QUERY that touches nothing. Callers that
// only want to look must use FindSimilar.
type MemoryStore struct {
	cfg     *Config
	smf     *FrequencyMap
	traces  []*Trace
	backend ComputeBackend
}

// NewMemoryStore builds an empty store. A nil config uses DefaultConfig.
func NewMemoryStore(cfg *Config) *MemoryStore {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &MemoryStore{
		cfg: cfg,
		smf: NewFrequencyMap(cfg.Primes, cfg.WavelengthScale),
	}
}

// SetBackend injects an optional compute backend used for scoring and for
// encoders minted by Store.
func (s *MemoryStore) SetBackend(b ComputeBackend) { s.backend = b }

// Len returns the number of stored traces.
func (s *MemoryStore) Len() int { return len(s.traces) }

// Traces returns the stored traces (shared metadata, no field copies).
func (s *MemoryStore) Traces() []*Trace { return s.traces }

// Store encodes the state into a fresh trace at full strength. Exceeding
// capacity prunes the weakest traces immediately.
func (s *MemoryStore) Store(state State, metadata map[string]any) *Trace {
	enc := s.newEncoder()
	enc.Project(state, true)

	tr := &Trace{
		ID:          uuid.NewString(),
		Metadata:    metadata,
		CreatedAt:   time.Now(),
		AccessCount: 1,
		Strength:    1.0,
		encoder:     enc,
	}
	s.traces = append(s.traces, tr)

	if len(s.traces) > s.cfg.Memory.MaxMemories {
		s.prune()
	}
	return tr
}

// Recall encodes the cue and returns the best-matching trace above the
// threshold, or nil. A non-positive threshold uses the configured default.
// A hit reinforces the trace: accessCount++ and strength +0.1 toward 1.0.
func (s *MemoryStore) Recall(cue State, threshold float64) *RecallResult {
	if threshold <= 0 {
		threshold = s.cfg.Memory.RecallThreshold
	}
	cueEnc := s.newEncoder()
	cueEnc.Project(cue, true)

	var best *Trace
	bestScore := 0.0
	for _, tr := range s.traces {
		score := Correlate(cueEnc, tr.encoder)
		if score >= threshold && score > bestScore {
			best, bestScore = tr, score
		}
	}
	if best == nil {
		return nil
	}

	best.AccessCount++
	best.Strength += reinforcement
	if best.Strength > 1.0 {
		best.Strength = 1.0
	}

	return &RecallResult{
		ID:       best.ID,
		State:    best.encoder.Reconstruct(),
		Metadata: best.Metadata,
		Score:    bestScore,
		Strength: best.Strength,
	}
}

// FindSimilar scores the cue against every trace and returns all matches at
// or above the threshold, sorted descending by score. Read-only: no
// reinforcement, no access counting.
func (s *MemoryStore) FindSimilar(cue State, threshold float64) []Match {
	if threshold <= 0 {
		threshold = s.cfg.Memory.RecallThreshold
	}
	cueEnc := s.newEncoder()
	cueEnc.Project(cue, true)

	var matches []Match
	for _, tr := range s.traces {
		score := Correlate(cueEnc, tr.encoder)
		if score >= threshold {
			matches = append(matches, Match{
				ID:       tr.ID,
				Metadata: tr.Metadata,
				Score:    score,
				Strength: tr.Strength,
			})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// Decay multiplies every trace's strength by (1−rate) and forgets traces at
// or below the strength floor. Returns the number forgotten. Decay(0) is
// the identity. Time-based forgetting, independent of capacity.
func (s *MemoryStore) Decay(rate float64) int {
	kept := s.traces[:0]
	dropped := 0
	for _, tr := range s.traces {
		tr.Strength *= 1 - rate
		if tr.Strength <= minStrength {
			dropped++
			continue
		}
		kept = append(kept, tr)
	}
	s.traces = kept
	return dropped
}

// prune keeps the top MaxMemories traces ranked by strength×(accessCount+1).
// Only invoked when capacity is exceeded.
func (s *MemoryStore) prune() {
	sort.Slice(s.traces, func(i, j int) bool {
		return retention(s.traces[i]) > retention(s.traces[j])
	})
	if len(s.traces) > s.cfg.Memory.MaxMemories {
		s.traces = s.traces[:s.cfg.Memory.MaxMemories]
	}
}

func retention(tr *Trace) float64 {
	return tr.Strength * float64(tr.AccessCount+1)
}

func (s *MemoryStore) newEncoder() *Encoder {
	enc := newEncoderShared(s.cfg, s.smf)
	enc.SetBackend(s.backend)
	return enc
}

// Correlate computes the normalized intensity correlation of two fields:
//
//	Σ(I_A·I_B) / (‖I_A‖·‖I_B‖)
//
// Intensity-based scoring is phase-insensitive and symmetric; the result is
// in [−1,1] (in practice [0,1] for non-negative intensities) and 0 when
// either norm is below the floor or the grids differ.
func Correlate(a, b *Encoder) float64 {
	ia, ib := a.field.Intensity(), b.field.Intensity()
	if len(ia) != len(ib) {
		return 0
	}
	if a.backend != nil {
		if v, err := a.backend.Correlate(ia, ib); err == nil {
			return v
		}
	}
	return correlateIntensity(ia, ib)
}

func correlateIntensity(ia, ib []float64) float64 {
	na := floats.Norm(ia, 2)
	nb := floats.Norm(ib, 2)
	if na <= NormFloor || nb <= NormFloor {
		return 0
	}
	return floats.Dot(ia, ib) / (na * nb)
}

// TraceSnapshot is the wire form of one stored trace.
type TraceSnapshot struct {
	ID          string         `json:"id,omitempty"`
	State       FieldSnapshot  `json:"state"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	AccessCount int            `json:"accessCount"`
	Strength    float64        `json:"strength"`
}

// BankSnapshot is the wire form of a whole memory bank.
type BankSnapshot struct {
	GridSize int             `json:"gridSize"`
	Primes   []int           `json:"primes"`
	Memories []TraceSnapshot `json:"memories"`
}

// ToJSON serializes the bank: grid size, prime set, and every trace's
// sparse field snapshot with its metadata and statistics.
func (s *MemoryStore) ToJSON() ([]byte, error) {
	bank := BankSnapshot{
		GridSize: s.cfg.GridSize,
		Primes:   s.smf.Primes(),
		Memories: make([]TraceSnapshot, 0, len(s.traces)),
	}
	for _, tr := range s.traces {
		bank.Memories = append(bank.Memories, TraceSnapshot{
			ID:          tr.ID,
			State:       tr.encoder.Snapshot(),
			Metadata:    tr.Metadata,
			Timestamp:   tr.CreatedAt,
			AccessCount: tr.AccessCount,
			Strength:    tr.Strength,
		})
	}
	return json.Marshal(bank)
}

// LoadJSON replaces the store contents from a serialized bank. The bank's
// grid size must match the store's configuration.
func (s *MemoryStore) LoadJSON(data []byte) error {
	var bank BankSnapshot
	if err := json.Unmarshal(data, &bank); err != nil {
		return fmt.Errorf("holomem: decode memory bank: %w", err)
	}
	if bank.GridSize != s.cfg.GridSize {
		return fmt.Errorf("%w: store is %d, bank is %d", ErrGridSizeMismatch, s.cfg.GridSize, bank.GridSize)
	}

	traces := make([]*Trace, 0, len(bank.Memories))
	for _, m := range bank.Memories {
		enc := s.newEncoder()
		if err := enc.LoadSnapshot(m.State); err != nil {
			return err
		}
		id := m.ID
		if id == "" {
			id = uuid.NewString()
		}
		traces = append(traces, &Trace{
			ID:          id,
			Metadata:    m.Metadata,
			CreatedAt:   m.Timestamp,
			AccessCount: m.AccessCount,
			Strength:    m.Strength,
			encoder:     enc,
		})
	}
	s.traces = traces
	return nil
}
