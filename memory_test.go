package holomem

import (
	"errors"
	"testing"
)

// storeConfig mirrors the reference deployment shape: a small grid and a
// prime set that leaves 97 unassigned, so a cue on it encodes to nothing.
func storeConfig() *Config {
	cfg := DefaultConfig()
	cfg.GridSize = 32
	cfg.Primes = []int{2, 3, 5, 7, 11, 13}
	cfg.WavelengthScale = 10
	return cfg
}

func TestMemoryStore_StoreAndRecall(t *testing.T) {
	store := NewMemoryStore(storeConfig())
	stored := store.Store(State{2: Real(1), 3: Real(0.5)}, map[string]any{"label": "two-three"})
	store.Store(State{5: Real(1), 7: Real(0.8)}, map[string]any{"label": "five-seven"})

	res := store.Recall(State{2: Real(1), 3: Real(0.5)}, 0.3)
	if res == nil {
		t.Fatal("Recall returned nil for an exact-state cue")
	}
	if res.ID != stored.ID {
		t.Errorf("recalled %q (%v), want %q", res.ID, res.Metadata["label"], stored.ID)
	}
	if res.Score < 0.99 {
		t.Errorf("exact-cue score = %v, want ≈1", res.Score)
	}
	if len(res.State) == 0 {
		t.Error("recall result carries no reconstructed state")
	}
}

func TestMemoryStore_PartialCueRecalls(t *testing.T) {
	// A cue carrying only one of the trace's components still correlates
	// well above the threshold: holographic storage is content-addressable
	// from fragments.
	store := NewMemoryStore(storeConfig())
	tr := store.Store(State{2: Real(1), 3: Real(0.5)}, map[string]any{"label": "two-three"})

	res := store.Recall(State{2: Real(1)}, 0.3)
	if res == nil {
		t.Fatal("partial cue missed")
	}
	if res.ID != tr.ID {
		t.Errorf("recalled %q, want %q", res.ID, tr.ID)
	}
	if res.Score < 0.3 {
		t.Errorf("partial-cue score = %v, want ≥ 0.3", res.Score)
	}
}

func TestMemoryStore_RecallMissUnassignedPrime(t *testing.T) {
	store := NewMemoryStore(storeConfig())
	store.Store(State{2: Real(1), 3: Real(0.5)}, nil)

	// 97 has no carrier in this configuration: the cue encodes to a zero
	// field, correlates at 0, and misses.
	if res := store.Recall(State{97: Real(1)}, 0.3); res != nil {
		t.Errorf("Recall on an unassigned prime returned %+v, want nil", res)
	}
}

func TestMemoryStore_RecallEmptyStore(t *testing.T) {
	store := NewMemoryStore(storeConfig())
	if res := store.Recall(State{2: Real(1)}, 0.3); res != nil {
		t.Errorf("Recall on empty store returned %+v, want nil", res)
	}
}

func TestMemoryStore_RecallReinforces(t *testing.T) {
	store := NewMemoryStore(storeConfig())
	tr := store.Store(State{2: Real(1)}, nil)
	store.Decay(0.3) // strength 1.0 → 0.7

	res := store.Recall(State{2: Real(1)}, 0.3)
	if res == nil {
		t.Fatal("Recall missed its own stored state")
	}
	if got := res.Strength; abs(got-0.8) > 1e-12 {
		t.Errorf("strength after recall = %v, want 0.8", got)
	}
	if tr.AccessCount != 2 {
		t.Errorf("access count = %d, want 2", tr.AccessCount)
	}

	// Reinforcement caps at 1.0.
	for i := 0; i < 5; i++ {
		store.Recall(State{2: Real(1)}, 0.3)
	}
	if tr.Strength > 1.0 {
		t.Errorf("strength overshot the cap: %v", tr.Strength)
	}
}

func TestMemoryStore_FindSimilarIsReadOnly(t *testing.T) {
	store := NewMemoryStore(storeConfig())
	tr := store.Store(State{2: Real(1), 3: Real(0.5)}, nil)
	store.Store(State{11: Real(1), 13: Real(0.6)}, nil)

	matches := store.FindSimilar(State{2: Real(1), 3: Real(0.5)}, 0.3)
	if len(matches) == 0 {
		t.Fatal("FindSimilar returned nothing for an exact-state cue")
	}
	if matches[0].ID != tr.ID {
		t.Errorf("best match = %q, want %q", matches[0].ID, tr.ID)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Error("matches not sorted descending by score")
		}
	}

	if tr.AccessCount != 1 || tr.Strength != 1.0 {
		t.Errorf("FindSimilar mutated trace: access=%d strength=%v",
			tr.AccessCount, tr.Strength)
	}
}

func TestMemoryStore_DecayIdentity(t *testing.T) {
	store := NewMemoryStore(storeConfig())
	store.Store(State{2: Real(1)}, nil)
	store.Store(State{3: Real(1)}, nil)
	AssertDecayIdentity(t, store)
}

func TestMemoryStore_DecayForgets(t *testing.T) {
	store := NewMemoryStore(storeConfig())
	store.Store(State{2: Real(1)}, nil)
	store.Store(State{3: Real(1)}, nil)

	// 1.0 → 0.05, at or below the 0.1 floor: both forgotten.
	if dropped := store.Decay(0.95); dropped != 2 {
		t.Errorf("Decay(0.95) dropped %d, want 2", dropped)
	}
	if store.Len() != 0 {
		t.Errorf("store still holds %d traces", store.Len())
	}
}

func TestMemoryStore_CapacityPrunes(t *testing.T) {
	cfg := storeConfig()
	cfg.Memory.MaxMemories = 5
	store := NewMemoryStore(cfg)

	primes := []int{2, 3, 5, 7, 11, 13}
	for i := 0; i < 10; i++ {
		store.Store(State{primes[i%len(primes)]: Real(1)}, map[string]any{"i": i})
		AssertCapacityInvariant(t, store, cfg.Memory.MaxMemories)
	}
	if store.Len() != 5 {
		t.Errorf("final store size = %d, want 5", store.Len())
	}
}

func TestMemoryStore_PruneKeepsRetained(t *testing.T) {
	cfg := storeConfig()
	cfg.Memory.MaxMemories = 2
	store := NewMemoryStore(cfg)

	keeper := store.Store(State{2: Real(1)}, nil)
	keeper.AccessCount = 10 // heavily accessed
	store.Store(State{3: Real(1)}, nil)
	store.Store(State{5: Real(1)}, nil) // triggers prune

	found := false
	for _, tr := range store.Traces() {
		if tr.ID == keeper.ID {
			found = true
		}
	}
	if !found {
		t.Error("prune evicted the highest-retention trace")
	}
	if store.Len() != 2 {
		t.Errorf("store size after prune = %d, want 2", store.Len())
	}
}

func TestMemoryStore_CorrelationSymmetry(t *testing.T) {
	cfg := storeConfig()
	a := NewEncoder(cfg)
	b := NewEncoder(cfg)
	a.Project(State{2: Real(1), 3: Real(0.5)}, true)
	b.Project(State{5: Real(1), 7: Real(0.3)}, true)
	AssertCorrelationSymmetry(t, a, b)
}

func TestCorrelate_DegenerateInputs(t *testing.T) {
	cfg := storeConfig()
	empty := NewEncoder(cfg)
	full := NewEncoder(cfg)
	full.Project(State{2: Real(1)}, true)

	if got := Correlate(empty, full); got != 0 {
		t.Errorf("correlation with zero field = %v, want 0", got)
	}

	other := DefaultConfig()
	other.GridSize = 16
	small := NewEncoder(other)
	small.Project(State{2: Real(1)}, true)
	if got := Correlate(small, full); got != 0 {
		t.Errorf("correlation across grids = %v, want 0", got)
	}
}

func TestMemoryStore_JSONRoundTrip(t *testing.T) {
	cfg := storeConfig()
	store := NewMemoryStore(cfg)
	tr := store.Store(State{2: Real(1), 3: Real(0.5)}, map[string]any{"label": "two-three"})
	store.Store(State{5: Real(1)}, nil)

	data, err := store.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	restored := NewMemoryStore(storeConfig())
	if err := restored.LoadJSON(data); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if restored.Len() != 2 {
		t.Fatalf("restored %d traces, want 2", restored.Len())
	}

	res := restored.Recall(State{2: Real(1), 3: Real(0.5)}, 0.3)
	if res == nil {
		t.Fatal("restored store failed to recall")
	}
	if res.ID != tr.ID {
		t.Errorf("restored trace id = %q, want %q", res.ID, tr.ID)
	}
	if res.Metadata["label"] != "two-three" {
		t.Errorf("restored metadata = %v", res.Metadata)
	}
}

func TestMemoryStore_LoadJSONGridMismatch(t *testing.T) {
	store := NewMemoryStore(storeConfig())
	store.Store(State{2: Real(1)}, nil)
	data, err := store.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	other := storeConfig()
	other.GridSize = 64
	target := NewMemoryStore(other)
	if err := target.LoadJSON(data); !errors.Is(err, ErrGridSizeMismatch) {
		t.Errorf("LoadJSON mismatch error = %v, want ErrGridSizeMismatch", err)
	}
}

func TestMemoryStore_DefaultThreshold(t *testing.T) {
	store := NewMemoryStore(storeConfig())
	store.Store(State{2: Real(1), 3: Real(0.5)}, nil)

	// Threshold ≤ 0 falls back to the configured 0.3.
	if res := store.Recall(State{2: Real(1), 3: Real(0.5)}, 0); res == nil {
		t.Error("Recall with default threshold missed an exact cue")
	}
}
