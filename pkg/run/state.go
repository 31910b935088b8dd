package run

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/duskforge/riftgate/pkg/catalog"
)

// State is the mutable record of a single run: which encounters have been
// cleared so far, and the seed that makes every branch draw reproducible.
// A State is owned by exactly one run and is never shared across goroutines.
type State struct {
	ID        uuid.UUID `json:"id"`
	Seed      string    `json:"seed"`
	Cleared   []string  `json:"cleared,omitempty"` // kept sorted for stable serialization
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	cat     *catalog.Catalog
	cleared map[string]struct{}
	pool    []string // non-finale keys not yet cleared, sorted
}

// NewState starts a fresh run against cat with the given seed.
func NewState(cat *catalog.Catalog, seed string) *State {
	s := &State{
		ID:        uuid.New(),
		Seed:      seed,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.Bind(cat)
	return s
}

// Bind attaches the catalog and rebuilds derived state. It must be called
// after a State is decoded from storage, before any other method.
func (s *State) Bind(cat *catalog.Catalog) {
	s.cat = cat
	s.cleared = make(map[string]struct{}, len(s.Cleared))
	for _, k := range s.Cleared {
		s.cleared[k] = struct{}{}
	}
	sort.Strings(s.Cleared)
	s.rebuildPool()
}

// Reset discards all progress and restarts the run with a new seed.
// This is the supported seam for tests and debug tooling; it replaces
// any need to reach into private fields.
func (s *State) Reset(seed string) {
	s.Seed = seed
	s.Cleared = nil
	s.cleared = make(map[string]struct{})
	s.UpdatedAt = time.Now()
	s.rebuildPool()
}

// MarkCleared records that the encounter identified by key has been
// defeated. Re-marking an already cleared key is a no-op.
func (s *State) MarkCleared(key string) error {
	if !s.cat.Has(key) {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownEncounter, key)
	}
	if _, done := s.cleared[key]; done {
		return nil
	}
	s.cleared[key] = struct{}{}
	s.Cleared = append(s.Cleared, key)
	sort.Strings(s.Cleared)
	s.UpdatedAt = time.Now()
	s.rebuildPool()
	return nil
}

// HasCleared reports whether key has been marked cleared.
func (s *State) HasCleared(key string) bool {
	_, done := s.cleared[key]
	return done
}

// ClearedCount returns the number of cleared encounters, optionally
// excluding the finale.
func (s *State) ClearedCount(excludingFinale bool) int {
	n := len(s.cleared)
	if excludingFinale && s.HasCleared(s.cat.Finale().Key) {
		n--
	}
	return n
}

// FinaleCleared reports whether the finale encounter has been defeated.
func (s *State) FinaleCleared() bool {
	return s.HasCleared(s.cat.Finale().Key)
}

// Pool returns the non-finale encounter keys still available for selection,
// in sorted order. The returned slice must not be modified.
func (s *State) Pool() []string {
	return s.pool
}

// Catalog returns the catalog this state is bound to.
func (s *State) Catalog() *catalog.Catalog {
	return s.cat
}

func (s *State) rebuildPool() {
	keys := s.cat.NonFinaleKeys()
	pool := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, done := s.cleared[k]; !done {
			pool = append(pool, k)
		}
	}
	sort.Strings(pool)
	s.pool = pool
}
