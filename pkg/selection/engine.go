// Package selection implements the deterministic branch draw: given a run
// state and a side, it picks the next encounter from the remaining pool.
// The draw is a pure function of (seed, side, cleared set), so previews are
// stable until an encounter is actually cleared, and the two sides of a
// visit can never resolve to the same encounter.
package selection

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/duskforge/riftgate/pkg/catalog"
	"github.com/duskforge/riftgate/pkg/run"
)

// Engine selects encounters for branch points. It holds no mutable state;
// all results derive from the catalog and the run.State passed in.
type Engine struct {
	cat *catalog.Catalog
}

func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Preview returns the encounter that side will offer for the current state.
// It is safe to call repeatedly: the result only changes when the cleared
// set changes. Select is the same computation; choosing an encounter does
// not commit anything, clearing does.
func (e *Engine) Preview(s *run.State, side run.Side) run.BranchChoice {
	if s.FinaleCleared() {
		// Run complete. Both sides report no choice.
		return run.BranchChoice{}
	}

	pool := s.Pool()
	prio := e.PrioritySide(s)

	if len(pool) == 0 {
		// All non-finale encounters cleared: the open side routes to the
		// finale, the other side stays empty and gets barred.
		if side == prio {
			return run.BranchChoice{Key: e.cat.Finale().Key}
		}
		return run.BranchChoice{}
	}

	prioPick := pool[e.draw(s, prio, len(pool))]
	if side == prio {
		return run.BranchChoice{Key: prioPick}
	}

	rest := withoutKey(pool, prioPick)
	if len(rest) == 0 {
		// Only one encounter left; the priority side has claimed it.
		return run.BranchChoice{}
	}
	return run.BranchChoice{Key: rest[e.draw(s, side, len(rest))]}
}

// Select is Preview by another name: the choice for a visit is fixed by the
// run state, and gameplay commits it separately via State.MarkCleared.
func (e *Engine) Select(s *run.State, side run.Side) run.BranchChoice {
	return e.Preview(s, side)
}

// PrioritySide returns the side that draws first for the current visit.
// When only one encounter (or only the finale) remains, this is the side
// that stays open.
func (e *Engine) PrioritySide(s *run.State) run.Side {
	h := xxhash.Sum64String(s.Seed + "|visit|" + strconv.Itoa(s.ClearedCount(true)))
	if h%2 == 0 {
		return run.Left
	}
	return run.Right
}

// draw maps (seed, side, cleared count) onto an index in [0, n).
func (e *Engine) draw(s *run.State, side run.Side, n int) int {
	h := xxhash.Sum64String(s.Seed + "|" + side.String() + "|" + strconv.Itoa(s.ClearedCount(true)))
	return int(h % uint64(n))
}

func withoutKey(pool []string, key string) []string {
	rest := make([]string, 0, len(pool)-1)
	for _, k := range pool {
		if k != key {
			rest = append(rest, k)
		}
	}
	return rest
}
