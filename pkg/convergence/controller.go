// Package convergence decides which branch gates are physically open or
// closed, funneling a run toward the finale once the encounter pool runs
// low. Barrier values are derived from run state on every query; nothing
// here is cached, so a gate can never show a stale state after a clear.
package convergence

import (
	"github.com/duskforge/riftgate/pkg/catalog"
	"github.com/duskforge/riftgate/pkg/run"
	"github.com/duskforge/riftgate/pkg/selection"
)

// BarrierState tells the level's gate objects which sides to block.
// It is a pure function of run progress, never independent state.
type BarrierState struct {
	LeftBlocked  bool `json:"left_blocked"`
	RightBlocked bool `json:"right_blocked"`
}

// Open reports whether the given side is passable.
func (b BarrierState) Open(side run.Side) bool {
	if side == run.Left {
		return !b.LeftBlocked
	}
	return !b.RightBlocked
}

// OpenSide returns the single open side when exactly one side is blocked.
// The bool result is false while both sides are open.
func (b BarrierState) OpenSide() (run.Side, bool) {
	switch {
	case b.LeftBlocked && !b.RightBlocked:
		return run.Right, true
	case b.RightBlocked && !b.LeftBlocked:
		return run.Left, true
	default:
		return "", false
	}
}

// Controller computes barrier states. Total over all valid run states;
// it has no error path.
type Controller struct {
	cat    *catalog.Catalog
	engine *selection.Engine
}

func NewController(cat *catalog.Catalog, engine *selection.Engine) *Controller {
	return &Controller{cat: cat, engine: engine}
}

// BarrierState reports which sides are blocked for the current state.
//
// While two or more regular encounters remain, both sides stay open. From
// the point where at most one remains, the side that has no encounter to
// offer is blocked, which routes the player through the last regular
// encounter and then the finale. Both sides are never blocked at once.
// After the finale is cleared the values are unused; both read as open.
func (c *Controller) BarrierState(s *run.State) BarrierState {
	if s.FinaleCleared() {
		return BarrierState{}
	}

	remaining := len(c.cat.NonFinaleKeys()) - s.ClearedCount(true)
	if remaining > 1 {
		return BarrierState{}
	}

	return BarrierState{
		LeftBlocked:  !c.engine.Preview(s, run.Left).Some(),
		RightBlocked: !c.engine.Preview(s, run.Right).Some(),
	}
}
