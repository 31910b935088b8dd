// Package director wires the progression pieces together for one run:
// catalog, run state, selection, convergence, and routing. Callers hold a
// Director by reference for the lifetime of a run; there are no globals.
package director

import (
	"github.com/duskforge/riftgate/pkg/catalog"
	"github.com/duskforge/riftgate/pkg/convergence"
	"github.com/duskforge/riftgate/pkg/routing"
	"github.com/duskforge/riftgate/pkg/run"
	"github.com/duskforge/riftgate/pkg/selection"
)

// Director is the run-scoped facade the scene-transition collaborators
// talk to. All methods are synchronous and single-threaded.
type Director struct {
	cat      *catalog.Catalog
	state    *run.State
	engine   *selection.Engine
	barriers *convergence.Controller
	resolver *routing.Resolver
}

// New starts a new run with the given seed.
func New(cat *catalog.Catalog, seed string) *Director {
	return Resume(cat, run.NewState(cat, seed))
}

// Resume wraps an existing run state, e.g. one loaded from storage.
// The state is bound to cat as a side effect.
func Resume(cat *catalog.Catalog, state *run.State) *Director {
	state.Bind(cat)
	engine := selection.NewEngine(cat)
	return &Director{
		cat:      cat,
		state:    state,
		engine:   engine,
		barriers: convergence.NewController(cat, engine),
		resolver: routing.NewResolver(cat),
	}
}

// State exposes the underlying run state, e.g. for persistence.
func (d *Director) State() *run.State {
	return d.state
}

// Preview reports which encounter the given side currently leads to,
// without committing anything. Used for UI hinting before the player
// passes a gate.
func (d *Director) Preview(side run.Side) run.BranchChoice {
	return d.engine.Preview(d.state, side)
}

// Select resolves the given side into a concrete route. The returned
// choice is empty when the side has nothing to offer (path closed, or the
// run is complete); that is a success value and the route is zero.
func (d *Director) Select(side run.Side, fastForward bool) (routing.Route, run.BranchChoice, error) {
	choice := d.engine.Select(d.state, side)
	if !choice.Some() {
		return routing.Route{}, choice, nil
	}
	route, err := d.resolver.Resolve(choice.Key, side, fastForward)
	if err != nil {
		return routing.Route{}, choice, err
	}
	return route, choice, nil
}

// Barrier reports which side gates should be open or closed right now.
func (d *Director) Barrier() convergence.BarrierState {
	return d.barriers.BarrierState(d.state)
}

// MarkCleared records a defeated encounter, reported by the gameplay loop.
func (d *Director) MarkCleared(key string) error {
	return d.state.MarkCleared(key)
}

// Complete reports whether the finale has been cleared.
func (d *Director) Complete() bool {
	return d.state.FinaleCleared()
}
