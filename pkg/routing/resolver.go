// Package routing turns a selected encounter into the concrete scene route
// the loader should take: straight to the arena in fast-forward mode, or
// through the side's approach scene otherwise.
package routing

import (
	"fmt"
	"strings"

	"github.com/duskforge/riftgate/pkg/catalog"
	"github.com/duskforge/riftgate/pkg/run"
)

// RouteKind discriminates the two route shapes.
type RouteKind string

const (
	Direct RouteKind = "direct" // straight to the encounter arena
	Via    RouteKind = "via"    // through an intermediate transition scene
)

// Route is a resolved destination handed to the external scene loader.
type Route struct {
	Kind  RouteKind `json:"kind"`
	Scene string    `json:"scene"`
}

// Resolver maps (encounter, side, fast-forward) onto a Route. Stateless.
type Resolver struct {
	cat *catalog.Catalog
}

func NewResolver(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat}
}

// Resolve builds the route for the chosen encounter. With fastForward set
// the route goes directly to the arena; otherwise it goes through the
// side's transition scene, e.g. "Left/stormcaller_Connection1". An
// encounter may author its own transition template using a "{side}"
// placeholder for the side folder.
func (r *Resolver) Resolve(key string, side run.Side, fastForward bool) (Route, error) {
	e, err := r.cat.Get(key)
	if err != nil {
		return Route{}, err
	}

	if fastForward {
		return Route{Kind: Direct, Scene: e.ArenaScene}, nil
	}

	if e.TransitionScene != "" {
		return Route{Kind: Via, Scene: strings.ReplaceAll(e.TransitionScene, "{side}", side.Folder())}, nil
	}
	return Route{Kind: Via, Scene: fmt.Sprintf("%s/%s_Connection1", side.Folder(), e.Key)}, nil
}
