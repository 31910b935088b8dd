package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/duskforge/riftgate/pkg/catalog"
	"github.com/duskforge/riftgate/pkg/run"
	"github.com/duskforge/riftgate/pkg/scenegraph"
)

// Storage defines a unified interface for all storage operations.
// Run state lives in Redis; authored configuration (the encounter catalog
// and the scene-graph document) is loaded from the filesystem data dir.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Run state operations (Redis-backed)
	SaveRun(ctx context.Context, s *run.State) error
	// LoadRun returns nil when no run exists for the ID. The returned
	// state is not yet bound to a catalog.
	LoadRun(ctx context.Context, id uuid.UUID) (*run.State, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error

	// Authored configuration (filesystem-backed)
	GetCatalog(ctx context.Context) (*catalog.Catalog, error)
	GetSceneGraph(ctx context.Context) (scenegraph.Document, error)
}
