package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/duskforge/riftgate/pkg/catalog"
	"github.com/duskforge/riftgate/pkg/scenegraph"
)

// Authored configuration (filesystem-backed)

const (
	catalogFile    = "encounters.json"
	sceneGraphFile = "scenegraph.json"
)

// catalogDocument is the on-disk layout of the encounter catalog.
type catalogDocument struct {
	Encounters []catalog.Encounter `json:"encounters"`
}

// GetCatalog loads and validates the encounter catalog from the data dir.
// A malformed catalog (zero or multiple finales, duplicate keys) is fatal
// and should abort startup.
func (r *RedisStorage) GetCatalog(ctx context.Context) (*catalog.Catalog, error) {
	path := filepath.Join(r.dataDir, catalogFile)
	r.logger.Debug("Loading encounter catalog", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("encounter catalog not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read encounter catalog: %w", err)
	}

	var doc catalogDocument
	if err := strictDecode(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode encounter catalog: %w", err)
	}

	cat, err := catalog.New(doc.Encounters)
	if err != nil {
		return nil, fmt.Errorf("invalid encounter catalog: %w", err)
	}
	return cat, nil
}

// GetSceneGraph loads the scene-graph document from the data dir.
func (r *RedisStorage) GetSceneGraph(ctx context.Context) (scenegraph.Document, error) {
	path := filepath.Join(r.dataDir, sceneGraphFile)
	r.logger.Debug("Loading scene graph", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return scenegraph.Document{}, fmt.Errorf("scene graph not found: %s", path)
		}
		return scenegraph.Document{}, fmt.Errorf("failed to read scene graph: %w", err)
	}

	var doc scenegraph.Document
	if err := strictDecode(data, &doc); err != nil {
		return scenegraph.Document{}, fmt.Errorf("failed to decode scene graph: %w", err)
	}
	return doc, nil
}

// strictDecode unmarshals JSON rejecting unknown fields, so typos in
// authored configuration surface as load errors instead of silent nulls.
func strictDecode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
