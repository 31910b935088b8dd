package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/duskforge/riftgate/pkg/catalog"
	"github.com/duskforge/riftgate/pkg/run"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rs := NewRedisStorage(mr.Addr(), t.TempDir(), testLogger())
	t.Cleanup(func() {
		if err := rs.Close(); err != nil {
			t.Errorf("Failed to close storage: %v", err)
		}
	})
	return rs, mr
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Encounter{
		{Key: "stormcaller", ArenaScene: "Arena_Stormcaller"},
		{Key: "gravekeeper", ArenaScene: "Arena_Gravekeeper"},
		{Key: "riftmaw", Finale: true, ArenaScene: "Arena_Riftmaw"},
	})
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return c
}

func TestRedisStorage_RunLifecycle(t *testing.T) {
	rs, _ := setupTestStorage(t)
	ctx := context.Background()

	if err := rs.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	cat := testCatalog(t)
	s := run.NewState(cat, "LV6TZ0")
	if err := s.MarkCleared("stormcaller"); err != nil {
		t.Fatalf("MarkCleared failed: %v", err)
	}

	if err := rs.SaveRun(ctx, s); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	loaded, err := rs.LoadRun(ctx, s.ID)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadRun returned nil for a saved run")
	}
	loaded.Bind(cat)

	if loaded.ID != s.ID || loaded.Seed != "LV6TZ0" {
		t.Errorf("loaded run does not match saved run: %+v", loaded)
	}
	if !loaded.HasCleared("stormcaller") {
		t.Error("cleared set lost in persistence round trip")
	}

	if err := rs.DeleteRun(ctx, s.ID); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	gone, err := rs.LoadRun(ctx, s.ID)
	if err != nil {
		t.Fatalf("LoadRun after delete failed: %v", err)
	}
	if gone != nil {
		t.Error("run should be gone after delete")
	}
}

func TestRedisStorage_LoadMissingRun(t *testing.T) {
	rs, _ := setupTestStorage(t)

	loaded, err := rs.LoadRun(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil for a missing run, got %+v", loaded)
	}
}

func TestRedisStorage_SaveRefreshesTTL(t *testing.T) {
	rs, mr := setupTestStorage(t)
	ctx := context.Background()

	s := run.NewState(testCatalog(t), "LV6TZ0")
	if err := rs.SaveRun(ctx, s); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	if ttl := mr.TTL("run:" + s.ID.String()); ttl <= 0 {
		t.Errorf("expected a positive TTL on the run key, got %v", ttl)
	}
}

func TestGetCatalog(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	dataDir := t.TempDir()
	catalogJSON := `{
		"encounters": [
			{"key": "stormcaller", "name": "The Stormcaller", "arena_scene": "Arena_Stormcaller"},
			{"key": "riftmaw", "name": "Riftmaw", "finale": true, "arena_scene": "Arena_Riftmaw"}
		]
	}`
	if err := os.WriteFile(filepath.Join(dataDir, "encounters.json"), []byte(catalogJSON), 0o644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	rs := NewRedisStorage(mr.Addr(), dataDir, testLogger())
	defer func() { _ = rs.Close() }()

	cat, err := rs.GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("GetCatalog failed: %v", err)
	}
	if cat.Finale().Key != "riftmaw" {
		t.Errorf("unexpected finale %q", cat.Finale().Key)
	}
	if got := len(cat.All()); got != 2 {
		t.Errorf("expected 2 encounters, got %d", got)
	}
}

func TestGetCatalog_RejectsUnknownFields(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	dataDir := t.TempDir()
	catalogJSON := `{"encounters": [{"key": "a", "arena_scene": "A", "hit_points": 100}]}`
	if err := os.WriteFile(filepath.Join(dataDir, "encounters.json"), []byte(catalogJSON), 0o644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	rs := NewRedisStorage(mr.Addr(), dataDir, testLogger())
	defer func() { _ = rs.Close() }()

	if _, err := rs.GetCatalog(context.Background()); err == nil {
		t.Error("expected error for unknown catalog field, got nil")
	}
}

func TestGetSceneGraph(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	dataDir := t.TempDir()
	graphJSON := `{
		"scenes": [
			{"name": "Hub", "in_build": true},
			{"name": "Arena_Stormcaller", "in_build": true}
		],
		"triggers": [
			{"scene": "Hub", "target": "Arena_Stormcaller", "activation_region": "EntryVolume"}
		]
	}`
	if err := os.WriteFile(filepath.Join(dataDir, "scenegraph.json"), []byte(graphJSON), 0o644); err != nil {
		t.Fatalf("failed to write scene graph file: %v", err)
	}

	rs := NewRedisStorage(mr.Addr(), dataDir, testLogger())
	defer func() { _ = rs.Close() }()

	doc, err := rs.GetSceneGraph(context.Background())
	if err != nil {
		t.Fatalf("GetSceneGraph failed: %v", err)
	}
	if len(doc.Scenes) != 2 || len(doc.Triggers) != 1 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestGetCatalog_Missing(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	rs := NewRedisStorage(mr.Addr(), t.TempDir(), testLogger())
	defer func() { _ = rs.Close() }()

	if _, err := rs.GetCatalog(context.Background()); err == nil {
		t.Error("expected error for missing catalog file, got nil")
	}
}
