package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/duskforge/riftgate/pkg/catalog"
	"github.com/duskforge/riftgate/pkg/run"
	"github.com/duskforge/riftgate/pkg/scenegraph"
)

// MockStorage is an in-memory Storage implementation for tests.
type MockStorage struct {
	mu         sync.RWMutex
	runs       map[uuid.UUID]*run.State
	cat        *catalog.Catalog
	graph      scenegraph.Document
	pingError  error
	saveError  error
	loadError  error
	catalogErr error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		runs: make(map[uuid.UUID]*run.State),
	}
}

// SetCatalog configures the catalog returned by GetCatalog.
func (m *MockStorage) SetCatalog(cat *catalog.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cat = cat
}

// SetSceneGraph configures the document returned by GetSceneGraph.
func (m *MockStorage) SetSceneGraph(doc scenegraph.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.graph = doc
}

// SetPingError configures the mock to fail on ping with the given error.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on SaveRun with the given error.
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetLoadError configures the mock to fail on LoadRun with the given error.
func (m *MockStorage) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
}

// SetCatalogError configures the mock to fail on GetCatalog.
func (m *MockStorage) SetCatalogError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogErr = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveRun(ctx context.Context, s *run.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.runs[s.ID] = s
	return nil
}

func (m *MockStorage) LoadRun(ctx context.Context, id uuid.UUID) (*run.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadError != nil {
		return nil, m.loadError
	}
	return m.runs[id], nil
}

func (m *MockStorage) DeleteRun(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, id)
	return nil
}

func (m *MockStorage) GetCatalog(ctx context.Context) (*catalog.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.catalogErr != nil {
		return nil, m.catalogErr
	}
	return m.cat, nil
}

func (m *MockStorage) GetSceneGraph(ctx context.Context) (scenegraph.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.graph, nil
}
