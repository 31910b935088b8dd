package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/duskforge/riftgate/pkg/run"
	"github.com/duskforge/riftgate/pkg/storage"
)

// Run states expire if a run is abandoned; collaborators re-save on every
// clear, which refreshes the TTL.
const runTTL = 24 * time.Hour

// RedisStorage implements the Storage interface using Redis for run state
// and the filesystem for authored configuration (catalog, scene graph).
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance.
func NewRedisStorage(redisAddr string, dataDir string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  rdb,
		logger:  logger,
		dataDir: dataDir,
	}
}

// Client exposes the underlying Redis client for collaborators that share
// the connection, e.g. the event broadcaster.
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup).
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func runKey(id uuid.UUID) string {
	return "run:" + id.String()
}

// Run state operations (Redis-backed)

func (r *RedisStorage) SaveRun(ctx context.Context, s *run.State) error {
	s.UpdatedAt = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Error("Failed to marshal run state", "run_id", s.ID, "error", err)
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	if err := r.client.Set(ctx, runKey(s.ID), string(data), runTTL).Err(); err != nil {
		r.logger.Error("Failed to save run state", "run_id", s.ID, "error", err)
		return fmt.Errorf("failed to save run state: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadRun(ctx context.Context, id uuid.UUID) (*run.State, error) {
	cmd := r.client.Get(ctx, runKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Run state not found", "run_id", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load run state", "run_id", id, "error", err)
		return nil, fmt.Errorf("failed to load run state: %w", err)
	}

	var s run.State
	if err := json.Unmarshal([]byte(cmd.Val()), &s); err != nil {
		r.logger.Error("Failed to unmarshal run state", "run_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal run state: %w", err)
	}

	return &s, nil
}

func (r *RedisStorage) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, runKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete run state", "run_id", id, "error", err)
		return fmt.Errorf("failed to delete run state: %w", err)
	}
	return nil
}
