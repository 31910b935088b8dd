package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/duskforge/riftgate/pkg/convergence"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeRunCreated       EventType = "run.created"
	EventTypeEncounterCleared EventType = "encounter.cleared"
	EventTypeRunCompleted     EventType = "run.completed"
	EventTypeRunDeleted       EventType = "run.deleted"
)

// Event is the payload pushed to collaborators over Redis Pub/Sub.
// Gate objects subscribe to pick up barrier changes without polling.
type Event struct {
	Type      EventType                 `json:"type"`
	RunID     string                    `json:"run_id"`
	Encounter string                    `json:"encounter,omitempty"`
	Barrier   *convergence.BarrierState `json:"barrier,omitempty"`
}

// Broadcaster publishes run lifecycle events to Redis Pub/Sub.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// ChannelForRun returns the pub/sub channel name for a run.
func ChannelForRun(runID uuid.UUID) string {
	return fmt.Sprintf("run-events:%s", runID.String())
}

// PublishRunCreated publishes a run.created event
func (b *Broadcaster) PublishRunCreated(ctx context.Context, runID uuid.UUID) error {
	return b.publish(ctx, runID, Event{
		Type:  EventTypeRunCreated,
		RunID: runID.String(),
	})
}

// PublishEncounterCleared publishes an encounter.cleared event with the
// barrier state recomputed after the clear.
func (b *Broadcaster) PublishEncounterCleared(ctx context.Context, runID uuid.UUID, key string, barrier convergence.BarrierState) error {
	return b.publish(ctx, runID, Event{
		Type:      EventTypeEncounterCleared,
		RunID:     runID.String(),
		Encounter: key,
		Barrier:   &barrier,
	})
}

// PublishRunCompleted publishes a run.completed event
func (b *Broadcaster) PublishRunCompleted(ctx context.Context, runID uuid.UUID) error {
	return b.publish(ctx, runID, Event{
		Type:  EventTypeRunCompleted,
		RunID: runID.String(),
	})
}

// PublishRunDeleted publishes a run.deleted event
func (b *Broadcaster) PublishRunDeleted(ctx context.Context, runID uuid.UUID) error {
	return b.publish(ctx, runID, Event{
		Type:  EventTypeRunDeleted,
		RunID: runID.String(),
	})
}

func (b *Broadcaster) publish(ctx context.Context, runID uuid.UUID, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := ChannelForRun(runID)
	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "channel", channel, "type", event.Type, "error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Published event", "channel", channel, "type", event.Type)
	return nil
}
