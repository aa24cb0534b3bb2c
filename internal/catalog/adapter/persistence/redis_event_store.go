package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/catalog/domain/repository"
	"v5c-properties/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// RedisEventStore keeps recent change events in a capped Redis stream so that
// any instance can serve the history regardless of which one handled the write.
type RedisEventStore struct {
	client    *redis.Client
	stream    string
	maxLength int64
	logger    logger.Logger
}

var _ repository.EventStore = (*RedisEventStore)(nil)

// NewRedisEventStore creates a new Redis-based event store
func NewRedisEventStore(client *redis.Client, stream string, maxLength int64, log logger.Logger) *RedisEventStore {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisEventStore{
		client:    client,
		stream:    stream,
		maxLength: maxLength,
		logger:    log.WithComponent("redis-event-store"),
	}
}

// Append adds an event to the stream, trimming it to roughly maxLength entries.
func (r *RedisEventStore) Append(ctx context.Context, event model.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize change event: %w", err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			"type":       string(event.Type),
			"resource":   event.Resource,
			"documentId": event.DocumentID,
			"event":      payload,
		},
	}).Result()
	if err != nil {
		r.logger.WithFields(map[string]interface{}{
			"stream":   r.stream,
			"resource": event.Resource,
			"error":    err.Error(),
		}).Error("Failed to append change event")
		return err
	}

	r.logger.WithFields(map[string]interface{}{
		"stream":    r.stream,
		"stream_id": id,
		"type":      string(event.Type),
	}).Debug("Change event appended")
	return nil
}

// Recent returns up to limit events, newest first.
func (r *RedisEventStore) Recent(ctx context.Context, limit int64) ([]model.ChangeEvent, error) {
	messages, err := r.client.XRevRangeN(ctx, r.stream, "+", "-", limit).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.ChangeEvent{}, nil
		}
		return nil, err
	}

	events := make([]model.ChangeEvent, 0, len(messages))
	for _, msg := range messages {
		event, err := parseChangeEvent(msg)
		if err != nil {
			r.logger.Warnf("Skipping unreadable stream entry %s: %v", msg.ID, err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Ping checks the Redis connection.
func (r *RedisEventStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func parseChangeEvent(msg redis.XMessage) (model.ChangeEvent, error) {
	var event model.ChangeEvent
	raw, ok := msg.Values["event"].(string)
	if !ok {
		return event, fmt.Errorf("entry has no event payload")
	}
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return event, err
	}
	return event, nil
}
