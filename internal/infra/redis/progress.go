package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/digitalprobr/supoclip/internal/domain/entity"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "progress:"

	// Snapshots expire an hour after the last write; every write resets
	// the window.
	retention = 3600 * time.Second
)

// Store persists the latest progress snapshot per task and broadcasts every
// write to the task's topic. The stored key is the durable source of truth;
// pub/sub delivery is best-effort with no retained history. The client is
// pooled, so one Store serves all jobs in the process.
type Store struct {
	client *goredis.Client
	logger *zap.Logger
}

func NewStore(client *goredis.Client, logger *zap.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Update writes the snapshot for taskID with status "processing" and
// publishes the identical payload to the task's topic. Concurrent updates
// for the same task are not serialized: last write wins.
func (s *Store) Update(ctx context.Context, taskID string, progress int, message string) error {
	return s.write(ctx, taskID, progress, message, entity.ProgressStatusProcessing)
}

// Complete marks the task finished: progress 100, status "completed".
func (s *Store) Complete(ctx context.Context, taskID string, message string) error {
	return s.write(ctx, taskID, 100, message, entity.ProgressStatusCompleted)
}

// Fail marks the task failed: progress 0, status "error".
func (s *Store) Fail(ctx context.Context, taskID string, message string) error {
	return s.write(ctx, taskID, 0, message, entity.ProgressStatusError)
}

// Get returns the current snapshot for taskID, or (nil, nil) if none was
// ever written or the retention window has elapsed.
func (s *Store) Get(ctx context.Context, taskID string) (*entity.ProgressSnapshot, error) {
	data, err := s.client.Get(ctx, keyPrefix+taskID).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress %s: %w", taskID, err)
	}

	var snap entity.ProgressSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode progress %s: %w", taskID, err)
	}
	return &snap, nil
}

func (s *Store) write(ctx context.Context, taskID string, progress int, message string, status entity.ProgressStatus) error {
	snap := entity.ProgressSnapshot{
		TaskID:   taskID,
		Progress: progress,
		Message:  message,
		Status:   status,
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode progress %s: %w", taskID, err)
	}

	key := keyPrefix + taskID
	if err := s.client.Set(ctx, key, payload, retention).Err(); err != nil {
		return fmt.Errorf("store progress %s: %w", taskID, err)
	}
	if err := s.client.Publish(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("publish progress %s: %w", taskID, err)
	}

	s.logger.Debug("progress update",
		zap.String("task_id", taskID),
		zap.Int("progress", progress),
		zap.String("message", message),
		zap.String("status", string(status)),
	)
	return nil
}
