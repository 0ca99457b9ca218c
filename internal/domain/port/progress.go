package port

import (
	"context"

	"github.com/digitalprobr/supoclip/internal/domain/entity"
)

// ProgressStore persists the latest progress snapshot per task and broadcasts
// it to live subscribers. Get returns (nil, nil) when no snapshot exists or
// the retention window has elapsed.
type ProgressStore interface {
	Update(ctx context.Context, taskID string, progress int, message string) error
	Complete(ctx context.Context, taskID string, message string) error
	Fail(ctx context.Context, taskID string, message string) error
	Get(ctx context.Context, taskID string) (*entity.ProgressSnapshot, error)
}
