package port

import (
	"context"

	"github.com/digitalprobr/supoclip/internal/domain/entity"
	"github.com/google/uuid"
)

type ClipJobRepository interface {
	Create(ctx context.Context, job *entity.ClipJob) error
	Update(ctx context.Context, job *entity.ClipJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ClipJob, error)
}
