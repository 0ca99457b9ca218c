package postgres

import (
	"context"
	"fmt"

	"github.com/digitalprobr/supoclip/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClipJobRepository struct {
	pool *pgxpool.Pool
}

func NewClipJobRepository(pool *pgxpool.Pool) *ClipJobRepository {
	return &ClipJobRepository{pool: pool}
}

func (r *ClipJobRepository) Create(ctx context.Context, job *entity.ClipJob) error {
	query := `
		INSERT INTO clip_jobs (
			id, url, source_type, title, font_family, font_size, font_color,
			status, segment_count, clip_count, summary, error_message,
			created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`

	_, err := r.pool.Exec(ctx, query,
		job.ID, job.URL, string(job.SourceType), job.Title,
		job.Options.FontFamily, job.Options.FontSize, job.Options.FontColor,
		string(job.Status), job.SegmentCount, job.ClipCount,
		job.Summary, job.ErrorMessage,
		job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert clip job: %w", err)
	}
	return nil
}

func (r *ClipJobRepository) Update(ctx context.Context, job *entity.ClipJob) error {
	query := `
		UPDATE clip_jobs SET
			status=$2, title=$3, segment_count=$4, clip_count=$5,
			summary=$6, error_message=$7, updated_at=$8, completed_at=$9
		WHERE id=$1`

	_, err := r.pool.Exec(ctx, query,
		job.ID, string(job.Status), job.Title, job.SegmentCount,
		job.ClipCount, job.Summary, job.ErrorMessage,
		job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update clip job: %w", err)
	}
	return nil
}

func (r *ClipJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ClipJob, error) {
	query := `
		SELECT id, url, source_type, title, font_family, font_size, font_color,
			status, segment_count, clip_count, summary, error_message,
			created_at, updated_at, completed_at
		FROM clip_jobs WHERE id=$1`

	job := &entity.ClipJob{}
	var sourceType, status string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.URL, &sourceType, &job.Title,
		&job.Options.FontFamily, &job.Options.FontSize, &job.Options.FontColor,
		&status, &job.SegmentCount, &job.ClipCount,
		&job.Summary, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find clip job by id: %w", err)
	}
	job.SourceType = entity.SourceType(sourceType)
	job.Status = entity.JobStatus(status)
	return job, nil
}
