package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/digitalprobr/supoclip/internal/bridge"
	"github.com/digitalprobr/supoclip/internal/domain/entity"
	"github.com/digitalprobr/supoclip/internal/domain/port"
	"github.com/digitalprobr/supoclip/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultTitle is used when title retrieval fails. Title fetch is a side
// operation, not a pipeline stage; it is the only tolerated failure.
const DefaultTitle = "YouTube Video"

// ProgressFunc reports a stage checkpoint. It may itself block, e.g. on a
// store write; the orchestrator waits for each report before starting the
// next stage. A nil ProgressFunc means no reporting.
type ProgressFunc func(ctx context.Context, progress int, message string) error

type ProcessClipsUseCase struct {
	downloader  port.VideoDownloader
	transcriber port.Transcriber
	analyzer    port.TranscriptAnalyzer
	renderer    port.ClipRenderer
	progress    port.ProgressStore
	repo        port.ClipJobRepository
	storage     port.ClipStorage
	dlq         port.DLQPublisher
	notifier    port.FailureNotifier
	bridge      *bridge.Bridge
	logger      *zap.Logger
	tempDir     string
}

type ProcessClipsConfig struct {
	TempDir string
}

func NewProcessClipsUseCase(
	downloader port.VideoDownloader,
	transcriber port.Transcriber,
	analyzer port.TranscriptAnalyzer,
	renderer port.ClipRenderer,
	progress port.ProgressStore,
	repo port.ClipJobRepository,
	storage port.ClipStorage,
	dlq port.DLQPublisher,
	notifier port.FailureNotifier,
	br *bridge.Bridge,
	logger *zap.Logger,
	cfg ProcessClipsConfig,
) *ProcessClipsUseCase {
	return &ProcessClipsUseCase{
		downloader:  downloader,
		transcriber: transcriber,
		analyzer:    analyzer,
		renderer:    renderer,
		progress:    progress,
		repo:        repo,
		storage:     storage,
		dlq:         dlq,
		notifier:    notifier,
		bridge:      br,
		logger:      logger,
		tempDir:     cfg.TempDir,
	}
}

// Execute is the handler registered with the queue runtime. Poison payloads
// go to the DLQ and are acked; any other failure propagates so the runtime
// applies its retry policy.
func (uc *ProcessClipsUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessClipsUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.ClipRequestMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	taskID := msg.TaskID.String()
	span.SetAttributes(
		attribute.String("task.id", taskID),
		attribute.String("task.url", msg.URL),
	)

	log := uc.logger.With(zap.String("task_id", taskID), zap.String("url", msg.URL))

	job, err := uc.repo.FindByID(ctx, msg.TaskID)
	if err != nil {
		job = entity.NewClipJob(msg.TaskID, msg.URL, entity.ParseSourceType(msg.SourceType, msg.URL), msg.RenderOptions())
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveJobs.Inc()
	defer metrics.ActiveJobs.Dec()

	report := func(ctx context.Context, progress int, message string) error {
		if progress >= 100 {
			return uc.progress.Complete(ctx, taskID, message)
		}
		return uc.progress.Update(ctx, taskID, progress, message)
	}

	result, err := uc.Run(ctx, job, report)
	if err != nil {
		log.Error("pipeline failed", zap.Error(err))

		job.MarkFailed(err.Error())
		_ = uc.repo.Update(ctx, job)

		if ferr := uc.progress.Fail(ctx, taskID, err.Error()); ferr != nil {
			log.Error("failed to write error snapshot", zap.Error(ferr))
		}
		if msg.NotifyEmail != "" {
			_ = uc.notifier.NotifyFailure(ctx, msg.NotifyEmail, taskID, msg.URL, err.Error())
		}

		metrics.JobsProcessedTotal.WithLabelValues("failed").Inc()
		return err
	}

	uc.publishClips(ctx, taskID, result, log)

	job.MarkCompleted(result.Title, len(result.Segments), len(result.Clips), result.Summary)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.StageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	log.Info("job completed successfully",
		zap.Int("segments", len(result.Segments)),
		zap.Int("clips", len(result.Clips)),
		zap.String("title", result.Title),
	)
	return nil
}

// Run drives the four pipeline stages for one job and reports fixed
// checkpoints: 10 acquire, 30 transcribe, 50 analyze, 70 render, 100 done.
// Blocking collaborators go through the bridge; a stage failure aborts the
// run and no partial result is returned.
func (uc *ProcessClipsUseCase) Run(ctx context.Context, job *entity.ClipJob, report ProgressFunc) (*entity.PipelineResult, error) {
	if report == nil {
		report = func(context.Context, int, string) error { return nil }
	}

	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessClipsUseCase.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("task.id", job.ID.String()),
		attribute.String("task.source_type", string(job.SourceType)),
	)

	// Stage 1: acquire
	if err := report(ctx, 10, "Downloading video..."); err != nil {
		return nil, fmt.Errorf("report progress: %w", err)
	}

	acquireStart := time.Now()
	ctx1, spanAcq := tracer.Start(ctx, "acquire_video")
	videoPath, err := uc.acquire(ctx1, job)
	spanAcq.End()
	if err != nil {
		return nil, err
	}
	metrics.StageDuration.WithLabelValues("acquire").Observe(time.Since(acquireStart).Seconds())

	title := uc.videoTitle(ctx, job)

	// Stage 2: transcribe
	if err := report(ctx, 30, "Generating transcript..."); err != nil {
		return nil, fmt.Errorf("report progress: %w", err)
	}

	transcribeStart := time.Now()
	ctx2, spanTr := tracer.Start(ctx, "generate_transcript")
	transcript, err := bridge.Call(ctx2, uc.bridge, "transcribe", func(ctx context.Context) (string, error) {
		return uc.transcriber.Transcribe(ctx, videoPath)
	})
	spanTr.End()
	if err != nil {
		return nil, &TranscriptionError{Err: err}
	}
	metrics.StageDuration.WithLabelValues("transcribe").Observe(time.Since(transcribeStart).Seconds())

	// Stage 3: analyze. The analyzer is already non-blocking, so it is
	// called directly.
	if err := report(ctx, 50, "Analyzing content with AI..."); err != nil {
		return nil, fmt.Errorf("report progress: %w", err)
	}

	analyzeStart := time.Now()
	ctx3, spanAn := tracer.Start(ctx, "analyze_transcript")
	analysis, err := uc.analyzer.Analyze(ctx3, transcript)
	spanAn.End()
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}
	metrics.StageDuration.WithLabelValues("analyze").Observe(time.Since(analyzeStart).Seconds())

	// Stage 4: render
	if err := report(ctx, 70, "Creating video clips..."); err != nil {
		return nil, fmt.Errorf("report progress: %w", err)
	}

	renderStart := time.Now()
	ctx4, spanRd := tracer.Start(ctx, "render_clips")
	outputDir := filepath.Join(uc.tempDir, "clips", job.ID.String())
	clips, err := bridge.Call(ctx4, uc.bridge, "render", func(ctx context.Context) ([]entity.ClipResult, error) {
		return uc.renderer.Render(ctx, videoPath, analysis.Segments, outputDir, job.Options)
	})
	spanRd.End()
	if err != nil {
		return nil, &RenderError{Err: err}
	}
	metrics.StageDuration.WithLabelValues("render").Observe(time.Since(renderStart).Seconds())
	metrics.ClipsRenderedTotal.Add(float64(len(clips)))

	if err := report(ctx, 100, "Processing complete!"); err != nil {
		return nil, fmt.Errorf("report progress: %w", err)
	}

	return &entity.PipelineResult{
		Title:     title,
		Segments:  analysis.Segments,
		Clips:     clips,
		Summary:   analysis.Summary,
		KeyTopics: analysis.KeyTopics,
	}, nil
}

func (uc *ProcessClipsUseCase) acquire(ctx context.Context, job *entity.ClipJob) (string, error) {
	if job.SourceType == entity.SourceTypeYouTube {
		path, err := bridge.Call(ctx, uc.bridge, "download", func(ctx context.Context) (string, error) {
			return uc.downloader.Download(ctx, job.URL)
		})
		if err != nil {
			return "", &AcquisitionError{Err: err}
		}
		if path == "" {
			return "", &AcquisitionError{Err: errors.New("download produced no file")}
		}
		return path, nil
	}

	// Uploaded sources reference a local path.
	if _, err := os.Stat(job.URL); err != nil {
		return "", &AcquisitionError{Err: fmt.Errorf("video file not found: %w", err)}
	}
	return job.URL, nil
}

// videoTitle resolves the display title. Failure here never aborts the
// pipeline: the default title is substituted and a warning logged.
func (uc *ProcessClipsUseCase) videoTitle(ctx context.Context, job *entity.ClipJob) string {
	if job.SourceType != entity.SourceTypeYouTube {
		return filepath.Base(job.URL)
	}

	title, err := bridge.Call(ctx, uc.bridge, "title", func(ctx context.Context) (string, error) {
		return uc.downloader.Title(ctx, job.URL)
	})
	if err != nil {
		uc.logger.Warn("failed to get video title",
			zap.String("task_id", job.ID.String()),
			zap.Error(err),
		)
		return DefaultTitle
	}
	if title == "" {
		return DefaultTitle
	}
	return title
}

// publishClips copies rendered clips to object storage. Upload failures are
// logged and skipped: the pipeline already succeeded and the files remain on
// local disk, so a storage outage must not turn a completed run into an
// error after the terminal snapshot was written.
func (uc *ProcessClipsUseCase) publishClips(ctx context.Context, taskID string, result *entity.PipelineResult, log *zap.Logger) {
	for i := range result.Clips {
		key := fmt.Sprintf("%s/%s", taskID, filepath.Base(result.Clips[i].OutputPath))
		storedKey, err := uc.storage.UploadClip(ctx, key, result.Clips[i].OutputPath)
		if err != nil {
			log.Warn("clip upload failed, keeping local copy",
				zap.String("clip", result.Clips[i].OutputPath),
				zap.Error(err),
			)
			continue
		}
		result.Clips[i].ObjectKey = storedKey
	}
}
