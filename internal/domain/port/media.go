package port

import (
	"context"

	"github.com/digitalprobr/supoclip/internal/domain/entity"
)

// VideoDownloader acquires a remote video. Download returns an empty path
// when the source yields nothing. Both calls block and must go through the
// execution bridge.
type VideoDownloader interface {
	Download(ctx context.Context, url string) (string, error)
	Title(ctx context.Context, url string) (string, error)
}

// Transcriber produces a transcript for a local video file. Blocking.
type Transcriber interface {
	Transcribe(ctx context.Context, videoPath string) (string, error)
}

// TranscriptAnalyzer selects the most relevant segments from a transcript.
// Already asynchronous; called directly, not through the bridge.
type TranscriptAnalyzer interface {
	Analyze(ctx context.Context, transcript string) (*entity.Analysis, error)
}

// ClipRenderer cuts and styles one clip per segment. Blocking.
type ClipRenderer interface {
	Render(ctx context.Context, videoPath string, segments []entity.Segment, outputDir string, opts entity.RenderOptions) ([]entity.ClipResult, error)
}
