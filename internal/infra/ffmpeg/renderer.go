package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/digitalprobr/supoclip/internal/domain/entity"
	"go.uber.org/zap"
)

// Renderer cuts one clip per segment and burns the segment text in as a
// subtitle. Rendering blocks for the duration of the encode and runs through
// the execution bridge.
type Renderer struct {
	fontsDir string
	logger   *zap.Logger
}

func NewRenderer(fontsDir string, logger *zap.Logger) *Renderer {
	return &Renderer{fontsDir: fontsDir, logger: logger}
}

func (r *Renderer) Render(ctx context.Context, videoPath string, segments []entity.Segment, outputDir string, opts entity.RenderOptions) ([]entity.ClipResult, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create clips dir: %w", err)
	}

	duration, err := r.probeDuration(ctx, videoPath)
	if err != nil {
		r.logger.Warn("could not get video duration", zap.Error(err))
	}

	clips := make([]entity.ClipResult, 0, len(segments))
	for i, seg := range segments {
		end := seg.EndTime
		if duration > 0 && end > duration {
			end = duration
		}
		if end <= seg.StartTime {
			return nil, fmt.Errorf("segment %d: empty range %.2f-%.2f", i+1, seg.StartTime, end)
		}

		outputPath := filepath.Join(outputDir, fmt.Sprintf("clip_%02d.mp4", i+1))
		if err := r.renderClip(ctx, videoPath, seg, end, outputPath, opts); err != nil {
			return nil, fmt.Errorf("render clip %d: %w", i+1, err)
		}

		clips = append(clips, entity.ClipResult{
			OutputPath: outputPath,
			Segment:    seg,
		})
	}

	r.logger.Info("clips rendered",
		zap.Int("count", len(clips)),
		zap.String("output_dir", outputDir),
	)
	return clips, nil
}

func (r *Renderer) renderClip(ctx context.Context, videoPath string, seg entity.Segment, end float64, outputPath string, opts entity.RenderOptions) error {
	fontFile := filepath.Join(r.fontsDir, opts.FontFamily+".ttf")

	drawtext := fmt.Sprintf(
		"drawtext=fontfile=%s:text='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y=h-th-40",
		fontFile,
		escapeDrawtext(seg.Text),
		opts.FontSize,
		opts.FontColor,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", formatSeconds(seg.StartTime),
		"-to", formatSeconds(end),
		"-i", videoPath,
		"-vf", drawtext,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-y",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output))
	}
	return nil
}

func (r *Renderer) probeDuration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return duration, nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// drawtext treats backslash, quote, colon and percent as metacharacters.
func escapeDrawtext(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return replacer.Replace(s)
}
