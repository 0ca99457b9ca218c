package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Client shells out to yt-dlp. Download blocks for the full transfer and is
// expected to run through the execution bridge.
type Client struct {
	outputDir string
	logger    *zap.Logger
}

func NewClient(outputDir string, logger *zap.Logger) *Client {
	return &Client{outputDir: outputDir, logger: logger}
}

// Download fetches the video and returns the local file path, or an empty
// path when yt-dlp produced nothing.
func (c *Client) Download(ctx context.Context, url string) (string, error) {
	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	template := filepath.Join(c.outputDir, "%(id)s.%(ext)s")
	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--no-playlist",
		"-f", "mp4/bestvideo*+bestaudio/best",
		"--merge-output-format", "mp4",
		"-o", template,
		"--no-simulate",
		"--print", "after_move:filepath",
		url,
	)

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}

	path := strings.TrimSpace(string(output))
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}

	c.logger.Info("video downloaded", zap.String("url", url), zap.String("path", path))
	return path, nil
}

// Title returns the video title.
func (c *Client) Title(ctx context.Context, url string) (string, error) {
	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--no-playlist",
		"--skip-download",
		"--print", "title",
		url,
	)

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp title: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
