package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Transcriber drives the AssemblyAI REST flow: upload the media file, create
// a transcript, poll until it settles. The whole call blocks and runs
// through the execution bridge.
type Transcriber struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       *zap.Logger
}

func NewTranscriber(apiKey, baseURL string, logger *zap.Logger) *Transcriber {
	return &Transcriber{
		apiKey:       apiKey,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 5 * time.Minute},
		pollInterval: 3 * time.Second,
		logger:       logger,
	}
}

func (t *Transcriber) Transcribe(ctx context.Context, videoPath string) (string, error) {
	audioURL, err := t.upload(ctx, videoPath)
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}

	transcriptID, err := t.createTranscript(ctx, audioURL)
	if err != nil {
		return "", fmt.Errorf("create transcript: %w", err)
	}

	t.logger.Info("transcript requested",
		zap.String("transcript_id", transcriptID),
		zap.String("video_path", videoPath),
	)

	return t.poll(ctx, transcriptID)
}

func (t *Transcriber) upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v2/upload", f)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", t.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := t.do(req, &out); err != nil {
		return "", err
	}
	return out.UploadURL, nil
}

func (t *Transcriber) createTranscript(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(map[string]string{"audio_url": audioURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		ID string `json:"id"`
	}
	if err := t.do(req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (t *Transcriber) poll(ctx context.Context, transcriptID string) (string, error) {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/v2/transcript/"+transcriptID, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", t.apiKey)

		var out struct {
			Status string `json:"status"`
			Text   string `json:"text"`
			Error  string `json:"error"`
		}
		if err := t.do(req, &out); err != nil {
			return "", fmt.Errorf("poll transcript %s: %w", transcriptID, err)
		}

		switch out.Status {
		case "completed":
			return out.Text, nil
		case "error":
			return "", fmt.Errorf("transcription failed: %s", out.Error)
		}
	}
}

func (t *Transcriber) do(req *http.Request, out interface{}) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("assemblyai %s: status %d: %s", req.URL.Path, resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
