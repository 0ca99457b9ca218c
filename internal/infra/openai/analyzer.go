package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/digitalprobr/supoclip/internal/domain/entity"
	"go.uber.org/zap"
)

const systemPrompt = `You select the most engaging highlight segments from a video transcript.
Respond with a JSON object of the form:
{"segments":[{"start_time":0.0,"end_time":0.0,"text":"","relevance_score":0.0,"reasoning":""}],"summary":"","key_topics":[""]}
Segments must be ordered by relevance_score, highest first. Times are seconds from the start of the video.`

// Analyzer calls an OpenAI-compatible chat-completions endpoint. The call is
// plain request/response and is invoked directly, not through the bridge.
type Analyzer struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewAnalyzer(apiKey, baseURL, model string, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		logger:     logger,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, transcript string) (*entity.Analysis, error) {
	reqBody := map[string]interface{}{
		"model": a.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": transcript},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("analysis: status %d: %s", resp.StatusCode, errBody)
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("analysis returned no choices")
	}

	var analysis entity.Analysis
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis content: %w", err)
	}

	a.logger.Info("transcript analyzed",
		zap.Int("segments", len(analysis.Segments)),
		zap.Int("key_topics", len(analysis.KeyTopics)),
	)
	return &analysis, nil
}
