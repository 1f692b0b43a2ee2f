package transcribe

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cutboard/cutboard-agent/internal/beats"
)

// RequestError represents a failed transcription request.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("transcription failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx) and network errors.
// Client errors (4xx) are considered permanent.
func (e *RequestError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// HTTPClient is a real transcription client. It posts the media URL to the
// service's word-timing endpoint and returns the timed word spans.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL, token string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

type transcribeRequest struct {
	URL string `json:"url"`
}

type transcribeResponse struct {
	Words []beats.Word `json:"words"`
}

func (c *HTTPClient) Transcribe(ctx context.Context, mediaURL string) ([]beats.Word, error) {
	body, err := json.Marshal(transcribeRequest{URL: mediaURL})
	if err != nil {
		return nil, fmt.Errorf("marshal transcribe request: %w", err)
	}

	url := fmt.Sprintf("%s/api/transcribe/words", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Cutboard-Request-Id", generateRequestID())

	c.logger.Info("requesting word timing", "url", url, "media_url", mediaURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result transcribeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode transcribe response: %w", err)
	}

	c.logger.Info("word timing received", "media_url", mediaURL, "word_count", len(result.Words))
	return result.Words, nil
}

func generateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
