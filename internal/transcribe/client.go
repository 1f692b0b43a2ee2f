// Package transcribe talks to the external transcription service. The
// editing core never awaits transcription mid-gesture: the job runner calls
// this client in the background and feeds completed word timing back in as
// plain data.
package transcribe

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cutboard/cutboard-agent/internal/beats"
)

// Client fetches word-level timing for a media URL.
type Client interface {
	Transcribe(ctx context.Context, mediaURL string) ([]beats.Word, error)
}

// StubClient synthesizes evenly spaced placeholder words from the media
// name so the subtitle pipeline works without a configured service.
type StubClient struct {
	logger *slog.Logger
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

func (c *StubClient) Transcribe(_ context.Context, mediaURL string) ([]beats.Word, error) {
	c.logger.Info("transcribe stub: synthesizing placeholder words", "url", mediaURL)

	name := mediaURL
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	if len(parts) == 0 {
		parts = []string{"untitled"}
	}

	const step = 0.4
	words := make([]beats.Word, len(parts))
	for i, p := range parts {
		start := float64(i) * step
		words[i] = beats.Word{Text: p, Start: start, End: start + step*0.8}
	}
	return words, nil
}
