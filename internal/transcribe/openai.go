package transcribe

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIEngine transcribes through the hosted Whisper API. The verbose JSON
// response arrives fully buffered, so its segments are replayed through the
// same lazy reader contract the exec engine streams through.
type OpenAIEngine struct {
	client *openai.Client
	logger *zap.Logger
}

func NewOpenAIEngine(apiKey string, logger *zap.Logger) (*OpenAIEngine, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAIEngine{client: openai.NewClient(apiKey), logger: logger}, nil
}

func (e *OpenAIEngine) Transcribe(ctx context.Context, req Request) (SegmentReader, Info, error) {
	audioReq := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: req.AudioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if req.Language != "" && req.Language != "auto" {
		audioReq.Language = req.Language
	}

	e.logger.Debug("sending audio to whisper api", zap.String("audio", req.AudioPath))
	resp, err := e.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return nil, Info{}, fmt.Errorf("whisper api transcription: %w", err)
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, Segment{Start: s.Start, End: s.End, Text: s.Text})
	}

	e.logger.Debug("whisper api response received",
		zap.Int("segments", len(segments)),
		zap.Float64("duration", resp.Duration))

	return newSliceReader(segments), Info{Duration: resp.Duration, Language: resp.Language}, nil
}
