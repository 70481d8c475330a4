package speech

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperAPI implements Recognizer through the hosted Whisper API.
type WhisperAPI struct {
	client *openai.Client
}

// NewWhisperAPI creates a Whisper API recognizer.
func NewWhisperAPI(apiKey string) (*WhisperAPI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrEngineUnavailable)
	}
	return &WhisperAPI{client: openai.NewClient(apiKey)}, nil
}

// Name returns the engine name.
func (w *WhisperAPI) Name() string {
	return string(EngineWhisperAPI)
}

// Transcribe recognizes speech from the audio file at path.
// Whisper only knows ISO 639-1 languages; registry codes like "sit-toto"
// carry the closest high-resource language as a prefix, and codes without
// such a prefix fall back to Whisper's own language detection.
func (w *WhisperAPI) Transcribe(ctx context.Context, path string, lang string) (Result, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if hint := isoHint(lang); hint != "" {
		req.Language = hint
	}

	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrAudioProcessing, err)
	}

	return Result{
		Text:            strings.TrimSpace(resp.Text),
		Confidence:      confidenceFromSegments(resp),
		DurationSeconds: resp.Duration,
		Engine:          w.Name(),
	}, nil
}

// Close releases engine resources.
func (w *WhisperAPI) Close() {}

// isoHint extracts a two-letter ISO 639-1 hint from a registry code.
func isoHint(lang string) string {
	code, _, _ := strings.Cut(lang, "-")
	if len(code) == 2 {
		return code
	}
	return ""
}

// confidenceFromSegments derives a 0..1 confidence from the mean average
// log probability of the returned segments.
func confidenceFromSegments(resp openai.AudioResponse) float64 {
	if len(resp.Segments) == 0 {
		return 0
	}
	sum := 0.0
	for _, seg := range resp.Segments {
		sum += seg.AvgLogprob
	}
	conf := math.Exp(sum / float64(len(resp.Segments)))
	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}
