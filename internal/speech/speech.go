// Package speech provides the abstraction over speech recognition engines.
package speech

import (
	"context"
	"errors"
)

// Engine is the type of a speech recognition engine.
type Engine string

const (
	// EngineWhisperAPI transcribes through the hosted Whisper API.
	EngineWhisperAPI Engine = "whisper-api"
	// EngineNone disables speech recognition.
	EngineNone Engine = "none"
)

var (
	// ErrLanguageNotSupported is returned when no engine can handle the
	// requested language.
	ErrLanguageNotSupported = errors.New("language is not supported by the speech engine")
	// ErrAudioProcessing is returned when the audio cannot be read or decoded.
	ErrAudioProcessing = errors.New("failed to process audio")
	// ErrEngineUnavailable is returned when the engine is not configured
	// or cannot be reached.
	ErrEngineUnavailable = errors.New("speech engine unavailable")
)

// Result is a single transcription result.
type Result struct {
	// Text is the transcribed text.
	Text string
	// Confidence is the engine's confidence in the transcription, 0..1.
	Confidence float64
	// DurationSeconds is the audio duration as seen by the engine.
	DurationSeconds float64
	// Engine is the name of the engine that produced the result.
	Engine string
}

// Recognizer is the interface implemented by speech recognition engines.
type Recognizer interface {
	// Transcribe recognizes speech from the audio file at path.
	// lang is the language of the recording; engines that cannot map it
	// onto a model return ErrLanguageNotSupported.
	Transcribe(ctx context.Context, path string, lang string) (Result, error)

	// Name returns the engine name (for logging and stored transcripts).
	Name() string

	// Close releases engine resources.
	Close()
}

// Config holds the settings needed to construct a recognizer.
type Config struct {
	// Engine selects the engine type.
	Engine Engine
	// APIKey authenticates against hosted engines.
	APIKey string
}
