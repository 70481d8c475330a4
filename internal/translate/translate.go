// Package translate provides machine translation and phrase embeddings
// for the parallel corpus.
package translate

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned when no translation backend is set up.
	ErrNotConfigured = errors.New("translation backend not configured")
	// ErrEmptyResult is returned when the backend produced no usable output.
	ErrEmptyResult = errors.New("translation backend returned an empty result")
)

// GlossaryTerm pins the translation of a single term.
type GlossaryTerm struct {
	Term        string
	Translation string
}

// Request describes one translation.
type Request struct {
	// Text is the text to translate.
	Text string
	// SourceLanguage and TargetLanguage are human-readable language names
	// or registry codes.
	SourceLanguage string
	TargetLanguage string
	// Glossary terms are pinned into the prompt so that community-approved
	// renderings win over the model's own choices.
	Glossary []GlossaryTerm
}

// Translator translates text between languages.
type Translator interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// Embedder turns a phrase into an embedding vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions returns the embedding dimensionality.
	Dimensions() int
}
