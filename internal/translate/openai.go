package translate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemInstructions = "You are a careful translator working on the documentation of endangered Indian languages. " +
	"Translate exactly what you are given, preserve proper names and honorifics, and do not add explanations. " +
	"Reply with the translation only."

// OpenAI implements Translator and Embedder against the OpenAI API.
type OpenAI struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
	dimensions     int
}

// Config holds the settings for the OpenAI backend.
type Config struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Dimensions     int
}

// NewOpenAI creates the OpenAI translation/embedding backend.
func NewOpenAI(config Config) (*OpenAI, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrNotConfigured)
	}
	if config.ChatModel == "" {
		config.ChatModel = openai.GPT4oMini
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = string(openai.SmallEmbedding3)
	}
	if config.Dimensions == 0 {
		config.Dimensions = 1536
	}
	return &OpenAI{
		client:         openai.NewClient(config.APIKey),
		chatModel:      config.ChatModel,
		embeddingModel: config.EmbeddingModel,
		dimensions:     config.Dimensions,
	}, nil
}

// Translate sends a single translation request.
func (o *OpenAI) Translate(ctx context.Context, req Request) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.chatModel,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstructions},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResult
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyResult
	}
	return out, nil
}

// Embed computes the embedding vector for a phrase.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(o.embeddingModel),
		Dimensions: o.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrEmptyResult
	}
	return resp.Data[0].Embedding, nil
}

// Dimensions returns the embedding dimensionality.
func (o *OpenAI) Dimensions() int {
	return o.dimensions
}

// buildPrompt renders the user message for one translation request.
// Glossary terms come first so that they survive model truncation.
func buildPrompt(req Request) string {
	var b strings.Builder
	if len(req.Glossary) > 0 {
		b.WriteString("Use these fixed translations for the following terms:\n")
		for _, term := range req.Glossary {
			fmt.Fprintf(&b, "- %q -> %q\n", term.Term, term.Translation)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Translate from %s into %s:\n\n%s", req.SourceLanguage, req.TargetLanguage, req.Text)
	return b.String()
}
