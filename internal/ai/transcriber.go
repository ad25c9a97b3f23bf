package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// TranscriberOpts configures a Transcriber. Model is optional; the
// built-in fallback chain is always appended after it.
type TranscriberOpts struct {
	APIKey  string
	APIBase string
	Model   string
}

// Transcriber converts voice notes to text through an OpenAI-compatible
// audio/transcriptions endpoint. Models are tried in order until one
// returns a transcript, so a preferred model can degrade to whisper-1.
type Transcriber struct {
	client *openai.Client
	models []string
}

// NewTranscriber validates opts and builds a Transcriber.
func NewTranscriber(o TranscriberOpts) (*Transcriber, error) {
	if o.APIKey == "" {
		return nil, errors.New("ai: transcriber api key is required")
	}
	cfg := openai.DefaultConfig(o.APIKey)
	if o.APIBase != "" {
		cfg.BaseURL = o.APIBase
	}
	return &Transcriber{
		client: openai.NewClientWithConfig(cfg),
		models: modelChain(o.Model),
	}, nil
}

// modelChain puts the configured model first and appends the defaults,
// skipping duplicates.
func modelChain(preferred string) []string {
	chain := make([]string, 0, 3)
	seen := make(map[string]bool)
	for _, model := range []string{preferred, "gpt-4o-mini-transcribe", openai.Whisper1} {
		if model == "" || seen[model] {
			continue
		}
		seen[model] = true
		chain = append(chain, model)
	}
	return chain
}

// Transcribe reads an audio file and returns its transcript. Each model
// in the chain gets a fresh read of the file, so callers hand over a
// path (typically a downloaded .ogg voice note) rather than a stream.
func (t *Transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	var lastErr error
	for _, model := range t.models {
		resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    model,
			FilePath: path,
			Format:   openai.AudioResponseFormatText,
		})
		if err != nil {
			log.Printf("ai: transcription with %s failed: %v", model, err)
			lastErr = err
			continue
		}
		if resp.Text != "" {
			return resp.Text, nil
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("ai: transcribe: %w", lastErr)
	}
	return "", errors.New("ai: transcribe: empty transcript")
}
