package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// CreateEmbedding returns the embedding vector for a single text.
func (s *Service) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.AdaEmbeddingV2,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("ai: create embedding: no embedding data returned")
	}
	return resp.Data[0].Embedding, nil
}

// GenerateEmbeddings embeds a batch of texts in one request, preserving
// input order. Used when (re)indexing the knowledge base.
func (s *Service) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.AdaEmbeddingV2,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: generate embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("ai: generate embeddings: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}
	embeddings := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		embeddings[i] = item.Embedding
	}
	return embeddings, nil
}
