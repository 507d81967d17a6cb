package embedding

import (
	"context"
	"fmt"

	"rag-tutor/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
)

// LangchainEmbeddingService implements domain.EmbeddingService over any
// langchaingo embedder. It has no retry of its own.
type LangchainEmbeddingService struct {
	embedder embeddings.Embedder
	provider string
	model    string
}

// NewLangchainEmbeddingService wraps an already constructed embedder.
func NewLangchainEmbeddingService(embedder embeddings.Embedder, provider, model string) *LangchainEmbeddingService {
	return &LangchainEmbeddingService{embedder: embedder, provider: provider, model: model}
}

// Model identifies the embedding model, used to scope cache keys.
func (s *LangchainEmbeddingService) Model() string {
	return s.provider + "-" + s.model
}

// Generate creates an embedding for the given text.
func (s *LangchainEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	raw, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding using %s: %w", s.provider, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("received empty embedding from %s without error", s.provider)
	}

	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}

var _ domain.EmbeddingService = (*LangchainEmbeddingService)(nil)
