package domain

import (
	"context"
)

// EmbeddingService maps text to a fixed-length vector.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
