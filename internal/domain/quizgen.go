package domain

import (
	"context"
)

// QuizGenerationService produces a validated quiz from retrieved context.
type QuizGenerationService interface {
	Generate(ctx context.Context, req QuizRequest, contextChunks []RetrievalResult) (*Quiz, error)
}
