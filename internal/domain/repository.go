package domain

import "context"

// ContentRepository is the scoped vector store.
type ContentRepository interface {
	InsertChunk(ctx context.Context, chunk *ContentChunk) error
	// GetChunkByID returns nil, nil when no chunk has the id.
	GetChunkByID(ctx context.Context, id string) (*ContentChunk, error)
	// SimilaritySearch returns up to limit chunks of subject/year ordered by
	// descending similarity.
	SimilaritySearch(ctx context.Context, queryVector []float32, subject string, year int, limit int) ([]RetrievalResult, error)
	// ListSources returns the distinct source labels of subject/year.
	ListSources(ctx context.Context, subject string, year int) ([]string, error)
}

// QuizAttemptRepository persists quiz attempts.
type QuizAttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
	// GetAttemptByID returns nil, nil when no attempt has the id.
	GetAttemptByID(ctx context.Context, id string) (*QuizAttempt, error)
	UpdateAttemptScore(ctx context.Context, id string, score, total int) error
	ListRecentAttempts(ctx context.Context, limit int) ([]*QuizAttempt, error)
}

// TutorMessageRepository logs tutoring conversations.
type TutorMessageRepository interface {
	SaveMessage(ctx context.Context, msg *TutorMessage) error
}

// TransactionManager runs fn inside a single database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
