package memory

import (
	"context"
	"sync"
	"time"

	"rag-tutor/internal/domain"
	"rag-tutor/internal/util"
)

type MessageStore struct {
	mu       sync.Mutex
	messages []domain.TutorMessage
}

func NewMessageStore() *MessageStore { return &MessageStore{} }

func (s *MessageStore) SaveMessage(_ context.Context, msg *domain.TutorMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID == "" {
		msg.ID = util.NewULID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages = append(s.messages, *msg)
	return nil
}

// Messages returns a copy of the log for one child.
func (s *MessageStore) Messages(childID string) []domain.TutorMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TutorMessage
	for _, m := range s.messages {
		if m.ChildID == childID {
			out = append(out, m)
		}
	}
	return out
}

// TransactionManager runs fn directly; memory stores have no rollback.
type TransactionManager struct{}

func NewTransactionManager() domain.TransactionManager { return TransactionManager{} }

func (TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
