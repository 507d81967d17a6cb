package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"rag-tutor/internal/domain"
	"rag-tutor/internal/util"
)

type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]*domain.QuizAttempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string]*domain.QuizAttempt)}
}

func (s *AttemptStore) CreateAttempt(_ context.Context, attempt *domain.QuizAttempt) error {
	if attempt == nil {
		return errors.New("attempt is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt.ID == "" {
		attempt.ID = util.NewULID()
	}
	if _, exists := s.attempts[attempt.ID]; exists {
		return fmt.Errorf("attempt %s already exists", attempt.ID)
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	stored := *attempt
	s.attempts[attempt.ID] = &stored
	return nil
}

func (s *AttemptStore) GetAttemptByID(_ context.Context, id string) (*domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (s *AttemptStore) UpdateAttemptScore(_ context.Context, id string, score, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok {
		return fmt.Errorf("attempt %s not found for score update", id)
	}
	now := time.Now()
	a.Score = score
	a.Total = total
	a.GradedAt = &now
	return nil
}

func (s *AttemptStore) ListRecentAttempts(_ context.Context, limit int) ([]*domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.QuizAttempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		cp := *a
		out = append(out, &cp)
	}
	// ULIDs break ties between attempts created in the same instant.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
