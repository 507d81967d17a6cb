// Package memory holds process-local stores used by the "memory" storage
// driver and by service tests.
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

// ContentStore is a brute-force cosine similarity store.
type ContentStore struct {
	mu     sync.RWMutex
	chunks []*domain.ContentChunk
}

func NewContentStore() *ContentStore { return &ContentStore{} }

func (s *ContentStore) InsertChunk(_ context.Context, chunk *domain.ContentChunk) error {
	if chunk == nil {
		return errors.New("chunk is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chunks) > 0 && len(s.chunks[0].Embedding) != len(chunk.Embedding) {
		return fmt.Errorf("vector dimension mismatch: store has %d, chunk has %d", len(s.chunks[0].Embedding), len(chunk.Embedding))
	}
	if chunk.ID == "" {
		chunk.ID = util.NewChunkID()
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now()
	}
	stored := *chunk
	stored.Embedding = append([]float32(nil), chunk.Embedding...)
	s.chunks = append(s.chunks, &stored)
	return nil
}

func (s *ContentStore) GetChunkByID(_ context.Context, id string) (*domain.ContentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chunks {
		if c.ID == id {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (s *ContentStore) SimilaritySearch(_ context.Context, queryVector []float32, subject string, year int, limit int) ([]domain.RetrievalResult, error) {
	if limit <= 0 {
		return []domain.RetrievalResult{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.RetrievalResult, 0)
	for _, c := range s.chunks {
		if c.Subject != subject || c.Year != year {
			continue
		}
		sim, err := util.CosineSimilarity(queryVector, c.Embedding)
		if err != nil {
			return nil, fmt.Errorf("similarity for chunk %s: %w", c.ID, err)
		}
		results = append(results, domain.RetrievalResult{
			ID:         c.ID,
			Content:    c.Content,
			Source:     c.Source,
			Similarity: domain.ClampSimilarity(sim),
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ListSources returns distinct sources in insertion order.
func (s *ContentStore) ListSources(_ context.Context, subject string, year int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	sources := []string{}
	for _, c := range s.chunks {
		if c.Subject != subject || c.Year != year {
			continue
		}
		if _, ok := seen[c.Source]; ok {
			continue
		}
		seen[c.Source] = struct{}{}
		sources = append(sources, c.Source)
	}
	return sources, nil
}

// Len reports how many chunks are stored.
func (s *ContentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}
