package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"rag-tutor/internal/cache"
	"rag-tutor/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultEmbeddingTTL = 168 * time.Hour

// CachedEmbeddingService stores vectors gob-encoded in the cache and collapses
// concurrent requests for the same text. Cache failures fall through to the
// wrapped service.
type CachedEmbeddingService struct {
	next    domain.EmbeddingService
	cache   domain.Cache
	model   string
	ttl     time.Duration
	sfGroup singleflight.Group
	logger  *zap.Logger
}

// NewCachedEmbeddingService wraps next. model scopes cache keys so vectors of
// different models never mix.
func NewCachedEmbeddingService(next domain.EmbeddingService, c domain.Cache, model string, ttl time.Duration, logger *zap.Logger) (*CachedEmbeddingService, error) {
	if next == nil {
		return nil, fmt.Errorf("embedding service cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("cache instance cannot be nil for CachedEmbeddingService")
	}
	if ttl <= 0 {
		ttl = defaultEmbeddingTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbeddingService{next: next, cache: c, model: model, ttl: ttl, logger: logger}, nil
}

func (s *CachedEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	cacheKey := cache.EmbeddingKey(s.model, text)

	cached, err := s.cache.Get(ctx, cacheKey)
	switch {
	case err == nil:
		var vec []float32
		errDecode := gob.NewDecoder(bytes.NewReader([]byte(cached))).Decode(&vec)
		if errDecode == nil && len(vec) > 0 {
			s.logger.Debug("Embedding cache hit", zap.String("cacheKey", cacheKey))
			return vec, nil
		}
		s.logger.Warn("Failed to decode cached embedding", zap.Error(errDecode), zap.String("cacheKey", cacheKey))
	case errors.Is(err, domain.ErrCacheMiss):
		s.logger.Debug("Embedding cache miss", zap.String("cacheKey", cacheKey))
	default:
		s.logger.Warn("Embedding cache read failed", zap.Error(err), zap.String("cacheKey", cacheKey))
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		vec, fetchErr := s.next.Generate(ctx, text)
		if fetchErr != nil {
			return nil, fetchErr
		}

		var buffer bytes.Buffer
		if errEncode := gob.NewEncoder(&buffer).Encode(vec); errEncode != nil {
			s.logger.Error("Failed to gob encode embedding for caching", zap.Error(errEncode))
			return vec, nil
		}
		if errSet := s.cache.Set(ctx, cacheKey, buffer.String(), s.ttl); errSet != nil {
			s.logger.Warn("Failed to cache embedding", zap.Error(errSet), zap.String("cacheKey", cacheKey))
		}
		return vec, nil
	})
	if err != nil {
		return nil, err
	}

	vec, ok := res.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight.Do for embedding: %T", res)
	}
	return vec, nil
}

var _ domain.EmbeddingService = (*CachedEmbeddingService)(nil)
