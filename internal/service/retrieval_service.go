package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"rag-tutor/internal/cache"
	"rag-tutor/internal/config"
	"rag-tutor/internal/domain"
	"rag-tutor/internal/dto"
	"rag-tutor/internal/logger"
	"rag-tutor/internal/validation"

	"go.uber.org/zap"
)

const (
	DefaultTopK      = 6
	defaultTopicsTTL = 10 * time.Minute
)

// RetrievalService answers scoped similarity searches and topic listings.
type RetrievalService interface {
	Retrieve(ctx context.Context, req dto.RetrieveRequest) (*dto.RetrieveResponse, error)
	RetrieveTopics(ctx context.Context, req dto.TopicsRequest) (*dto.TopicsResponse, error)
	// InvalidateTopics drops the cached topic list of subject/year.
	InvalidateTopics(ctx context.Context, subject string, year int)
}

type retrievalService struct {
	repo        domain.ContentRepository
	embedder    domain.EmbeddingService
	topicCache  domain.Cache
	validator   *validation.Validator
	defaultTopK int
	topicsTTL   time.Duration
	logger      *zap.Logger
}

// NewRetrievalService creates a RetrievalService. topicCache may be nil.
func NewRetrievalService(
	repo domain.ContentRepository,
	embedder domain.EmbeddingService,
	topicCache domain.Cache,
	cfg *config.Config,
) RetrievalService {
	topK := cfg.Retrieval.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &retrievalService{
		repo:        repo,
		embedder:    embedder,
		topicCache:  topicCache,
		validator:   validation.NewValidator(),
		defaultTopK: topK,
		topicsTTL:   cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Topics, defaultTopicsTTL),
		logger:      logger.Named("retrieval"),
	}
}

// Retrieve embeds the query and returns the closest chunks of subject/year.
// A topic key narrows results to matching sources unless that would leave
// nothing, in which case the unfiltered results are kept.
func (s *retrievalService) Retrieve(ctx context.Context, req dto.RetrieveRequest) (*dto.RetrieveResponse, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}
	topK := req.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}

	vec, err := s.embedder.Generate(ctx, req.Query)
	if err != nil {
		return nil, domain.NewUpstreamError("failed to embed query", err)
	}

	rows, err := s.repo.SimilaritySearch(ctx, vec, req.Subject, req.Year, topK)
	if err != nil {
		return nil, domain.NewUpstreamError("similarity search failed", err)
	}

	rows = filterByTopic(rows, req.TopicKey)
	if len(rows) > topK {
		rows = rows[:topK]
	}

	s.logger.Debug("Retrieved chunks",
		zap.String("subject", req.Subject),
		zap.Int("year", req.Year),
		zap.String("topic_key", req.TopicKey),
		zap.Int("count", len(rows)),
	)
	return &dto.RetrieveResponse{Results: rows}, nil
}

func filterByTopic(rows []domain.RetrievalResult, topicKey string) []domain.RetrievalResult {
	key := strings.ToLower(strings.TrimSpace(topicKey))
	if key == "" {
		return rows
	}
	filtered := make([]domain.RetrievalResult, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Source), key) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return rows
	}
	return filtered
}

// RetrieveTopics lists the topics of subject/year, served from cache when possible.
func (s *retrievalService) RetrieveTopics(ctx context.Context, req dto.TopicsRequest) (*dto.TopicsResponse, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	key := cache.TopicsKey(req.Subject, req.Year)
	if topics, ok := s.cachedTopics(ctx, key); ok {
		return &dto.TopicsResponse{Topics: topics}, nil
	}

	sources, err := s.repo.ListSources(ctx, req.Subject, req.Year)
	if err != nil {
		return nil, domain.NewUpstreamError("failed to load topics", err)
	}
	topics := DeriveTopics(sources)

	if s.topicCache != nil {
		if b, err := json.Marshal(topics); err == nil {
			if err := s.topicCache.Set(ctx, key, string(b), s.topicsTTL); err != nil {
				s.logger.Warn("Failed to cache topics", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return &dto.TopicsResponse{Topics: topics}, nil
}

func (s *retrievalService) cachedTopics(ctx context.Context, key string) ([]domain.Topic, bool) {
	if s.topicCache == nil {
		return nil, false
	}
	raw, err := s.topicCache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("Topics cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var topics []domain.Topic
	if err := json.Unmarshal([]byte(raw), &topics); err != nil {
		s.logger.Warn("Discarding malformed cached topics", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return topics, true
}

func (s *retrievalService) InvalidateTopics(ctx context.Context, subject string, year int) {
	if s.topicCache == nil {
		return
	}
	key := cache.TopicsKey(subject, year)
	if err := s.topicCache.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to invalidate topics cache", zap.String("key", key), zap.Error(err))
	}
}
