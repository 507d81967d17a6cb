package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rag-tutor/internal/cache"
	"rag-tutor/internal/domain"
	"rag-tutor/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var sampleResults = []domain.RetrievalResult{
	{ID: "1", Content: "Kata nama am", Source: "Unit 1 Tatabahasa", Similarity: 0.91},
	{ID: "2", Content: "Kata kerja", Source: "Unit 2 Tatabahasa", Similarity: 0.85},
	{ID: "3", Content: "Simpulan bahasa", Source: "unit 1 (latihan.pdf)", Similarity: 0.80},
}

func TestRetrievalService_Retrieve(t *testing.T) {
	ctx := context.Background()
	vec := []float32{0.1, 0.2, 0.3}

	t.Run("returns results in store order", func(t *testing.T) {
		repo := new(MockContentRepository)
		embedder := new(MockEmbeddingService)
		embedder.On("Generate", ctx, "kata nama").Return(vec, nil)
		repo.On("SimilaritySearch", ctx, vec, "BM", 3, 6).Return(sampleResults, nil)

		svc := NewRetrievalService(repo, embedder, nil, testConfig())
		resp, err := svc.Retrieve(ctx, dto.RetrieveRequest{Subject: "BM", Year: 3, Query: "kata nama"})
		require.NoError(t, err)
		assert.Equal(t, sampleResults, resp.Results)
		repo.AssertExpectations(t)
		embedder.AssertExpectations(t)
	})

	t.Run("topic key filters case-insensitively", func(t *testing.T) {
		repo := new(MockContentRepository)
		embedder := new(MockEmbeddingService)
		embedder.On("Generate", ctx, "q").Return(vec, nil)
		repo.On("SimilaritySearch", ctx, vec, "BM", 3, 6).Return(sampleResults, nil)

		svc := NewRetrievalService(repo, embedder, nil, testConfig())
		resp, err := svc.Retrieve(ctx, dto.RetrieveRequest{Subject: "BM", Year: 3, Query: "q", TopicKey: "UNIT 1"})
		require.NoError(t, err)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "1", resp.Results[0].ID)
		assert.Equal(t, "3", resp.Results[1].ID)
	})

	t.Run("topic key without matches falls back to unfiltered results", func(t *testing.T) {
		repo := new(MockContentRepository)
		embedder := new(MockEmbeddingService)
		embedder.On("Generate", ctx, "q").Return(vec, nil)
		repo.On("SimilaritySearch", ctx, vec, "BM", 3, 2).Return(sampleResults[:2], nil)

		svc := NewRetrievalService(repo, embedder, nil, testConfig())
		resp, err := svc.Retrieve(ctx, dto.RetrieveRequest{Subject: "BM", Year: 3, Query: "q", TopK: 2, TopicKey: "unit 9"})
		require.NoError(t, err)
		assert.Equal(t, sampleResults[:2], resp.Results)
	})

	t.Run("embedding failure is upstream", func(t *testing.T) {
		embedder := new(MockEmbeddingService)
		embedder.On("Generate", ctx, "q").Return(nil, errors.New("rate limited"))

		svc := NewRetrievalService(new(MockContentRepository), embedder, nil, testConfig())
		_, err := svc.Retrieve(ctx, dto.RetrieveRequest{Subject: "BM", Year: 3, Query: "q"})
		assert.True(t, domain.IsCode(err, domain.CodeUpstream))
	})

	t.Run("store failure is upstream", func(t *testing.T) {
		repo := new(MockContentRepository)
		embedder := new(MockEmbeddingService)
		embedder.On("Generate", ctx, "q").Return(vec, nil)
		repo.On("SimilaritySearch", ctx, vec, "BM", 3, 6).Return(nil, errors.New("db down"))

		svc := NewRetrievalService(repo, embedder, nil, testConfig())
		_, err := svc.Retrieve(ctx, dto.RetrieveRequest{Subject: "BM", Year: 3, Query: "q"})
		assert.True(t, domain.IsCode(err, domain.CodeUpstream))
	})

	t.Run("invalid request never reaches the embedder", func(t *testing.T) {
		embedder := new(MockEmbeddingService)
		svc := NewRetrievalService(new(MockContentRepository), embedder, nil, testConfig())
		_, err := svc.Retrieve(ctx, dto.RetrieveRequest{Subject: "BM", Year: 9})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
		embedder.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})
}

func TestRetrievalService_RetrieveTopics(t *testing.T) {
	ctx := context.Background()
	key := cache.TopicsKey("BM", 3)

	t.Run("cache miss loads, derives and stores", func(t *testing.T) {
		repo := new(MockContentRepository)
		c := new(MockCache)
		repo.On("ListSources", ctx, "BM", 3).Return([]string{"Unit 2", "Unit 1 (a.pdf)", "unit 2 extra"}, nil)
		c.On("Get", ctx, key).Return("", domain.ErrCacheMiss)
		c.On("Set", ctx, key, mock.AnythingOfType("string"), 10*time.Minute).Return(nil)

		svc := NewRetrievalService(repo, new(MockEmbeddingService), c, testConfig())
		resp, err := svc.RetrieveTopics(ctx, dto.TopicsRequest{Subject: "BM", Year: 3})
		require.NoError(t, err)
		assert.Equal(t, []domain.Topic{{Key: "unit 1", Label: "Unit 1"}, {Key: "unit 2", Label: "Unit 2"}}, resp.Topics)
		c.AssertExpectations(t)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		repo := new(MockContentRepository)
		c := new(MockCache)
		cached, _ := json.Marshal([]domain.Topic{{Key: "part 1", Label: "Part 1"}})
		c.On("Get", ctx, key).Return(string(cached), nil)

		svc := NewRetrievalService(repo, new(MockEmbeddingService), c, testConfig())
		resp, err := svc.RetrieveTopics(ctx, dto.TopicsRequest{Subject: "BM", Year: 3})
		require.NoError(t, err)
		assert.Equal(t, "Part 1", resp.Topics[0].Label)
		repo.AssertNotCalled(t, "ListSources", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache errors degrade to the store", func(t *testing.T) {
		repo := new(MockContentRepository)
		c := new(MockCache)
		repo.On("ListSources", ctx, "BM", 3).Return([]string{}, nil)
		c.On("Get", ctx, key).Return("", errors.New("redis down"))
		c.On("Set", ctx, key, "[]", 10*time.Minute).Return(errors.New("redis down"))

		svc := NewRetrievalService(repo, new(MockEmbeddingService), c, testConfig())
		resp, err := svc.RetrieveTopics(ctx, dto.TopicsRequest{Subject: "BM", Year: 3})
		require.NoError(t, err)
		assert.Empty(t, resp.Topics)
	})

	t.Run("store failure is upstream", func(t *testing.T) {
		repo := new(MockContentRepository)
		repo.On("ListSources", ctx, "BM", 3).Return(nil, errors.New("db down"))

		svc := NewRetrievalService(repo, new(MockEmbeddingService), nil, testConfig())
		_, err := svc.RetrieveTopics(ctx, dto.TopicsRequest{Subject: "BM", Year: 3})
		assert.True(t, domain.IsCode(err, domain.CodeUpstream))
	})
}

func TestRetrievalService_InvalidateTopics(t *testing.T) {
	ctx := context.Background()
	c := new(MockCache)
	c.On("Delete", ctx, cache.TopicsKey("BM", 6)).Return(nil)

	svc := NewRetrievalService(new(MockContentRepository), new(MockEmbeddingService), c, testConfig())
	svc.InvalidateTopics(ctx, "BM", 6)
	c.AssertExpectations(t)
}
