// Package app wires configuration into the services shared by the HTTP
// server and the tutorctl command.
package app

import (
	"context"
	"fmt"
	"net/http"

	"rag-tutor/internal/adapter"
	"rag-tutor/internal/adapter/embedding"
	"rag-tutor/internal/adapter/evaluator"
	"rag-tutor/internal/adapter/llm"
	"rag-tutor/internal/adapter/quizgen"
	"rag-tutor/internal/adapter/tokenizer"
	"rag-tutor/internal/cache"
	"rag-tutor/internal/config"
	"rag-tutor/internal/database"
	"rag-tutor/internal/domain"
	"rag-tutor/internal/repository"
	"rag-tutor/internal/repository/memory"
	"rag-tutor/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Storage groups the repositories of one persistence driver.
type Storage struct {
	Content  domain.ContentRepository
	Attempts domain.QuizAttemptRepository
	Messages domain.TutorMessageRepository
	Tx       domain.TransactionManager
	db       *sqlx.DB
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NewStorage opens the repositories selected by cfg.Storage.Driver.
func NewStorage(cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case DriverPostgres, "":
		db, err := database.NewPostgresDB(cfg.GetDSN())
		if err != nil {
			return nil, err
		}
		return &Storage{
			Content:  repository.NewContentChunkRepository(db),
			Attempts: repository.NewQuizAttemptRepository(db),
			Messages: repository.NewTutorMessageRepository(db),
			Tx:       repository.NewTransactionManagerAdapter(db),
			db:       db,
		}, nil
	case DriverMemory:
		return &Storage{
			Content:  memory.NewContentStore(),
			Attempts: memory.NewAttemptStore(),
			Messages: memory.NewMessageStore(),
			Tx:       memory.NewTransactionManager(),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

// Container holds every service behind the public operations.
type Container struct {
	Storage   *Storage
	Cache     domain.Cache
	Ingest    service.IngestService
	Retrieval service.RetrievalService
	Quiz      service.QuizService
	Grading   service.GradingService
	Tutor     service.TutorService

	redisClient *redis.Client
}

// NewContainer builds the full service graph from configuration. Redis is
// optional: without it embeddings and topic lists are not cached.
func NewContainer(cfg *config.Config, log *zap.Logger) (*Container, error) {
	storage, err := NewStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("driver", cfg.Storage.Driver))

	var (
		redisClient *redis.Client
		c           domain.Cache
	)
	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			redisClient = client
			c = adapter.NewRedisCacheAdapter(client)
			log.Info("Successfully connected to Redis")
		}
	}

	closeAll := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		_ = storage.Close()
	}

	embedder, err := NewEmbeddingService(cfg, c, log)
	if err != nil {
		closeAll()
		return nil, err
	}
	chat, err := NewCompletionService(cfg, cfg.LLM.Temperature, log)
	if err != nil {
		closeAll()
		return nil, err
	}
	quizChat, err := NewCompletionService(cfg, cfg.Quiz.Temperature, log)
	if err != nil {
		closeAll()
		return nil, err
	}

	container, err := Assemble(cfg, Providers{
		Storage:  storage,
		Cache:    c,
		Embedder: embedder,
		Chat:     chat,
		QuizChat: quizChat,
		Tokens:   NewTokenCounter(cfg, log),
	}, log)
	if err != nil {
		closeAll()
		return nil, err
	}
	container.redisClient = redisClient
	return container, nil
}

// Providers are the external dependencies of the service graph.
type Providers struct {
	Storage  *Storage
	Cache    domain.Cache // nil disables topic caching
	Embedder domain.EmbeddingService
	Chat     domain.CompletionService
	QuizChat domain.CompletionService // defaults to Chat
	Tokens   domain.TokenCounter
}

// Assemble wires the services on top of already constructed providers.
func Assemble(cfg *config.Config, p Providers, log *zap.Logger) (*Container, error) {
	if p.Storage == nil || p.Embedder == nil || p.Chat == nil {
		return nil, fmt.Errorf("storage, embedder and chat providers are required")
	}
	quizChat := p.QuizChat
	if quizChat == nil {
		quizChat = p.Chat
	}

	generator, err := quizgen.NewLLMQuizGenerator(
		quizChat,
		domain.NewPhraseDetector(cfg.Quiz.PassagePhrases...),
		p.Tokens,
		cfg.Quiz.MaxContextTokens,
		log.Named("quizgen"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz generator: %w", err)
	}

	judges := evaluator.NewJudgeSet(
		evaluator.NewExactMatchJudge(),
		evaluator.NewSemanticJudge(p.Chat, log.Named("judge")),
	)

	c := &Container{Storage: p.Storage, Cache: p.Cache}
	if c.Cache == nil {
		c.Cache = adapter.NewNoopCache()
	}

	c.Retrieval = service.NewRetrievalService(p.Storage.Content, p.Embedder, p.Cache, cfg)
	c.Ingest = service.NewIngestService(p.Storage.Content, p.Embedder, c.Retrieval, cfg)
	c.Quiz = service.NewQuizService(c.Retrieval, generator, p.Storage.Attempts)
	c.Grading = service.NewGradingService(p.Storage.Attempts, judges, cfg)
	c.Tutor = service.NewTutorService(c.Retrieval, p.Chat, p.Storage.Messages, p.Storage.Tx, p.Tokens, cfg)
	return c, nil
}

// Ping checks the optional cache.
func (c *Container) Ping(ctx context.Context) error {
	return c.Cache.Ping(ctx)
}

func (c *Container) Close() error {
	if c.redisClient != nil {
		_ = c.redisClient.Close()
	}
	return c.Storage.Close()
}

// NewEmbeddingService selects the embedding provider and wraps it with the
// vector cache when c is non-nil.
func NewEmbeddingService(cfg *config.Config, c domain.Cache, log *zap.Logger) (domain.EmbeddingService, error) {
	var (
		svc   *embedding.LangchainEmbeddingService
		model string
		err   error
	)
	switch cfg.Embedding.Source {
	case "ollama":
		model = cfg.Embedding.Ollama.Model
		log.Info("Initializing Ollama Embedding Service",
			zap.String("server_url", cfg.Embedding.Ollama.ServerURL),
			zap.String("model", model),
		)
		httpClient := &http.Client{Timeout: cfg.LLM.Timeout}
		svc, err = embedding.NewOllamaEmbeddingService(cfg.Embedding.Ollama.ServerURL, model, httpClient)
	case "openai":
		model = cfg.Embedding.OpenAI.Model
		log.Info("Initializing OpenAI Embedding Service", zap.String("model", model))
		svc, err = embedding.NewOpenAIEmbeddingService(cfg.Embedding.OpenAI.APIKey, model, cfg.Embedding.OpenAI.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding source: %s", cfg.Embedding.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding service: %w", err)
	}

	if c == nil {
		return svc, nil
	}
	ttl := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Embedding, 0)
	return embedding.NewCachedEmbeddingService(svc, c, svc.Model(), ttl, log.Named("embedding_cache"))
}

// NewCompletionService selects the chat model provider.
func NewCompletionService(cfg *config.Config, temperature float64, log *zap.Logger) (domain.CompletionService, error) {
	var (
		svc *llm.CompletionService
		err error
	)
	switch cfg.LLM.Provider {
	case "ollama":
		svc, err = llm.NewOllamaCompletionService(cfg.LLM.Ollama.ServerURL, cfg.LLM.Ollama.Model, cfg.LLM.Timeout, temperature, log.Named("llm"))
	case "openai":
		svc, err = llm.NewOpenAICompletionService(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model, cfg.LLM.OpenAI.BaseURL, cfg.LLM.Timeout, temperature, log.Named("llm"))
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create completion service: %w", err)
	}
	return svc, nil
}

// NewTokenCounter prefers the BPE counter and falls back to the
// character estimate when the encoding cannot be loaded.
func NewTokenCounter(cfg *config.Config, log *zap.Logger) domain.TokenCounter {
	counter, err := tokenizer.NewTiktokenCounter(cfg.Quiz.TokenEncoding)
	if err != nil {
		log.Warn("Falling back to approximate token counting", zap.Error(err))
		return tokenizer.ApproxCounter{}
	}
	return counter
}
