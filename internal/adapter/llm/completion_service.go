// Package llm adapts langchaingo chat models to domain.CompletionService.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rag-tutor/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	lcschema "github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// CompletionService sends chat messages to a langchaingo model.
type CompletionService struct {
	model       llms.Model
	temperature float64
	logger      *zap.Logger
}

// NewCompletionService wraps an already constructed model.
func NewCompletionService(model llms.Model, temperature float64, logger *zap.Logger) *CompletionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompletionService{model: model, temperature: temperature, logger: logger}
}

// NewOpenAICompletionService creates a completion service backed by the OpenAI API.
func NewOpenAICompletionService(apiKey, modelName, baseURL string, timeout time.Duration, temperature float64, logger *zap.Logger) (*CompletionService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("openai model name cannot be empty")
	}
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(modelName),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}
	return NewCompletionService(model, temperature, logger), nil
}

// NewOllamaCompletionService creates a completion service backed by a local Ollama server.
func NewOllamaCompletionService(serverURL, modelName string, timeout time.Duration, temperature float64, logger *zap.Logger) (*CompletionService, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	model, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(modelName),
		ollama.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	return NewCompletionService(model, temperature, logger), nil
}

// Complete implements domain.CompletionService. With a schema the model is
// put in JSON mode; the schema text itself travels in the prompt.
func (s *CompletionService) Complete(ctx context.Context, messages []domain.ChatMessage, schema *domain.ResponseSchema) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("completion requires at least one message")
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(toChatMessageType(m.Role), m.Content))
	}

	opts := []llms.CallOption{llms.WithTemperature(s.temperature)}
	if schema != nil {
		opts = append(opts, llms.WithJSONMode())
	}

	start := time.Now()
	resp, err := s.model.GenerateContent(ctx, content, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("LLM request timed out", zap.Error(err))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		s.logger.Error("Failed to get response from LLM", zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	s.logger.Debug("LLM completion finished",
		zap.Int("messages", len(messages)),
		zap.Bool("json_mode", schema != nil),
		zap.Duration("duration", time.Since(start)),
	)
	return resp.Choices[0].Content, nil
}

func toChatMessageType(role domain.ChatRole) lcschema.ChatMessageType {
	switch role {
	case domain.RoleSystem:
		return lcschema.ChatMessageTypeSystem
	case domain.RoleAssistant:
		return lcschema.ChatMessageTypeAI
	default:
		return lcschema.ChatMessageTypeHuman
	}
}

var _ domain.CompletionService = (*CompletionService)(nil)
