package embedding

import (
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/embeddings"
	ollamaLLM "github.com/tmc/langchaingo/llms/ollama"
)

// NewOllamaEmbeddingService creates an embedding service backed by a local Ollama server.
func NewOllamaEmbeddingService(serverURL, modelName string, httpClient *http.Client) (*LangchainEmbeddingService, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	opts := []ollamaLLM.Option{
		ollamaLLM.WithModel(modelName),
		ollamaLLM.WithServerURL(serverURL),
	}
	if httpClient != nil {
		opts = append(opts, ollamaLLM.WithHTTPClient(httpClient))
	}

	llm, err := ollamaLLM.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder from Ollama client: %w", err)
	}

	return NewLangchainEmbeddingService(embedder, "ollama", modelName), nil
}
