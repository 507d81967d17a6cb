package domain

import (
	"strings"
	"time"
)

// FileMetadata records the uploaded file a chunk was extracted from.
type FileMetadata struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

// ContentChunk is one embedded unit of syllabus material.
// Chunks are immutable once stored.
type ContentChunk struct {
	ID           string
	Subject      string
	Year         int
	Source       string
	ChunkIndex   int
	Content      string
	Embedding    []float32
	FileMetadata *FileMetadata
	CreatedAt    time.Time
}

// NewContentChunk creates a chunk record for one ingestion position.
func NewContentChunk(subject string, year int, source string, index int, content string, embedding []float32) *ContentChunk {
	return &ContentChunk{
		Subject:    subject,
		Year:       year,
		Source:     source,
		ChunkIndex: index,
		Content:    content,
		Embedding:  embedding,
		CreatedAt:  time.Now(),
	}
}

// Validate validates the chunk before it is stored
func (c *ContentChunk) Validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return NewValidationError("subject is required")
	}
	if c.Year <= 0 {
		return NewValidationError("year must be positive")
	}
	if strings.TrimSpace(c.Source) == "" {
		return NewValidationError("source is required")
	}
	if c.ChunkIndex < 0 {
		return NewValidationError("chunk index must not be negative")
	}
	if len(c.Embedding) == 0 {
		return NewValidationError("embedding is required")
	}
	return nil
}

// RetrievalResult is a chunk ranked against a query. Similarity lies in [0,1].
type RetrievalResult struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}

// ClampSimilarity bounds a raw similarity score to [0,1].
func ClampSimilarity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Topic groups chunk source labels for filtering.
type Topic struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}
