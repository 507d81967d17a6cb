package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rag-tutor/internal/domain"
	"rag-tutor/internal/repository/models"
	"rag-tutor/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
)

// sqlxContentChunkRepository implements domain.ContentRepository on postgres with pgvector.
type sqlxContentChunkRepository struct {
	db *sqlx.DB
}

func NewContentChunkRepository(db *sqlx.DB) domain.ContentRepository {
	return &sqlxContentChunkRepository{db: db}
}

func toDomainContentChunk(m *models.ContentChunk) *domain.ContentChunk {
	if m == nil {
		return nil
	}
	chunk := &domain.ContentChunk{
		ID:         m.ID,
		Subject:    m.Subject,
		Year:       m.Year,
		Source:     m.Source,
		ChunkIndex: m.ChunkIndex,
		Content:    m.Content,
		Embedding:  m.Embedding.Slice(),
		CreatedAt:  m.CreatedAt,
	}
	if m.FileURL.Valid || m.FileName.Valid || m.FileType.Valid {
		chunk.FileMetadata = &domain.FileMetadata{
			URL:      util.NullStringToString(m.FileURL),
			Name:     util.NullStringToString(m.FileName),
			MimeType: util.NullStringToString(m.FileType),
		}
	}
	return chunk
}

func fromDomainContentChunk(c *domain.ContentChunk) *models.ContentChunk {
	if c == nil {
		return nil
	}
	m := &models.ContentChunk{
		ID:         c.ID,
		Subject:    c.Subject,
		Year:       c.Year,
		Source:     c.Source,
		ChunkIndex: c.ChunkIndex,
		Content:    c.Content,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
	}
	if c.FileMetadata != nil {
		m.FileURL = util.StringToNullString(c.FileMetadata.URL)
		m.FileName = util.StringToNullString(c.FileMetadata.Name)
		m.FileType = util.StringToNullString(c.FileMetadata.MimeType)
	}
	return m
}

// InsertChunk stores a chunk, assigning an id when it has none.
func (r *sqlxContentChunkRepository) InsertChunk(ctx context.Context, chunk *domain.ContentChunk) error {
	if chunk.ID == "" {
		chunk.ID = util.NewChunkID()
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now()
	}
	m := fromDomainContentChunk(chunk)

	query := `INSERT INTO content_chunks (id, subject, year, source, chunk_index, content, embedding, file_url, file_name, file_type, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID,
		m.Subject,
		m.Year,
		m.Source,
		m.ChunkIndex,
		m.Content,
		m.Embedding,
		m.FileURL,
		m.FileName,
		m.FileType,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert content chunk: %w", err)
	}
	return nil
}

func (r *sqlxContentChunkRepository) GetChunkByID(ctx context.Context, id string) (*domain.ContentChunk, error) {
	var m models.ContentChunk
	query := `SELECT id, subject, year, source, chunk_index, content, embedding, file_url, file_name, file_type, created_at
	          FROM content_chunks WHERE id = $1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content chunk %s: %w", id, err)
	}
	return toDomainContentChunk(&m), nil
}

// SimilaritySearch ranks chunks by cosine similarity, 1 - cosine distance.
func (r *sqlxContentChunkRepository) SimilaritySearch(ctx context.Context, queryVector []float32, subject string, year int, limit int) ([]domain.RetrievalResult, error) {
	if limit <= 0 {
		return []domain.RetrievalResult{}, nil
	}

	query := `SELECT id, content, source, 1 - (embedding <=> $1) AS similarity
	          FROM content_chunks
	          WHERE subject = $2 AND year = $3
	          ORDER BY embedding <=> $1
	          LIMIT $4`

	var rows []models.RetrievalRow
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, pgvector.NewVector(queryVector), subject, year, limit); err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	results := make([]domain.RetrievalResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domain.RetrievalResult{
			ID:         row.ID,
			Content:    row.Content,
			Source:     row.Source,
			Similarity: domain.ClampSimilarity(row.Similarity),
		})
	}
	return results, nil
}

// ListSources returns distinct sources in first-ingested order.
func (r *sqlxContentChunkRepository) ListSources(ctx context.Context, subject string, year int) ([]string, error) {
	query := `SELECT source FROM content_chunks
	          WHERE subject = $1 AND year = $2
	          GROUP BY source
	          ORDER BY MIN(created_at)`

	var sources []string
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &sources, query, subject, year); err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	if sources == nil {
		sources = []string{}
	}
	return sources, nil
}
