package models

import (
	"database/sql"
	"time"

	"github.com/pgvector/pgvector-go"
)

// ContentChunk maps a row of content_chunks.
type ContentChunk struct {
	ID         string          `db:"id"`
	Subject    string          `db:"subject"`
	Year       int             `db:"year"`
	Source     string          `db:"source"`
	ChunkIndex int             `db:"chunk_index"`
	Content    string          `db:"content"`
	Embedding  pgvector.Vector `db:"embedding"`
	FileURL    sql.NullString  `db:"file_url"`
	FileName   sql.NullString  `db:"file_name"`
	FileType   sql.NullString  `db:"file_type"`
	CreatedAt  time.Time       `db:"created_at"`
}

// RetrievalRow is one row of a similarity search.
type RetrievalRow struct {
	ID         string  `db:"id"`
	Content    string  `db:"content"`
	Source     string  `db:"source"`
	Similarity float64 `db:"similarity"`
}
