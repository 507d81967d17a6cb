package repository

import (
	"context"
	"fmt"
	"time"

	"rag-tutor/internal/domain"
	"rag-tutor/internal/repository/models"
	"rag-tutor/internal/util"

	"github.com/jmoiron/sqlx"
)

type sqlxTutorMessageRepository struct {
	db *sqlx.DB
}

func NewTutorMessageRepository(db *sqlx.DB) domain.TutorMessageRepository {
	return &sqlxTutorMessageRepository{db: db}
}

// SaveMessage appends one message to the conversation log. Inside
// WithTransaction it joins the caller's transaction.
func (r *sqlxTutorMessageRepository) SaveMessage(ctx context.Context, msg *domain.TutorMessage) error {
	if msg.ID == "" {
		msg.ID = util.NewULID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	m := models.TutorMessage{
		ID:        msg.ID,
		ChildID:   msg.ChildID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		TopicKey:  util.StringToNullString(msg.TopicKey),
		CreatedAt: msg.CreatedAt,
	}

	query := `INSERT INTO tutor_messages (id, child_id, role, content, topic_key, created_at)
	          VALUES (:id, :child_id, :role, :content, :topic_key, :created_at)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to save tutor message: %w", err)
	}
	return nil
}
