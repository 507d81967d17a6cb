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
)

// sqlxQuizAttemptRepository implements domain.QuizAttemptRepository using sqlx.
type sqlxQuizAttemptRepository struct {
	db *sqlx.DB
}

func NewQuizAttemptRepository(db *sqlx.DB) domain.QuizAttemptRepository {
	return &sqlxQuizAttemptRepository{db: db}
}

const attemptColumns = `id, child_id, subject, year, topic, score, total, payload, created_at, graded_at`

func toDomainQuizAttempt(m *models.QuizAttempt) *domain.QuizAttempt {
	if m == nil {
		return nil
	}
	return &domain.QuizAttempt{
		ID:        m.ID,
		ChildID:   m.ChildID,
		Subject:   m.Subject,
		Year:      m.Year,
		Topic:     m.Topic,
		Score:     m.Score,
		Total:     m.Total,
		Payload:   domain.Quiz(m.Payload),
		CreatedAt: m.CreatedAt,
		GradedAt:  util.NullTimeToPtr(m.GradedAt),
	}
}

func fromDomainQuizAttempt(a *domain.QuizAttempt) *models.QuizAttempt {
	if a == nil {
		return nil
	}
	var gradedAt sql.NullTime
	if a.GradedAt != nil {
		gradedAt = util.TimeToNullTime(*a.GradedAt)
	}
	return &models.QuizAttempt{
		ID:        a.ID,
		ChildID:   a.ChildID,
		Subject:   a.Subject,
		Year:      a.Year,
		Topic:     a.Topic,
		Score:     a.Score,
		Total:     a.Total,
		Payload:   models.QuizPayload(a.Payload),
		CreatedAt: a.CreatedAt,
		GradedAt:  gradedAt,
	}
}

// CreateAttempt inserts a new quiz attempt.
func (r *sqlxQuizAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	if attempt.ID == "" {
		attempt.ID = util.NewULID()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	m := fromDomainQuizAttempt(attempt)

	query := `INSERT INTO quiz_attempts (` + attemptColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID,
		m.ChildID,
		m.Subject,
		m.Year,
		m.Topic,
		m.Score,
		m.Total,
		m.Payload,
		m.CreatedAt,
		m.GradedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	return nil
}

func (r *sqlxQuizAttemptRepository) GetAttemptByID(ctx context.Context, id string) (*domain.QuizAttempt, error) {
	var m models.QuizAttempt
	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts WHERE id = $1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz attempt %s: %w", id, err)
	}
	return toDomainQuizAttempt(&m), nil
}

// UpdateAttemptScore overwrites the score of a graded attempt.
func (r *sqlxQuizAttemptRepository) UpdateAttemptScore(ctx context.Context, id string, score, total int) error {
	query := `UPDATE quiz_attempts SET score = $1, total = $2, graded_at = $3 WHERE id = $4`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, score, total, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update score for attempt %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for attempt %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("attempt %s not found for score update", id)
	}
	return nil
}

// ListRecentAttempts returns attempts newest first.
func (r *sqlxQuizAttemptRepository) ListRecentAttempts(ctx context.Context, limit int) ([]*domain.QuizAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts ORDER BY created_at DESC LIMIT $1`

	var rows []models.QuizAttempt
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent attempts: %w", err)
	}

	attempts := make([]*domain.QuizAttempt, 0, len(rows))
	for i := range rows {
		attempts = append(attempts, toDomainQuizAttempt(&rows[i]))
	}
	return attempts, nil
}
