package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rag-tutor/internal/domain"
)

// QuizPayload stores a generated quiz as a JSONB document.
type QuizPayload domain.Quiz

// Value implements the driver.Valuer interface
func (p QuizPayload) Value() (driver.Value, error) {
	q := domain.Quiz(p)
	if q.Items == nil {
		q.Items = []domain.QuizItem{}
	}
	b, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (p *QuizPayload) Scan(value interface{}) error {
	if value == nil {
		*p = QuizPayload{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("QuizPayload Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(raw) == 0 || string(raw) == "null" {
		*p = QuizPayload{}
		return nil
	}

	var q domain.Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return fmt.Errorf("QuizPayload Scan: %w", err)
	}
	*p = QuizPayload(q)
	return nil
}

// QuizAttempt maps a row of quiz_attempts.
type QuizAttempt struct {
	ID        string       `db:"id"`
	ChildID   string       `db:"child_id"`
	Subject   string       `db:"subject"`
	Year      int          `db:"year"`
	Topic     string       `db:"topic"`
	Score     int          `db:"score"`
	Total     int          `db:"total"`
	Payload   QuizPayload  `db:"payload"`
	CreatedAt time.Time    `db:"created_at"`
	GradedAt  sql.NullTime `db:"graded_at"`
}

// TutorMessage maps a row of tutor_messages.
type TutorMessage struct {
	ID        string         `db:"id"`
	ChildID   string         `db:"child_id"`
	Role      string         `db:"role"`
	Content   string         `db:"content"`
	TopicKey  sql.NullString `db:"topic_key"`
	CreatedAt time.Time      `db:"created_at"`
}
