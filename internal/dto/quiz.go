package dto

import (
	"time"

	"rag-tutor/internal/domain"
)

const (
	DefaultQuizCount    = 6
	DefaultProgressSize = 30
	MaxProgressSize     = 100
)

// GenerateQuizRequest is the body of POST /api/quiz
// @Description Parameters for a generated quiz
type GenerateQuizRequest struct {
	ChildID      string `json:"childId" validate:"required"`
	Subject      string `json:"subject" validate:"required"`
	Year         int    `json:"year" validate:"required,min=1,max=6"`
	Topic        string `json:"topic" validate:"required"`
	Difficulty   string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Count        int    `json:"count,omitempty" validate:"omitempty,min=3,max=15"`
	LanguageMode string `json:"languageMode,omitempty" validate:"omitempty,oneof=BM_EN BM_ONLY EN_ONLY"`
}

// ApplyDefaults fills optional fields left empty by the caller.
func (r *GenerateQuizRequest) ApplyDefaults() {
	if r.Difficulty == "" {
		r.Difficulty = string(domain.DifficultyEasy)
	}
	if r.Count == 0 {
		r.Count = DefaultQuizCount
	}
	if r.LanguageMode == "" {
		r.LanguageMode = string(domain.LanguageBMEN)
	}
}

// ToDomain converts the request into generator parameters.
func (r GenerateQuizRequest) ToDomain() domain.QuizRequest {
	return domain.QuizRequest{
		Topic:        r.Topic,
		Subject:      r.Subject,
		Year:         r.Year,
		Difficulty:   domain.Difficulty(r.Difficulty),
		Count:        r.Count,
		LanguageMode: domain.LanguageMode(r.LanguageMode),
	}
}

type GenerateQuizResponse struct {
	Quiz      domain.Quiz `json:"quiz"`
	AttemptID string      `json:"attemptId"`
}

// SubmitAttemptRequest is the body of POST /api/quiz/submit
// @Description Answers keyed by quiz item id
type SubmitAttemptRequest struct {
	AttemptID string            `json:"attemptId" validate:"required"`
	Answers   map[string]string `json:"answers" validate:"required"`
}

type SubmitAttemptResponse struct {
	Score      int                    `json:"score"`
	Total      int                    `json:"total"`
	Percentage int                    `json:"percentage"`
	Results    []domain.GradingResult `json:"results"`
}

// ProgressRequest is bound from the query string of GET /api/progress.
type ProgressRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// AttemptSummary is one row of the progress listing.
type AttemptSummary struct {
	ID        string     `json:"id"`
	ChildID   string     `json:"childId"`
	Subject   string     `json:"subject"`
	Year      int        `json:"year"`
	Topic     string     `json:"topic"`
	Score     int        `json:"score"`
	Total     int        `json:"total"`
	CreatedAt time.Time  `json:"createdAt"`
	GradedAt  *time.Time `json:"gradedAt,omitempty"`
}

type ProgressResponse struct {
	Attempts []AttemptSummary `json:"attempts"`
}

// NewAttemptSummary drops the quiz payload from an attempt.
func NewAttemptSummary(a *domain.QuizAttempt) AttemptSummary {
	return AttemptSummary{
		ID:        a.ID,
		ChildID:   a.ChildID,
		Subject:   a.Subject,
		Year:      a.Year,
		Topic:     a.Topic,
		Score:     a.Score,
		Total:     a.Total,
		CreatedAt: a.CreatedAt,
		GradedAt:  a.GradedAt,
	}
}
