package domain

import "time"

// QuizAttempt is created with Score 0 right after generation and
// overwritten once per grading.
type QuizAttempt struct {
	ID        string
	ChildID   string
	Subject   string
	Year      int
	Topic     string
	Score     int
	Total     int
	Payload   Quiz
	CreatedAt time.Time
	GradedAt  *time.Time
}

// NewQuizAttempt builds the placeholder attempt for a freshly generated quiz.
func NewQuizAttempt(id, childID, subject string, year int, topic string, quiz Quiz) *QuizAttempt {
	return &QuizAttempt{
		ID:        id,
		ChildID:   childID,
		Subject:   subject,
		Year:      year,
		Topic:     topic,
		Score:     0,
		Total:     len(quiz.Items),
		Payload:   quiz,
		CreatedAt: time.Now(),
	}
}

// GradingResult is the verdict for one quiz item.
type GradingResult struct {
	ID            string   `json:"id"`
	Type          ItemType `json:"type"`
	Question      string   `json:"question"`
	UserAnswer    string   `json:"userAnswer"`
	CorrectAnswer string   `json:"correctAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	Feedback      string   `json:"feedback"`
}

// GradeSummary aggregates per-item verdicts.
type GradeSummary struct {
	AttemptID  string
	Score      int
	Total      int
	Percentage int
	Results    []GradingResult
}
