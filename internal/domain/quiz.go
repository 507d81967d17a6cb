package domain

import (
	"fmt"
	"strings"
)

// ItemType is the answer format of a quiz item
type ItemType string

const (
	ItemTypeMCQ   ItemType = "mcq"
	ItemTypeShort ItemType = "short"
)

// Difficulty of a generated quiz
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// LanguageMode controls which language generated content is written in.
type LanguageMode string

const (
	LanguageBMEN   LanguageMode = "BM_EN"
	LanguageBMOnly LanguageMode = "BM_ONLY"
	LanguageENOnly LanguageMode = "EN_ONLY"
)

// QuizItem is a single question in a quiz
type QuizItem struct {
	ID              string   `json:"id"`
	Type            ItemType `json:"type"`
	Question        string   `json:"question"`
	Choices         []string `json:"choices"`
	Answer          string   `json:"answer"`
	Explanation     string   `json:"explanation"`
	RequiresPassage bool     `json:"requiresPassage"`
}

// Quiz is a generated, immutable set of items with an optional shared passage.
type Quiz struct {
	Title   string     `json:"title"`
	Subject string     `json:"subject"`
	Year    int        `json:"year"`
	Passage *string    `json:"passage"`
	Items   []QuizItem `json:"items"`
}

// HasPassage reports whether the quiz carries a non-blank passage.
func (q *Quiz) HasPassage() bool {
	return q.Passage != nil && strings.TrimSpace(*q.Passage) != ""
}

// Validate checks the structural shape of a quiz returned by a model.
func (q *Quiz) Validate() error {
	if len(q.Items) == 0 {
		return NewValidationError("quiz has no items")
	}
	seen := make(map[string]struct{}, len(q.Items))
	for i, item := range q.Items {
		if strings.TrimSpace(item.ID) == "" {
			return NewValidationError(fmt.Sprintf("item %d has no id", i))
		}
		if _, dup := seen[item.ID]; dup {
			return NewValidationError(fmt.Sprintf("duplicate item id %q", item.ID))
		}
		seen[item.ID] = struct{}{}

		if strings.TrimSpace(item.Question) == "" {
			return NewValidationError(fmt.Sprintf("item %s has no question", item.ID))
		}
		if strings.TrimSpace(item.Answer) == "" {
			return NewValidationError(fmt.Sprintf("item %s has no answer", item.ID))
		}
		switch item.Type {
		case ItemTypeMCQ:
			if len(item.Choices) < 2 {
				return NewValidationError(fmt.Sprintf("mcq item %s needs at least two choices", item.ID))
			}
		case ItemTypeShort:
		default:
			return NewValidationError(fmt.Sprintf("item %s has unknown type %q", item.ID, item.Type))
		}
	}
	return nil
}

// QuizRequest holds the generation parameters for one quiz.
type QuizRequest struct {
	Topic        string
	Subject      string
	Year         int
	Difficulty   Difficulty
	Count        int
	LanguageMode LanguageMode
}
