package domain

import (
	"errors"
	"strings"
)

// DefaultPassagePhrases are lower-case phrases that mark a question as
// pointing at a shared passage.
var DefaultPassagePhrases = []string{
	"based on the passage",
	"according to the story",
	"according to the passage",
	"from the passage",
	"berdasarkan petikan",
	"menurut petikan",
	"berdasarkan cerita",
	"menurut cerita",
	"daripada petikan",
	"dalam petikan",
}

var (
	ErrPassageMissing     = errors.New("questions reference a passage that was not generated")
	ErrPassageFlagMissing = errors.New("passage-referencing questions missing the requiresPassage flag")
)

// PassageReferenceDetector decides whether a question depends on shared context.
type PassageReferenceDetector interface {
	ReferencesSharedContext(question string) bool
}

// PhraseDetector matches questions against a fixed list of lower-case phrases.
type PhraseDetector struct {
	phrases []string
}

// NewPhraseDetector builds a detector from the default phrases plus extra.
func NewPhraseDetector(extra ...string) *PhraseDetector {
	phrases := make([]string, 0, len(DefaultPassagePhrases)+len(extra))
	phrases = append(phrases, DefaultPassagePhrases...)
	for _, p := range extra {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			phrases = append(phrases, p)
		}
	}
	return &PhraseDetector{phrases: phrases}
}

func (d *PhraseDetector) ReferencesSharedContext(question string) bool {
	q := strings.ToLower(question)
	for _, p := range d.phrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

// ValidatePassageConsistency enforces that passage-referencing items come with
// a passage and carry requiresPassage.
func ValidatePassageConsistency(q *Quiz, detector PassageReferenceDetector) error {
	var referencing []QuizItem
	for _, item := range q.Items {
		if detector.ReferencesSharedContext(item.Question) {
			referencing = append(referencing, item)
		}
	}
	if len(referencing) == 0 {
		return nil
	}
	if !q.HasPassage() {
		return ErrPassageMissing
	}
	for _, item := range referencing {
		if !item.RequiresPassage {
			return ErrPassageFlagMissing
		}
	}
	return nil
}
