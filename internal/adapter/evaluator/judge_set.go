package evaluator

import (
	"context"

	"rag-tutor/internal/domain"
)

// JudgeSet dispatches to a judge by item type. Types without a registered
// judge go to the fallback.
type JudgeSet struct {
	byType   map[domain.ItemType]domain.AnswerJudge
	fallback domain.AnswerJudge
}

// NewJudgeSet registers exact matching for mcq and semantic judgment for
// short answers, which is also the fallback.
func NewJudgeSet(exact, semantic domain.AnswerJudge) *JudgeSet {
	return &JudgeSet{
		byType: map[domain.ItemType]domain.AnswerJudge{
			domain.ItemTypeMCQ:   exact,
			domain.ItemTypeShort: semantic,
		},
		fallback: semantic,
	}
}

// Register adds or replaces the judge for one item type.
func (s *JudgeSet) Register(t domain.ItemType, judge domain.AnswerJudge) {
	s.byType[t] = judge
}

func (s *JudgeSet) Judge(ctx context.Context, item domain.QuizItem, submitted string) bool {
	if judge, ok := s.byType[item.Type]; ok {
		return judge.Judge(ctx, item, submitted)
	}
	return s.fallback.Judge(ctx, item, submitted)
}

var _ domain.AnswerJudge = (*JudgeSet)(nil)
