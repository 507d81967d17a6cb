package service

import (
	"context"
	"fmt"
	"strings"

	"rag-tutor/internal/config"
	"rag-tutor/internal/domain"
	"rag-tutor/internal/dto"
	"rag-tutor/internal/logger"
	"rag-tutor/internal/validation"

	"go.uber.org/zap"
)

const (
	tutorContextTopK = 6
	fallbackReply    = "Maaf, saya tak dapat jawab sekarang."
)

// TutorService answers a child's question from the retrieved syllabus notes.
type TutorService interface {
	Reply(ctx context.Context, req dto.TutorRequest) (*dto.TutorResponse, error)
}

type tutorService struct {
	retrieval        RetrievalService
	completion       domain.CompletionService
	messages         domain.TutorMessageRepository
	tx               domain.TransactionManager
	counter          domain.TokenCounter
	maxContextTokens int
	validator        *validation.Validator
	logger           *zap.Logger
}

// NewTutorService creates a TutorService. messages and tx may be nil, which
// disables conversation logging.
func NewTutorService(
	retrieval RetrievalService,
	completion domain.CompletionService,
	messages domain.TutorMessageRepository,
	tx domain.TransactionManager,
	counter domain.TokenCounter,
	cfg *config.Config,
) TutorService {
	return &tutorService{
		retrieval:        retrieval,
		completion:       completion,
		messages:         messages,
		tx:               tx,
		counter:          counter,
		maxContextTokens: cfg.Quiz.MaxContextTokens,
		validator:        validation.NewValidator(),
		logger:           logger.Named("tutor"),
	}
}

func (s *tutorService) Reply(ctx context.Context, req dto.TutorRequest) (*dto.TutorResponse, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	retrieved, err := s.retrieval.Retrieve(ctx, dto.RetrieveRequest{
		Subject:  req.Subject,
		Year:     req.Year,
		Query:    req.Message,
		TopK:     tutorContextTopK,
		TopicKey: req.TopicKey,
	})
	if err != nil {
		return nil, err
	}

	notes := domain.FormatRetrievedContext(retrieved.Results, s.counter, s.maxContextTokens)
	messages := []domain.ChatMessage{
		domain.SystemMessage(tutorSystemPrompt(req.Year, domain.LanguageMode(req.LanguageMode), req.TopicKey)),
		domain.UserMessage(fmt.Sprintf("CONTEXT (syllabus and notes):\n%s\n\nCHILD'S MESSAGE:\n%s", notes, req.Message)),
	}

	out, err := s.completion.Complete(ctx, messages, nil)
	if err != nil {
		return nil, domain.NewUpstreamError("tutor completion failed", err)
	}
	reply := strings.TrimSpace(out)
	if reply == "" {
		reply = fallbackReply
	}

	s.logConversation(ctx, req, reply)

	sources := make([]dto.SourceRef, 0, len(retrieved.Results))
	for _, r := range retrieved.Results {
		sources = append(sources, dto.SourceRef{Source: r.Source, Similarity: r.Similarity})
	}
	return &dto.TutorResponse{Reply: reply, Sources: sources}, nil
}

// logConversation stores both turns together. Failures are only logged.
func (s *tutorService) logConversation(ctx context.Context, req dto.TutorRequest, reply string) {
	if s.messages == nil || s.tx == nil {
		return
	}
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.messages.SaveMessage(txCtx, &domain.TutorMessage{
			ChildID:  req.ChildID,
			Role:     domain.MessageRoleKid,
			Content:  req.Message,
			TopicKey: req.TopicKey,
		}); err != nil {
			return err
		}
		return s.messages.SaveMessage(txCtx, &domain.TutorMessage{
			ChildID:  req.ChildID,
			Role:     domain.MessageRoleTutor,
			Content:  reply,
			TopicKey: req.TopicKey,
		})
	})
	if err != nil {
		s.logger.Warn("Failed to log tutor conversation", zap.String("child_id", req.ChildID), zap.Error(err))
	}
}

func tutorSystemPrompt(year int, mode domain.LanguageMode, topicKey string) string {
	var lang string
	switch mode {
	case domain.LanguageBMOnly:
		lang = "Reply in Bahasa Melayu only."
	case domain.LanguageENOnly:
		lang = "Reply in English only."
	default:
		lang = "Reply mainly in Bahasa Melayu. If the child is confused you may add a short explanation in English."
	}

	level := "Use clear, structured explanations. Highlight key words and the steps to answer."
	if year <= 3 {
		level = "Use short sentences and simple examples, and ask small questions to check understanding."
	}

	topic := "If no topic is selected, follow the most relevant context."
	if strings.TrimSpace(topicKey) != "" {
		topic = fmt.Sprintf("Focus the explanation on the topic %q.", topicKey)
	}

	return strings.Join([]string{
		"You are a Malaysian primary school tutor.",
		fmt.Sprintf("The child is in Year %d of primary school (Tahun %d, not Tingkatan). Never use the term \"Tingkatan\".", year, year),
		"Follow the syllabus and notes given as context. Do not invent standards that are not in the context.",
		lang,
		level,
		topic,
		"Teaching style: ask a few diagnostic questions when needed, teach step by step, give a short exercise, then summarise.",
		"For practice questions give a hint first instead of the final answer, then check the child's answer.",
		"If the context is not enough, ask one clear question or give a safe general explanation and say that it is general.",
	}, "\n")
}
