package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rag-tutor/internal/domain"
	"rag-tutor/internal/dto"
	"rag-tutor/internal/handler"
	"rag-tutor/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockIngestService struct {
	IngestFunc func(ctx context.Context, req dto.IngestRequest) (*dto.IngestResponse, error)
}

func (m *MockIngestService) Ingest(ctx context.Context, req dto.IngestRequest) (*dto.IngestResponse, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, req)
	}
	panic("MockIngestService.IngestFunc not implemented")
}

type MockRetrievalService struct {
	RetrieveFunc         func(ctx context.Context, req dto.RetrieveRequest) (*dto.RetrieveResponse, error)
	RetrieveTopicsFunc   func(ctx context.Context, req dto.TopicsRequest) (*dto.TopicsResponse, error)
	InvalidateTopicsFunc func(ctx context.Context, subject string, year int)
}

func (m *MockRetrievalService) Retrieve(ctx context.Context, req dto.RetrieveRequest) (*dto.RetrieveResponse, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, req)
	}
	panic("MockRetrievalService.RetrieveFunc not implemented")
}
func (m *MockRetrievalService) RetrieveTopics(ctx context.Context, req dto.TopicsRequest) (*dto.TopicsResponse, error) {
	if m.RetrieveTopicsFunc != nil {
		return m.RetrieveTopicsFunc(ctx, req)
	}
	panic("MockRetrievalService.RetrieveTopicsFunc not implemented")
}
func (m *MockRetrievalService) InvalidateTopics(ctx context.Context, subject string, year int) {
	if m.InvalidateTopicsFunc != nil {
		m.InvalidateTopicsFunc(ctx, subject, year)
	}
}

type MockQuizService struct {
	GenerateQuizFunc       func(ctx context.Context, req dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error)
	ListRecentAttemptsFunc func(ctx context.Context, req dto.ProgressRequest) (*dto.ProgressResponse, error)
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, req dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, req)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}
func (m *MockQuizService) ListRecentAttempts(ctx context.Context, req dto.ProgressRequest) (*dto.ProgressResponse, error) {
	if m.ListRecentAttemptsFunc != nil {
		return m.ListRecentAttemptsFunc(ctx, req)
	}
	panic("MockQuizService.ListRecentAttemptsFunc not implemented")
}

type MockGradingService struct {
	SubmitAttemptFunc func(ctx context.Context, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResponse, error)
}

func (m *MockGradingService) SubmitAttempt(ctx context.Context, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResponse, error) {
	if m.SubmitAttemptFunc != nil {
		return m.SubmitAttemptFunc(ctx, req)
	}
	panic("MockGradingService.SubmitAttemptFunc not implemented")
}

type MockTutorService struct {
	ReplyFunc func(ctx context.Context, req dto.TutorRequest) (*dto.TutorResponse, error)
}

func (m *MockTutorService) Reply(ctx context.Context, req dto.TutorRequest) (*dto.TutorResponse, error) {
	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, req)
	}
	panic("MockTutorService.ReplyFunc not implemented")
}

// --- Helpers ---

func setupApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// --- Content ---

func TestContentHandler_Ingest(t *testing.T) {
	ingest := &MockIngestService{
		IngestFunc: func(ctx context.Context, req dto.IngestRequest) (*dto.IngestResponse, error) {
			assert.Equal(t, "BM", req.Subject)
			assert.Equal(t, 3, req.Year)
			return &dto.IngestResponse{
				InsertedCount: 1,
				ChunkCount:    2,
				Errors:        []dto.ChunkError{{ChunkIndex: 1, Message: "embedding failed"}},
			}, nil
		},
	}
	app := setupApp()
	h := handler.NewContentHandler(ingest, &MockRetrievalService{})
	app.Post("/api/ingest", h.Ingest)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/ingest", dto.IngestRequest{
		Subject: "BM", Year: 3, Source: "Unit 1", Text: "Kucing suka ikan.",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.IngestResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, 1, body.InsertedCount)
	assert.Equal(t, 2, body.ChunkCount)
	require.Len(t, body.Errors, 1)
}

func TestContentHandler_Ingest_MalformedBody(t *testing.T) {
	app := setupApp()
	h := handler.NewContentHandler(&MockIngestService{}, &MockRetrievalService{})
	app.Post("/api/ingest", h.Ingest)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContentHandler_Ingest_AllChunksFailed(t *testing.T) {
	ingest := &MockIngestService{
		IngestFunc: func(ctx context.Context, req dto.IngestRequest) (*dto.IngestResponse, error) {
			return nil, domain.NewUpstreamError("no chunks could be stored", nil)
		},
	}
	app := setupApp()
	h := handler.NewContentHandler(ingest, &MockRetrievalService{})
	app.Post("/api/ingest", h.Ingest)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/ingest", dto.IngestRequest{Subject: "BM"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestContentHandler_GetTopics(t *testing.T) {
	retrieval := &MockRetrievalService{
		RetrieveTopicsFunc: func(ctx context.Context, req dto.TopicsRequest) (*dto.TopicsResponse, error) {
			assert.Equal(t, "BM", req.Subject)
			assert.Equal(t, 2, req.Year)
			return &dto.TopicsResponse{Topics: []domain.Topic{{Key: "unit 1", Label: "Unit 1"}}}, nil
		},
	}
	app := setupApp()
	h := handler.NewContentHandler(&MockIngestService{}, retrieval)
	vm := middleware.NewValidationMiddleware()
	app.Get("/api/topics", vm.ValidateTopicsQuery(), h.GetTopics)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/topics?subject=BM&year=2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.TopicsResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Topics, 1)
	assert.Equal(t, "Unit 1", body.Topics[0].Label)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/topics?subject=BM", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContentHandler_GetTopics_WithoutMiddleware(t *testing.T) {
	retrieval := &MockRetrievalService{
		RetrieveTopicsFunc: func(ctx context.Context, req dto.TopicsRequest) (*dto.TopicsResponse, error) {
			assert.Equal(t, "Sains", req.Subject)
			assert.Equal(t, 4, req.Year)
			return &dto.TopicsResponse{Topics: []domain.Topic{}}, nil
		},
	}
	app := setupApp()
	h := handler.NewContentHandler(&MockIngestService{}, retrieval)
	app.Get("/api/topics", h.GetTopics)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/topics?subject=Sains&year=4", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestContentHandler_Retrieve(t *testing.T) {
	retrieval := &MockRetrievalService{
		RetrieveFunc: func(ctx context.Context, req dto.RetrieveRequest) (*dto.RetrieveResponse, error) {
			assert.Equal(t, "unit 2", req.TopicKey)
			return &dto.RetrieveResponse{Results: []domain.RetrievalResult{
				{ID: "c1", Content: "Ayam berkokok", Source: "Unit 2", Similarity: 0.9},
			}}, nil
		},
	}
	app := setupApp()
	h := handler.NewContentHandler(&MockIngestService{}, retrieval)
	app.Post("/api/retrieve", h.Retrieve)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/retrieve", dto.RetrieveRequest{
		Subject: "BM", Year: 1, Query: "ayam", TopicKey: "unit 2",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.RetrieveResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "c1", body.Results[0].ID)
}

// --- Quiz ---

func TestQuizHandler_GenerateQuiz(t *testing.T) {
	quizzes := &MockQuizService{
		GenerateQuizFunc: func(ctx context.Context, req dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
			assert.Equal(t, "kid-1", req.ChildID)
			return &dto.GenerateQuizResponse{
				AttemptID: "01J0000000000000000000000A",
				Quiz: domain.Quiz{Title: "Unit 1", Items: []domain.QuizItem{
					{ID: "q1", Type: domain.ItemTypeShort, Question: "Apa?", Answer: "Ya"},
				}},
			}, nil
		},
	}
	app := setupApp()
	h := handler.NewQuizHandler(quizzes, &MockGradingService{})
	app.Post("/api/quiz", h.GenerateQuiz)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/quiz", dto.GenerateQuizRequest{
		ChildID: "kid-1", Subject: "BM", Year: 3, Topic: "Unit 1",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "01J0000000000000000000000A", body["attemptId"])
	assert.Contains(t, body, "quiz")
}

func TestQuizHandler_GenerateQuiz_GenerationFailure(t *testing.T) {
	quizzes := &MockQuizService{
		GenerateQuizFunc: func(ctx context.Context, req dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
			return nil, domain.NewGenerationError("question references a passage but none was provided", nil)
		},
	}
	app := setupApp()
	h := handler.NewQuizHandler(quizzes, &MockGradingService{})
	app.Post("/api/quiz", h.GenerateQuiz)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/quiz", dto.GenerateQuizRequest{ChildID: "k"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body middleware.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "GENERATION_FAILURE", body.Code)
	assert.Contains(t, body.Message, "passage")
}

func TestQuizHandler_SubmitAttempt(t *testing.T) {
	grading := &MockGradingService{
		SubmitAttemptFunc: func(ctx context.Context, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResponse, error) {
			assert.Equal(t, "att-1", req.AttemptID)
			assert.Equal(t, "B", req.Answers["q1"])
			return &dto.SubmitAttemptResponse{Score: 1, Total: 2, Percentage: 50}, nil
		},
	}
	app := setupApp()
	h := handler.NewQuizHandler(&MockQuizService{}, grading)
	app.Post("/api/quiz/submit", h.SubmitAttempt)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/quiz/submit", dto.SubmitAttemptRequest{
		AttemptID: "att-1", Answers: map[string]string{"q1": "B"},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.SubmitAttemptResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, 50, body.Percentage)
}

func TestQuizHandler_SubmitAttempt_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown attempt", domain.NewNotFoundError("attempt not found"), http.StatusNotFound},
		{"empty attempt", domain.NewInvalidAttemptError("attempt has no items"), http.StatusConflict},
		{"store down", domain.NewUpstreamError("failed to save score", nil), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grading := &MockGradingService{
				SubmitAttemptFunc: func(ctx context.Context, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResponse, error) {
					return nil, tt.err
				},
			}
			app := setupApp()
			h := handler.NewQuizHandler(&MockQuizService{}, grading)
			app.Post("/api/quiz/submit", h.SubmitAttempt)

			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/quiz/submit", dto.SubmitAttemptRequest{AttemptID: "x"}))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestQuizHandler_GetProgress(t *testing.T) {
	quizzes := &MockQuizService{
		ListRecentAttemptsFunc: func(ctx context.Context, req dto.ProgressRequest) (*dto.ProgressResponse, error) {
			assert.Equal(t, 5, req.Limit)
			return &dto.ProgressResponse{Attempts: []dto.AttemptSummary{{ID: "a1", Score: 3, Total: 5}}}, nil
		},
	}
	app := setupApp()
	h := handler.NewQuizHandler(quizzes, &MockGradingService{})
	vm := middleware.NewValidationMiddleware()
	app.Get("/api/progress", vm.ValidateProgressQuery(), h.GetProgress)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/progress?limit=5", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ProgressResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Attempts, 1)
	assert.Equal(t, "a1", body.Attempts[0].ID)
}

// --- Tutor ---

func TestTutorHandler_Reply(t *testing.T) {
	tutor := &MockTutorService{
		ReplyFunc: func(ctx context.Context, req dto.TutorRequest) (*dto.TutorResponse, error) {
			assert.Equal(t, "BM_ONLY", req.LanguageMode)
			return &dto.TutorResponse{
				Reply:   "Kucing ialah haiwan.",
				Sources: []dto.SourceRef{{Source: "Unit 1", Similarity: 0.8}},
			}, nil
		},
	}
	app := setupApp()
	h := handler.NewTutorHandler(tutor)
	app.Post("/api/tutor", h.Reply)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/tutor", dto.TutorRequest{
		ChildID: "kid-1", Subject: "BM", Year: 1, LanguageMode: "BM_ONLY", Message: "Apa itu kucing?",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.TutorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Kucing ialah haiwan.", body.Reply)
	require.Len(t, body.Sources, 1)
}

func TestTutorHandler_Reply_ValidationError(t *testing.T) {
	tutor := &MockTutorService{
		ReplyFunc: func(ctx context.Context, req dto.TutorRequest) (*dto.TutorResponse, error) {
			return nil, domain.ValidationErrors{domain.NewMissingFieldError("message")}
		},
	}
	app := setupApp()
	h := handler.NewTutorHandler(tutor)
	app.Post("/api/tutor", h.Reply)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/tutor", dto.TutorRequest{ChildID: "k"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "message", body.Errors[0].Field)
}
