package dto

import "rag-tutor/internal/domain"

// RetrieveRequest asks for the chunks most similar to Query
// @Description Similarity search scoped by subject, year and optional topic
type RetrieveRequest struct {
	Subject  string `json:"subject" validate:"required"`
	Year     int    `json:"year" validate:"required,min=1,max=6"`
	Query    string `json:"query" validate:"required"`
	TopK     int    `json:"topK" validate:"omitempty,min=1,max=50"`
	TopicKey string `json:"topicKey,omitempty"`
}

type RetrieveResponse struct {
	Results []domain.RetrievalResult `json:"results"`
}

// TopicsRequest is bound from the query string of GET /api/topics.
type TopicsRequest struct {
	Subject string `query:"subject" validate:"required"`
	Year    int    `query:"year" validate:"required,min=1,max=6"`
}

type TopicsResponse struct {
	Topics []domain.Topic `json:"topics"`
}
