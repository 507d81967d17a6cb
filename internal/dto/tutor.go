package dto

// TutorRequest is the body of POST /api/tutor
// @Description One child message to the tutor
type TutorRequest struct {
	ChildID      string `json:"childId" validate:"required"`
	Subject      string `json:"subject" validate:"required"`
	Year         int    `json:"year" validate:"required,min=1,max=6"`
	LanguageMode string `json:"languageMode" validate:"required,oneof=BM_EN BM_ONLY EN_ONLY"`
	Message      string `json:"message" validate:"required"`
	TopicKey     string `json:"topicKey,omitempty"`
}

type SourceRef struct {
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}

type TutorResponse struct {
	Reply   string      `json:"reply"`
	Sources []SourceRef `json:"sources"`
}
