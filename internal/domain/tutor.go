package domain

import "time"

// MessageRole identifies who wrote a logged tutoring message
type MessageRole string

const (
	MessageRoleKid   MessageRole = "kid"
	MessageRoleTutor MessageRole = "tutor"
)

// TutorMessage is one logged turn of a tutoring conversation.
type TutorMessage struct {
	ID        string
	ChildID   string
	Role      MessageRole
	Content   string
	TopicKey  string
	CreatedAt time.Time
}
