package domain

import "context"

// ChatRole identifies the author of a chat message sent to a completion model.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is a single turn in a completion request.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// ResponseSchema constrains a completion to JSON matching Schema.
type ResponseSchema struct {
	Name   string
	Schema map[string]interface{}
}

// CompletionService is the generative model port.
// A non-nil schema asks the model to emit schema-conformant JSON only.
type CompletionService interface {
	Complete(ctx context.Context, messages []ChatMessage, schema *ResponseSchema) (string, error)
}

// SystemMessage and UserMessage are shorthands for building requests.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}
