package models

// Role identifies the author of a chat message.

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is one entry of a maître conversation. Messages are immutable
// once created; ordering within a session is oldest first.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
