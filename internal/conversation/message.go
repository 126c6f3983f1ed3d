// Package conversation holds the conversation data model and the state
// manager that owns it.
package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Role discriminates who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PlaceholderTitle is the title given to a conversation that has never been
// used. It is rewritten exactly once, on the first send.
const PlaceholderTitle = "New conversation"

// Message is a single entry in a conversation.
// Timestamp is nil for legacy messages persisted before timestamps existed.
type Message struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Conversation is the metadata of a named message thread.
type Conversation struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewUserMessage returns a user message stamped with the current time.
func NewUserMessage(content string) *Message {
	now := time.Now()
	return &Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: &now,
	}
}

// NewAssistantMessage returns an assistant message stamped with the current time.
func NewAssistantMessage(content string) *Message {
	now := time.Now()
	return &Message{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: &now,
	}
}

// NewConversation returns an empty conversation with the placeholder title.
func NewConversation() *Conversation {
	return &Conversation{
		ID:    uuid.New().String(),
		Title: PlaceholderTitle,
	}
}
