package model

import (
	"time"
)

// DefaultTitle is the placeholder title before a session's first user message.
const DefaultTitle = "New Chat"

// ChatSession represents one conversation thread.
type ChatSession struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
}

// History flattens the session's messages into request turns.
func (s *ChatSession) History() []Turn {
	turns := make([]Turn, 0, len(s.Messages))
	for _, msg := range s.Messages {
		turns = append(turns, Turn{Role: msg.Role, Content: msg.Content})
	}
	return turns
}
