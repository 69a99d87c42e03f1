// Package model defines data structures for the chat application.
package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Feedback represents a user's verdict on an assistant message.
// The empty value means no feedback has been given yet.
type Feedback string

const (
	FeedbackNone     Feedback = ""
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// Valid reports whether f is one of the two settable feedback values.
func (f Feedback) Valid() bool {
	return f == FeedbackPositive || f == FeedbackNegative
}

// Message represents one turn in a conversation.
//
// For a user message, Content is set once at creation. For an assistant
// message, Content starts empty and is overwritten in full with the
// accumulated answer as the stream progresses.
type Message struct {
	ID               string    `json:"id"`
	Role             Role      `json:"role"`
	Content          string    `json:"content"`
	Feedback         Feedback  `json:"feedback,omitempty"`
	Comment          string    `json:"comment,omitempty"`
	CommentSubmitted bool      `json:"comment_submitted,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Turn is one prior {role, content} exchange carried in a chat request.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a streaming chat request.
type ChatRequest struct {
	Query   string `json:"query"`
	History []Turn `json:"history"`
}

// FeedbackEvent is a feedback report forwarded to the analytics sink.
type FeedbackEvent struct {
	MessageID string    `json:"message_id"`
	Feedback  Feedback  `json:"feedback,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
