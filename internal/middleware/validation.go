package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/litbot/litbot/internal/model"
)

// ValidateQuery validates the query of a chat request.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return errors.New("query cannot be empty")
	}
	if len(query) > 10000 {
		return errors.New("query exceeds maximum length")
	}
	if !utf8.ValidString(query) {
		return errors.New("query must be valid UTF-8")
	}
	return nil
}

// ValidateHistory validates the prior turns of a chat request.
func ValidateHistory(history []model.Turn) error {
	if len(history) > 200 {
		return errors.New("history exceeds maximum length")
	}
	for _, turn := range history {
		if turn.Role != model.RoleUser && turn.Role != model.RoleAssistant {
			return errors.New("history role must be user or assistant")
		}
		if !utf8.ValidString(turn.Content) {
			return errors.New("history content must be valid UTF-8")
		}
	}
	return nil
}

// ValidateFeedbackEvent validates a feedback report.
func ValidateFeedbackEvent(ev model.FeedbackEvent) error {
	if ev.MessageID == "" {
		return errors.New("message_id cannot be empty")
	}
	if ev.Feedback != model.FeedbackNone && !ev.Feedback.Valid() {
		return errors.New("feedback must be positive or negative")
	}
	if ev.Feedback == model.FeedbackNone && strings.TrimSpace(ev.Comment) == "" {
		return errors.New("feedback event carries no feedback or comment")
	}
	return nil
}
