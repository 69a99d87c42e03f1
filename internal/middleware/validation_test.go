package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/litbot/litbot/internal/model"
)

func TestValidateQuery(t *testing.T) {
	assert.NoError(t, ValidateQuery("Ce temă are Ion?"))
	assert.Error(t, ValidateQuery(""))
	assert.Error(t, ValidateQuery("   "))
	assert.Error(t, ValidateQuery(strings.Repeat("a", 10001)))
	assert.Error(t, ValidateQuery(string([]byte{0xff, 0xfe})))
}

func TestValidateHistory(t *testing.T) {
	assert.NoError(t, ValidateHistory(nil))
	assert.NoError(t, ValidateHistory([]model.Turn{
		{Role: model.RoleUser, Content: "salut"},
		{Role: model.RoleAssistant, Content: "salut!"},
	}))
	assert.Error(t, ValidateHistory([]model.Turn{{Role: "system", Content: "x"}}))

	long := make([]model.Turn, 201)
	for i := range long {
		long[i] = model.Turn{Role: model.RoleUser, Content: "x"}
	}
	assert.Error(t, ValidateHistory(long))
}

func TestValidateFeedbackEvent(t *testing.T) {
	assert.NoError(t, ValidateFeedbackEvent(model.FeedbackEvent{
		MessageID: "m1",
		Feedback:  model.FeedbackPositive,
	}))
	assert.NoError(t, ValidateFeedbackEvent(model.FeedbackEvent{
		MessageID: "m1",
		Comment:   "un comentariu",
	}))
	assert.Error(t, ValidateFeedbackEvent(model.FeedbackEvent{Feedback: model.FeedbackPositive}))
	assert.Error(t, ValidateFeedbackEvent(model.FeedbackEvent{MessageID: "m1", Feedback: "great"}))
	assert.Error(t, ValidateFeedbackEvent(model.FeedbackEvent{MessageID: "m1"}))
}
