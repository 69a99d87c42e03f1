package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/litbot/litbot/internal/feedback"
	"github.com/litbot/litbot/internal/middleware"
	"github.com/litbot/litbot/internal/model"
	"github.com/litbot/litbot/pkg/logger"
)

// FeedbackHandler handles feedback reports.
type FeedbackHandler struct {
	sink   feedback.Sink
	logger *logger.Logger
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(sink feedback.Sink, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		sink:   sink,
		logger: log,
	}
}

// Record handles POST /api/v1/feedback
//
// Delivery to the sink is best effort: a sink failure is logged and the
// request is still accepted.
func (h *FeedbackHandler) Record(w http.ResponseWriter, r *http.Request) {
	var ev model.FeedbackEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	if err := middleware.ValidateFeedbackEvent(ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sink.Record(r.Context(), ev); err != nil {
		h.logger.Warn("feedback sink failed",
			zap.Error(err),
			zap.String("message_id", ev.MessageID),
		)
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
