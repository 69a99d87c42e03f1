// Package feedback forwards per-message feedback events to an analytics sink.
// Delivery is best effort; a lost event never fails the user's request.
package feedback

import (
	"context"

	"go.uber.org/zap"

	"github.com/litbot/litbot/internal/model"
	"github.com/litbot/litbot/pkg/logger"
	"github.com/litbot/litbot/pkg/metrics"
)

// Sink receives feedback events.
type Sink interface {
	Record(ctx context.Context, ev model.FeedbackEvent) error
}

// LogSink writes feedback events to the structured log.
type LogSink struct {
	logger *logger.Logger
}

// NewLogSink creates a log-backed sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

// Record logs the event and bumps the feedback counter.
func (s *LogSink) Record(_ context.Context, ev model.FeedbackEvent) error {
	s.logger.Info("feedback received",
		zap.String("message_id", ev.MessageID),
		zap.String("feedback", string(ev.Feedback)),
		zap.String("comment", ev.Comment),
	)
	if ev.Feedback != model.FeedbackNone {
		metrics.FeedbackTotal.WithLabelValues(string(ev.Feedback)).Inc()
	}
	return nil
}

// Multi fans an event out to every sink. The first error is returned after
// all sinks have been tried.
type Multi []Sink

// Record delivers ev to each sink in order.
func (m Multi) Record(ctx context.Context, ev model.FeedbackEvent) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.Record(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
