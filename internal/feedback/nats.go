package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/litbot/litbot/internal/model"
	"github.com/litbot/litbot/pkg/logger"
)

// NATSSink publishes feedback events to a NATS subject. Publishes are
// fire-and-forget; there is no acknowledgement and no redelivery.
type NATSSink struct {
	conn    *nats.Conn
	subject string
	logger  *logger.Logger
}

// NewNATSSink connects to NATS and returns a publishing sink.
func NewNATSSink(url, subject string, log *logger.Logger) (*NATSSink, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSSink{
		conn:    conn,
		subject: subject,
		logger:  log,
	}, nil
}

// Record publishes the event as JSON.
func (s *NATSSink) Record(_ context.Context, ev model.FeedbackEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback event: %w", err)
	}
	if err := s.conn.Publish(s.subject, data); err != nil {
		return fmt.Errorf("failed to publish feedback event: %w", err)
	}
	return nil
}

// IsConnected reports whether the NATS connection is up.
func (s *NATSSink) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

// Close closes the NATS connection.
func (s *NATSSink) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
