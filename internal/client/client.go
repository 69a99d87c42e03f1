// Package client drives the request/stream-consumption cycle against the
// chat endpoint and applies the results to the session store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/litbot/litbot/internal/model"
	"github.com/litbot/litbot/internal/session"
	"github.com/litbot/litbot/pkg/logger"
)

// ErrBusy is returned when a submission arrives while a response is still
// streaming. Submissions are not queued.
var ErrBusy = errors.New("a response is already streaming")

// Client talks to the chat API on behalf of a session store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *session.Store
	logger     *logger.Logger

	mu      sync.Mutex
	waiting bool

	// OnUpdate, when set, is called with the full accumulated answer after
	// every applied fragment, so a view can re-render progressively.
	OnUpdate func(fullText string)
}

// New creates a client. The HTTP client carries no timeout: the response
// body is a long-lived stream bounded only by the server.
func New(baseURL string, store *session.Store, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		store:      store,
		logger:     log,
	}
}

// Waiting reports whether a response is currently streaming.
func (c *Client) Waiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiting
}

func (c *Client) beginWaiting() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiting {
		return ErrBusy
	}
	c.waiting = true
	return nil
}

func (c *Client) endWaiting() {
	c.mu.Lock()
	c.waiting = false
	c.mu.Unlock()
}

// Send submits input to the active session and streams the answer into its
// trailing assistant message. Empty input is silently ignored. On failure the
// partial content already applied stays visible; nothing is retried.
func (c *Client) Send(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	if err := c.beginWaiting(); err != nil {
		return err
	}
	defer c.endWaiting()

	// The response is bound to the session active at submission time. If the
	// session is deleted mid-stream, later writes become no-ops.
	sessionID := c.store.ActiveID()

	if _, _, err := c.store.AppendTurn(sessionID, input); err != nil {
		return err
	}

	sess, err := c.store.Get(sessionID)
	if err != nil {
		return err
	}
	turns := sess.History()
	// Drop the empty assistant placeholder appended above; the history sent
	// upstream ends with the new user turn.
	turns = turns[:len(turns)-1]

	body, err := json.Marshal(model.ChatRequest{Query: input, History: turns})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return c.consume(resp.Body, sessionID)
}

// consume reads the raw byte stream and overwrites the trailing assistant
// message with the full accumulated buffer after every read. Re-decoding the
// whole buffer keeps a multi-byte character split across fragments from
// corrupting the rendered text for longer than one read.
func (c *Client) consume(r io.Reader, sessionID string) error {
	var accumulated []byte
	buf := make([]byte, 4096)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			accumulated = append(accumulated, buf[:n]...)
			full := string(accumulated)
			uerr := c.store.UpdateTrailingAssistant(sessionID, full)
			if errors.Is(uerr, session.ErrSessionNotFound) {
				c.logger.Debug("session deleted mid-stream, dropping fragment",
					zap.String("session_id", sessionID))
			} else if c.OnUpdate != nil {
				c.OnUpdate(full)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream read failed: %w", err)
		}
	}
}

// Feedback records a thumbs up/down on a message and forwards it to the
// analytics endpoint. Repeat feedback is a silent no-op: the first value wins.
func (c *Client) Feedback(ctx context.Context, messageID string, value model.Feedback) error {
	if !c.store.SetFeedback(messageID, value) {
		return nil
	}
	return c.postFeedback(ctx, model.FeedbackEvent{MessageID: messageID, Feedback: value})
}

// Comment updates the draft comment on a message.
func (c *Client) Comment(messageID, text string) error {
	return c.store.SetComment(messageID, text)
}

// SubmitComment submits a message's comment. Empty comments and repeat
// submissions are silent no-ops.
func (c *Client) SubmitComment(ctx context.Context, messageID string) error {
	ev, ok := c.store.SubmitComment(messageID)
	if !ok {
		return nil
	}
	return c.postFeedback(ctx, ev)
}

func (c *Client) postFeedback(ctx context.Context, ev model.FeedbackEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode feedback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/feedback", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("feedback request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Store exposes the underlying session store for rendering.
func (c *Client) Store() *session.Store {
	return c.store
}
