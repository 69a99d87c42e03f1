// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/litbot/litbot/internal/middleware"
	"github.com/litbot/litbot/internal/model"
	"github.com/litbot/litbot/internal/rag"
	"github.com/litbot/litbot/internal/stream"
	"github.com/litbot/litbot/pkg/logger"
	"github.com/litbot/litbot/pkg/metrics"
)

// ChatHandler handles the streaming chat endpoint.
type ChatHandler struct {
	generator rag.Generator
	logger    *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(gen rag.Generator, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		generator: gen,
		logger:    log,
	}
}

// httpSink adapts the response writer into a stream.Sink. Close is a no-op
// because returning from the handler terminates the chunked body cleanly;
// Abort only records the error, and the handler drops the connection after
// the generator is done.
type httpSink struct {
	w        http.ResponseWriter
	flusher  http.Flusher
	abortErr error
}

func (s *httpSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err == nil {
		s.flusher.Flush()
	}
	return n, err
}

func (s *httpSink) Close() error {
	return nil
}

func (s *httpSink) Abort(err error) {
	s.abortErr = err
}

// Chat handles POST /api/v1/chat
//
// The response body is the raw concatenation of answer fragments in emission
// order, with no framing. Status and headers commit before generation starts,
// so a later generation failure surfaces as a dropped connection rather than
// an error status.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateQuery(req.Query); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateHistory(req.History); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	metrics.IncrementStreams()
	defer metrics.DecrementStreams()

	// Commit the response so the client has a readable stream before any
	// token arrives.
	flusher.Flush()

	sink := &httpSink{w: w, flusher: flusher}
	bridge := stream.New(sink)

	start := time.Now()
	h.generator.Generate(ctx, req.Query, req.History, bridge)
	if bridge.Open() {
		bridge.HandleEnd()
	}

	status := "success"
	if sink.abortErr != nil {
		status = "error"
	}
	metrics.RecordAnswerStream(status, time.Since(start).Seconds())

	h.logger.Info("answer stream finished",
		zap.String("status", status),
		zap.Int("answer_bytes", len(bridge.Answer())),
		zap.Duration("duration", time.Since(start)),
		zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
	)

	if sink.abortErr != nil {
		h.logger.Error("answer stream aborted", zap.Error(sink.abortErr))
		// Headers are committed; dropping the connection is the only way to
		// surface the failure to a reader mid-stream.
		panic(http.ErrAbortHandler)
	}
}
