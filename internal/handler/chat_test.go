package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litbot/litbot/internal/model"
	"github.com/litbot/litbot/internal/rag"
	"github.com/litbot/litbot/pkg/logger"
)

// scriptedGenerator replays a fixed sequence of tokens and a terminal event.
type scriptedGenerator struct {
	tokens  []string
	err     error
	history []model.Turn
	query   string

	// misbehave fires extra callbacks after the terminal event.
	misbehave bool
}

func (g *scriptedGenerator) Generate(_ context.Context, query string, history []model.Turn, h rag.Handler) {
	g.query = query
	g.history = history

	for _, token := range g.tokens {
		h.HandleToken(token)
	}
	if g.err != nil {
		h.HandleError(g.err)
	} else {
		h.HandleEnd()
	}
	if g.misbehave {
		h.HandleToken("stray")
		h.HandleEnd()
		h.HandleError(errors.New("stray"))
	}
}

func TestChatStreamsAnswer(t *testing.T) {
	gen := &scriptedGenerator{tokens: []string{"Ghi", "ță și Ana ", "sunt..."}}
	h := NewChatHandler(gen, logger.Nop())

	srv := httptest.NewServer(http.HandlerFunc(h.Chat))
	defer srv.Close()

	body := `{"query":"Ce relație există între Ghiță și Ana?","history":[{"role":"user","content":"salut"},{"role":"assistant","content":"salut!"}]}`
	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	answer, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Ghiță și Ana sunt...", string(answer))

	assert.Equal(t, "Ce relație există între Ghiță și Ana?", gen.query)
	require.Len(t, gen.history, 2)
	assert.Equal(t, model.RoleUser, gen.history[0].Role)
}

func TestChatMisbehavingGeneratorStillCleanStream(t *testing.T) {
	gen := &scriptedGenerator{tokens: []string{"răspuns"}, misbehave: true}
	h := NewChatHandler(gen, logger.Nop())

	srv := httptest.NewServer(http.HandlerFunc(h.Chat))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(`{"query":"q","history":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	answer, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "stray events after a clean end must not corrupt the stream")
	assert.Equal(t, "răspuns", string(answer))
}

func TestChatGeneratorFailureAbortsStream(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("model unavailable")}
	h := NewChatHandler(gen, logger.Nop())

	srv := httptest.NewServer(http.HandlerFunc(h.Chat))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(`{"query":"q","history":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	// Headers commit before generation, so the failure surfaces as a read
	// error on the body, not a non-200 status.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = io.ReadAll(resp.Body)
	assert.Error(t, err)
}

func TestChatFailureMidStreamKeepsPartialBytes(t *testing.T) {
	gen := &scriptedGenerator{tokens: []string{"parț", "ial"}, err: errors.New("cut off")}
	h := NewChatHandler(gen, logger.Nop())

	srv := httptest.NewServer(http.HandlerFunc(h.Chat))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(`{"query":"q","history":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	got, err := io.ReadAll(resp.Body)
	assert.Error(t, err)
	assert.Equal(t, "parțial", string(got))
}

func TestChatRejectsBadRequests(t *testing.T) {
	h := NewChatHandler(&scriptedGenerator{}, logger.Nop())

	cases := map[string]string{
		"empty query":    `{"query":"","history":[]}`,
		"blank query":    `{"query":"   ","history":[]}`,
		"invalid role":   `{"query":"q","history":[{"role":"system","content":"x"}]}`,
		"malformed body": `{"query":`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
			rec := httptest.NewRecorder()

			h.Chat(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
