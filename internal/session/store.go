// Package session holds the in-memory registry of chat sessions.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/litbot/litbot/internal/model"
)

var (
	// ErrSessionNotFound is returned when a session id does not resolve.
	ErrSessionNotFound = errors.New("session not found")
	// ErrMessageNotFound is returned when a message id does not resolve.
	ErrMessageNotFound = errors.New("message not found")
)

// titleMaxLen is the character budget for titles derived from user input.
const titleMaxLen = 30

// welcomeText seeds every new session with an assistant greeting.
const welcomeText = `Salut! Sunt **LitBot**. Îmi poți pune orice întrebare despre operele studiate la Bac.

Întreabă-mă ceva de exemplu:
• „Care este tema romanului *Ion*?"
• „Ce relație există între Ghiță și Ana în *Moara cu noroc*?"
• „Ce element unic are romanul *Ion* față de alte opere?"`

// Store is the registry of chat sessions. It always holds at least one
// session, and the active id always resolves to a member. All mutations go
// through Store methods; accessors hand out copies.
type Store struct {
	mu       sync.Mutex
	sessions []*model.ChatSession // newest first
	activeID string
}

// NewStore creates a store seeded with one default session.
func NewStore() *Store {
	s := &Store{}
	s.NewSession()
	return s
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func welcomeMessage() *model.Message {
	return &model.Message{
		ID:        newID(),
		Role:      model.RoleAssistant,
		Content:   welcomeText,
		CreatedAt: time.Now(),
	}
}

// NewSession builds a session with a seeded welcome message, prepends it to
// the registry and makes it active. Returns the new session's id.
func (s *Store) NewSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newSessionLocked()
}

func (s *Store) newSessionLocked() string {
	sess := &model.ChatSession{
		ID:        newID(),
		Title:     model.DefaultTitle,
		Messages:  []*model.Message{welcomeMessage()},
		CreatedAt: time.Now(),
	}
	s.sessions = append([]*model.ChatSession{sess}, s.sessions...)
	s.activeID = sess.ID
	return sess.ID
}

// Select makes the named session active. Unknown ids are ignored.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) != nil {
		s.activeID = id
	}
}

// Delete removes the named session. If it was active, the first remaining
// session becomes active; if the registry would become empty, a fresh
// default session is synthesized so the registry is never empty.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	s.sessions = kept

	if len(s.sessions) == 0 {
		s.newSessionLocked()
		return
	}
	if s.activeID == id {
		s.activeID = s.sessions[0].ID
	}
}

// AppendTurn appends a user message with userText and an empty assistant
// placeholder to the named session. The session title is derived from the
// first user message. Returns the two new message ids.
func (s *Store) AppendTurn(sessionID, userText string) (userID, assistantID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(sessionID)
	if sess == nil {
		return "", "", ErrSessionNotFound
	}

	if !hasUserMessage(sess) {
		sess.Title = deriveTitle(userText)
	}

	now := time.Now()
	user := &model.Message{ID: newID(), Role: model.RoleUser, Content: userText, CreatedAt: now}
	assistant := &model.Message{ID: newID(), Role: model.RoleAssistant, CreatedAt: now}
	sess.Messages = append(sess.Messages, user, assistant)

	return user.ID, assistant.ID, nil
}

// UpdateTrailingAssistant replaces the content of the session's last
// assistant message with fullText. The whole accumulated buffer is written
// each time; mirrors the server-side accumulate-then-overwrite semantics.
func (s *Store) UpdateTrailingAssistant(sessionID, fullText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}

	for i := len(sess.Messages) - 1; i >= 0; i-- {
		if sess.Messages[i].Role == model.RoleAssistant {
			sess.Messages[i].Content = fullText
			return nil
		}
	}
	return nil
}

// SetFeedback records feedback on a message. The first value sticks; later
// calls are no-ops. Reports whether the value was applied.
func (s *Store) SetFeedback(messageID string, value model.Feedback) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findMessageLocked(messageID)
	if msg == nil || msg.Feedback != model.FeedbackNone || !value.Valid() {
		return false
	}
	msg.Feedback = value
	return true
}

// SetComment updates the draft comment on a message. Once the comment has
// been submitted it is frozen.
func (s *Store) SetComment(messageID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findMessageLocked(messageID)
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.CommentSubmitted {
		return nil
	}
	msg.Comment = text
	return nil
}

// SubmitComment marks the message's comment as submitted. Only accepted when
// the comment is non-empty after trimming; repeat submissions are idempotent.
// Returns the feedback event to forward and whether submission took effect.
func (s *Store) SubmitComment(messageID string) (model.FeedbackEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findMessageLocked(messageID)
	if msg == nil || strings.TrimSpace(msg.Comment) == "" || msg.CommentSubmitted {
		return model.FeedbackEvent{}, false
	}
	msg.CommentSubmitted = true

	return model.FeedbackEvent{
		MessageID: msg.ID,
		Feedback:  msg.Feedback,
		Comment:   msg.Comment,
		CreatedAt: time.Now(),
	}, true
}

// ActiveID returns the id of the active session.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Active returns a copy of the active session.
func (s *Store) Active() *model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySession(s.findLocked(s.activeID))
}

// Get returns a copy of the named session.
func (s *Store) Get(id string) (*model.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return copySession(sess), nil
}

// List returns copies of all sessions, newest first.
func (s *Store) List() []*model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.ChatSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, copySession(sess))
	}
	return out
}

// Len returns the number of sessions in the registry.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) findLocked(id string) *model.ChatSession {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

func (s *Store) findMessageLocked(messageID string) *model.Message {
	for _, sess := range s.sessions {
		for _, msg := range sess.Messages {
			if msg.ID == messageID {
				return msg
			}
		}
	}
	return nil
}

func hasUserMessage(sess *model.ChatSession) bool {
	for _, msg := range sess.Messages {
		if msg.Role == model.RoleUser {
			return true
		}
	}
	return false
}

func deriveTitle(userText string) string {
	runes := []rune(userText)
	if len(runes) <= titleMaxLen {
		return userText
	}
	return string(runes[:titleMaxLen]) + "..."
}

func copySession(sess *model.ChatSession) *model.ChatSession {
	if sess == nil {
		return nil
	}
	out := *sess
	out.Messages = make([]*model.Message, len(sess.Messages))
	for i, msg := range sess.Messages {
		m := *msg
		out.Messages[i] = &m
	}
	return &out
}
