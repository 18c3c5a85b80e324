// Package session holds the per-run application state: the current prediction,
// its chat context, the request lifecycle flags and the conversation
// transcript. A Store is created by the composition root and handed to the
// controllers and views by reference; there are no package-level singletons.
package session

import (
	"sync"
	"time"

	"github.com/sanity-news/sanity/internal/api"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the conversation. Timestamp is assigned at append
// time, not server time.
type Message struct {
	Role      Role      `json:"role"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Token identifies one submission lifecycle. A completing request only commits
// its result while its token is still the newest one issued, so a slow early
// request can never overwrite a faster later one.
type Token uint64

// Snapshot is a consistent copy of the store for rendering.
type Snapshot struct {
	Prediction      *api.PredictionResult `json:"prediction"`
	FinalPrediction string                `json:"final_prediction,omitempty"`
	ContextID       string                `json:"context_id,omitempty"`
	IsLoading       bool                  `json:"is_loading"`
	Error           string                `json:"error,omitempty"`
	ChatHistory     []Message             `json:"chat_history"`
}

// Store is the prediction state store. All methods are synchronous in-memory
// mutations; none perform I/O.
type Store struct {
	mu         sync.Mutex
	prediction *api.PredictionResult
	final      string
	contextID  string
	loading    bool
	err        string
	chat       []Message
	issued     Token
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// SetPrediction replaces the current prediction, recomputes the cached context
// id and the derived final verdict, and clears any error. The transcript is
// left untouched; clearing it is a separate, explicit action.
func (s *Store) SetPrediction(result *api.PredictionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPredictionLocked(result)
}

func (s *Store) setPredictionLocked(result *api.PredictionResult) {
	s.prediction = result
	s.err = ""
	if result == nil {
		s.contextID = ""
		s.final = ""
		return
	}
	s.contextID = result.ContextID
	s.final = result.Final()
}

// SetLoading sets the in-flight flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetError records an error message and forces the loading flag off; the two
// are mutually exclusive in steady state.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
	s.loading = false
}

// AddChatMessage appends msg to the transcript, preserving order. A zero
// timestamp is filled in with the append time.
func (s *Store) AddChatMessage(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.chat = append(s.chat, msg)
}

// ClearChat empties the transcript.
func (s *Store) ClearChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = nil
}

// Reset restores the initial empty state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prediction = nil
	s.final = ""
	s.contextID = ""
	s.loading = false
	s.err = ""
	s.chat = nil
}

// Begin starts a submission lifecycle: the loading flag goes up, any previous
// error is cleared, and the returned token supersedes all earlier ones.
func (s *Store) Begin() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.loading = true
	s.err = ""
	return s.issued
}

// Commit applies a successful result for the given token. It reports false,
// changing nothing, if a newer submission has been issued since.
func (s *Store) Commit(tok Token, result *api.PredictionResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.issued {
		return false
	}
	s.setPredictionLocked(result)
	s.loading = false
	return true
}

// Fail records a failed outcome for the given token. Stale tokens are ignored
// the same way as in Commit.
func (s *Store) Fail(tok Token, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.issued {
		return false
	}
	s.err = msg
	s.loading = false
	return true
}

// Prediction returns the current prediction, or nil.
func (s *Store) Prediction() *api.PredictionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prediction
}

// FinalPrediction returns the derived authoritative verdict, computed once at
// commit time.
func (s *Store) FinalPrediction() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final
}

// ContextID returns the cached chat context id, independent of whether the
// prediction itself has since been cleared.
func (s *Store) ContextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextID
}

// IsLoading reports whether a submission or chat request is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Error returns the last recorded error message, or "".
func (s *Store) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ChatHistory returns a copy of the transcript in append order.
func (s *Store) ChatHistory() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.chat))
	copy(out, s.chat)
	return out
}

// Snapshot returns a consistent copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat := make([]Message, len(s.chat))
	copy(chat, s.chat)
	return Snapshot{
		Prediction:      s.prediction,
		FinalPrediction: s.final,
		ContextID:       s.contextID,
		IsLoading:       s.loading,
		Error:           s.err,
		ChatHistory:     chat,
	}
}
