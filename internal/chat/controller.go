// Package chat routes follow-up questions to the backend, keeps the transcript
// in order, and seeds a fresh conversation with the analysis verdict.
package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sanity-news/sanity/internal/api"
	"github.com/sanity-news/sanity/internal/history"
	"github.com/sanity-news/sanity/internal/session"
)

// Asker is the slice of the API client the controller needs.
type Asker interface {
	Ask(ctx context.Context, req api.AskRequest) (*api.AskResponse, error)
}

// Recorder persists chat turns. A nil Recorder disables history.
type Recorder interface {
	SaveMessage(ctx context.Context, m history.ChatRecord) (*history.ChatRecord, error)
}

// Controller orchestrates the conversation against one session store.
type Controller struct {
	store    *session.Store
	client   Asker
	recorder Recorder
}

// New creates a chat controller. recorder may be nil.
func New(store *session.Store, client Asker, recorder Recorder) *Controller {
	return &Controller{store: store, client: client, recorder: recorder}
}

// Seed synthesizes the opening assistant message for a conversation tied to an
// existing prediction. It fires only when a prediction exists and the
// transcript is empty, so each fresh prediction seeds exactly once; no network
// call is involved. It reports whether a message was added.
func (c *Controller) Seed() bool {
	snap := c.store.Snapshot()
	if snap.Prediction == nil || len(snap.ChatHistory) > 0 {
		return false
	}

	note := ""
	if snap.Prediction.Verified() {
		note = " (verified by AI)"
	}
	text := fmt.Sprintf(
		"I've analyzed your news article and determined it's %s%s. How can I help you understand this better?",
		snap.FinalPrediction, note,
	)

	c.append(session.RoleAssistant, text)
	return true
}

// Ask submits a question. With a cached context id the question is grounded in
// the analyzed article; otherwise it goes out standalone. The user's message
// is committed to the transcript before the network call, so it stays visible
// even when the call fails; a failure additionally appends a visible assistant
// apology so no user turn is left unanswered.
func (c *Controller) Ask(ctx context.Context, question string) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" || c.store.IsLoading() {
		return
	}

	c.append(session.RoleUser, trimmed)
	c.store.SetLoading(true)

	req := api.AskRequest{Question: trimmed}
	if contextID := c.store.ContextID(); contextID != "" {
		req.ContextID = contextID
	}

	resp, err := c.client.Ask(ctx, req)
	if err != nil {
		msg := errorText(err)
		c.append(session.RoleAssistant, fmt.Sprintf("Sorry, I encountered an error: %s. Please try again.", msg))
		c.store.SetError(msg)
		return
	}

	c.append(session.RoleAssistant, resp.Answer)
	c.store.SetLoading(false)
}

// append adds a transcript message and mirrors it into history.
func (c *Controller) append(role session.Role, text string) {
	c.store.AddChatMessage(session.Message{Role: role, Message: text})

	if c.recorder == nil {
		return
	}
	_, err := c.recorder.SaveMessage(context.Background(), history.ChatRecord{
		ContextID: c.store.ContextID(),
		Role:      string(role),
		Content:   text,
	})
	if err != nil {
		log.Printf("chat: recording message: %v", err)
	}
}

func errorText(err error) string {
	if apiErr, ok := api.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
