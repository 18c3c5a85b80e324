// Package submit normalizes the three input modalities (pasted text, a URL,
// a PDF) into one prediction request and drives the session store through
// the request lifecycle. Failures never propagate out of the controller; every
// outcome lands in the store, and the loading flag is released on every exit
// path.
package submit

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"strings"

	"github.com/sanity-news/sanity/internal/api"
	"github.com/sanity-news/sanity/internal/extract"
	"github.com/sanity-news/sanity/internal/history"
	"github.com/sanity-news/sanity/internal/session"
)

// User-facing messages, fixed wording.
const (
	msgEmptyText  = "Please enter some text"
	msgEmptyURL   = "Please enter a URL"
	msgNoFile     = "Please select a PDF file"
	msgReadFailed = "Failed to read file"
	fallbackText  = "Failed to predict. Please try again."
	fallbackURL   = "Failed to extract and predict. Please check the URL."
	fallbackPDF   = "Failed to process PDF. Please try again."
)

// Predictor is the slice of the API client the controller needs.
type Predictor interface {
	Predict(ctx context.Context, req api.PredictRequest) (*api.PredictionResult, error)
}

// Extractor performs local article extraction for the URL fallback.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*extract.Article, error)
}

// Recorder persists successful analyses. A nil Recorder disables history.
type Recorder interface {
	SaveAnalysis(ctx context.Context, a history.Analysis) (*history.Analysis, error)
}

// Controller orchestrates submissions against one session store.
type Controller struct {
	store     *session.Store
	client    Predictor
	extractor Extractor
	recorder  Recorder
}

// New creates a submission controller. extractor and recorder may be nil.
func New(store *session.Store, client Predictor, extractor Extractor, recorder Recorder) *Controller {
	return &Controller{store: store, client: client, extractor: extractor, recorder: recorder}
}

// SubmitText classifies pasted article text. Empty input fails locally without
// a network call.
func (c *Controller) SubmitText(ctx context.Context, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		c.store.SetError(msgEmptyText)
		return
	}

	tok := c.store.Begin()
	result, err := c.client.Predict(ctx, api.PredictRequest{
		InputType: api.InputText,
		Text:      trimmed,
	})
	if err != nil {
		c.store.Fail(tok, messageOr(err, fallbackText))
		return
	}
	c.commit(ctx, tok, result, api.InputText, "")
}

// SubmitURL classifies the article behind a URL. When a local extractor is
// configured and succeeds, the extracted text is submitted instead of the URL,
// so backends without URL support still work.
func (c *Controller) SubmitURL(ctx context.Context, pageURL string) {
	trimmed := strings.TrimSpace(pageURL)
	if trimmed == "" {
		c.store.SetError(msgEmptyURL)
		return
	}

	tok := c.store.Begin()

	req := api.PredictRequest{InputType: api.InputURL, URL: trimmed}
	if c.extractor != nil {
		if article, err := c.extractor.Extract(ctx, trimmed); err == nil {
			req = api.PredictRequest{InputType: api.InputText, Text: article.Text}
		} else {
			// Let the backend try its own extraction.
			log.Printf("submit: local extraction failed for %s: %v", trimmed, err)
		}
	}

	result, err := c.client.Predict(ctx, req)
	if err != nil {
		c.store.Fail(tok, messageOr(err, fallbackURL))
		return
	}
	c.commit(ctx, tok, result, api.InputURL, trimmed)
}

// SubmitFile classifies a PDF. The full content is read and base64-encoded
// before the network call begins; loading stays up across both steps. A read
// failure surfaces immediately and skips the network call.
func (c *Controller) SubmitFile(ctx context.Context, name string, r io.Reader) {
	if r == nil {
		c.store.SetError(msgNoFile)
		return
	}

	tok := c.store.Begin()

	data, err := io.ReadAll(r)
	if err != nil {
		c.store.Fail(tok, msgReadFailed)
		return
	}

	result, err := c.client.Predict(ctx, api.PredictRequest{
		InputType: api.InputPDF,
		PDFBase64: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		c.store.Fail(tok, messageOr(err, fallbackPDF))
		return
	}
	c.commit(ctx, tok, result, api.InputPDF, name)
}

// commit applies a successful result. The old transcript belongs to the
// previous article, so a committed new analysis clears it; the chat seed
// message then regenerates for the new verdict.
func (c *Controller) commit(ctx context.Context, tok session.Token, result *api.PredictionResult, inputType api.InputType, source string) {
	if !c.store.Commit(tok, result) {
		return
	}
	c.store.ClearChat()

	if c.recorder == nil {
		return
	}
	_, err := c.recorder.SaveAnalysis(ctx, history.Analysis{
		InputType:       string(inputType),
		Source:          source,
		Label:           result.Label,
		FinalPrediction: result.Final(),
		Confidence:      result.Confidence,
		Verified:        result.Verified(),
		ContextID:       result.ContextID,
	})
	if err != nil {
		log.Printf("submit: recording analysis: %v", err)
	}
}

// messageOr prefers the normalized API error message, falling back to the
// modality-specific generic message.
func messageOr(err error, fallback string) string {
	if apiErr, ok := api.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
