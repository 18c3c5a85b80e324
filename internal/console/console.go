// Package console is the local web view of the Sanity client: a single page
// backed by the session store and the controllers, with a WebSocket channel
// for the conversation.
package console

import (
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/sanity-news/sanity/internal/api"
	"github.com/sanity-news/sanity/internal/chat"
	"github.com/sanity-news/sanity/internal/history"
	"github.com/sanity-news/sanity/internal/session"
	"github.com/sanity-news/sanity/internal/submit"
	"github.com/sanity-news/sanity/internal/theme"
)

// Surface mirrors the rendering surface's theme state, the way the browser
// app toggles a class on the document element. Pages render with the value
// that is current at request time, so a persisted preference is in effect
// before the first paint.
type Surface struct {
	dark atomic.Bool
}

// NewSurface creates a light-themed surface.
func NewSurface() *Surface { return &Surface{} }

// ApplyTheme implements theme.Applier.
func (s *Surface) ApplyTheme(t theme.Theme) { s.dark.Store(t == theme.Dark) }

// Dark reports whether the dark class is active.
func (s *Surface) Dark() bool { return s.dark.Load() }

// Console serves the web UI.
type Console struct {
	store   *session.Store
	themes  *theme.Store
	surface *Surface
	submit  *submit.Controller
	chat    *chat.Controller
	history *history.Store
	client  *api.Client
}

// New creates a console. history may be nil.
func New(store *session.Store, themes *theme.Store, surface *Surface, submitCtl *submit.Controller, chatCtl *chat.Controller, hist *history.Store, client *api.Client) *Console {
	return &Console{
		store:   store,
		themes:  themes,
		surface: surface,
		submit:  submitCtl,
		chat:    chatCtl,
		history: hist,
		client:  client,
	}
}

// RegisterRoutes mounts all console routes onto the given router.
func (c *Console) RegisterRoutes(r chi.Router) {
	r.Get("/", c.servePage("home"))
	r.Get("/prediction", c.servePrediction)
	r.Get("/chat", c.serveChat)
	r.NotFound(c.serveNotFound)

	r.Post("/api/predict", c.handlePredict)
	r.Post("/api/upload", c.handleUpload)
	r.Post("/api/ask", c.handleAsk)
	r.Post("/api/reset", c.handleReset)
	r.Get("/api/state", c.handleState)
	r.Get("/api/theme", c.handleGetTheme)
	r.Post("/api/theme", c.handleSetTheme)
	r.Get("/api/history", c.handleHistory)
	r.Get("/api/health", c.handleHealth)

	r.Get("/ws/chat", c.handleWebSocket)
}
