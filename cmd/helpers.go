package cmd

import (
	"fmt"
	"log"

	"github.com/sanity-news/sanity/internal/api"
	"github.com/sanity-news/sanity/internal/chat"
	"github.com/sanity-news/sanity/internal/config"
	"github.com/sanity-news/sanity/internal/console"
	"github.com/sanity-news/sanity/internal/extract"
	"github.com/sanity-news/sanity/internal/history"
	"github.com/sanity-news/sanity/internal/session"
	"github.com/sanity-news/sanity/internal/submit"
	"github.com/sanity-news/sanity/internal/theme"
)

// app is the composition root: every store and controller is built here and
// handed around by reference.
type app struct {
	cfg     *config.Config
	client  *api.Client
	store   *session.Store
	themes  *theme.Store
	surface *console.Surface
	submit  *submit.Controller
	chat    *chat.Controller
	history *history.Store
}

// buildApp loads configuration and wires the stores and controllers together.
// History persistence is optional; commands that only read state skip it.
func buildApp(withHistory bool) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &app{
		cfg:     cfg,
		client:  api.New(cfg.BackendURL, cfg.Timeout()),
		store:   session.New(),
		surface: console.NewSurface(),
	}

	a.themes, err = theme.Open(cfg.DataDir, a.surface)
	if err != nil {
		return nil, fmt.Errorf("loading theme preference: %w", err)
	}

	if withHistory {
		a.history, err = history.Open(cfg.HistoryPath())
		if err != nil {
			// The product works without history; say so and carry on.
			log.Printf("sanity: history disabled: %v", err)
			a.history = nil
		}
	}

	var extractor submit.Extractor
	if cfg.LocalExtract {
		extractor = extract.New(0)
	}

	var submitRecorder submit.Recorder
	var chatRecorder chat.Recorder
	if a.history != nil {
		submitRecorder = a.history
		chatRecorder = a.history
	}

	a.submit = submit.New(a.store, a.client, extractor, submitRecorder)
	a.chat = chat.New(a.store, a.client, chatRecorder)

	return a, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.history != nil {
		a.history.Close()
	}
}
