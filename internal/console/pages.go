package console

import (
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/sanity-news/sanity/internal/session"
)

//go:embed console.html
var consoleHTML string

var pageTmpl = template.Must(template.New("console").Funcs(template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
}).Parse(consoleHTML))

// pageData feeds the console template. Dark reflects the rendering surface at
// request time, so the persisted theme is in place before first paint.
type pageData struct {
	View  string
	Dark  bool
	State session.Snapshot
}

func (c *Console) render(w http.ResponseWriter, status int, view string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := pageData{
		View:  view,
		Dark:  c.surface.Dark(),
		State: c.store.Snapshot(),
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		log.Printf("console: rendering %s page: %v", view, err)
	}
}

func (c *Console) servePage(view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.render(w, http.StatusOK, view)
	}
}

// servePrediction redirects home when there is nothing to show and nothing in
// flight.
func (c *Console) servePrediction(w http.ResponseWriter, r *http.Request) {
	snap := c.store.Snapshot()
	if snap.Prediction == nil && !snap.IsLoading {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	c.render(w, http.StatusOK, "prediction")
}

// serveChat seeds the conversation before the page goes out, so a fresh chat
// over an existing prediction always opens with the verdict message.
func (c *Console) serveChat(w http.ResponseWriter, r *http.Request) {
	c.chat.Seed()
	c.render(w, http.StatusOK, "chat")
}

func (c *Console) serveNotFound(w http.ResponseWriter, r *http.Request) {
	c.render(w, http.StatusNotFound, "notfound")
}
