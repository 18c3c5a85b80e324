package console

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sanity-news/sanity/internal/theme"
)

// predictRequest is the JSON body of /api/predict. PDFs go through the
// multipart /api/upload endpoint instead.
type predictRequest struct {
	InputType string `json:"input_type"`
	Text      string `json:"text,omitempty"`
	URL       string `json:"url,omitempty"`
}

// askRequest is the JSON body of /api/ask.
type askRequest struct {
	Question string `json:"question"`
}

// themeRequest is the JSON body of /api/theme.
type themeRequest struct {
	Theme  string `json:"theme,omitempty"`
	Toggle bool   `json:"toggle,omitempty"`
}

func (c *Console) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	switch req.InputType {
	case "url":
		c.submit.SubmitURL(r.Context(), req.URL)
	default:
		c.submit.SubmitText(r.Context(), req.Text)
	}

	c.writeState(w)
}

func (c *Console) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		c.submit.SubmitFile(r.Context(), "", nil)
		c.writeState(w)
		return
	}
	defer file.Close()

	c.submit.SubmitFile(r.Context(), header.Filename, file)
	c.writeState(w)
}

func (c *Console) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c.chat.Ask(r.Context(), req.Question)
	c.writeState(w)
}

func (c *Console) handleReset(w http.ResponseWriter, r *http.Request) {
	c.store.Reset()
	c.writeState(w)
}

func (c *Console) handleState(w http.ResponseWriter, r *http.Request) {
	c.writeState(w)
}

func (c *Console) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"theme": string(c.themes.Current())})
}

func (c *Console) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Toggle {
		if _, err := c.themes.Toggle(); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	} else if err := c.themes.Set(theme.Theme(req.Theme)); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"theme": string(c.themes.Current())})
}

func (c *Console) handleHistory(w http.ResponseWriter, r *http.Request) {
	if c.history == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"analyses": []struct{}{}})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	analyses, err := c.history.ListRecent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"analyses": analyses})
}

func (c *Console) handleHealth(w http.ResponseWriter, r *http.Request) {
	health, err := c.client.Health(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"status": "unreachable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, health)
}

// stateResponse bundles everything the page renders from.
type stateResponse struct {
	Session interface{} `json:"session"`
	Theme   string      `json:"theme"`
}

func (c *Console) writeState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, stateResponse{
		Session: c.store.Snapshot(),
		Theme:   string(c.themes.Current()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
