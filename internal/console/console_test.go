package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sanity-news/sanity/internal/api"
	"github.com/sanity-news/sanity/internal/chat"
	"github.com/sanity-news/sanity/internal/session"
	"github.com/sanity-news/sanity/internal/submit"
	"github.com/sanity-news/sanity/internal/theme"
)

// newTestConsole wires a full console against a fake backend.
func newTestConsole(t *testing.T, backend http.Handler) (*Console, chi.Router, *session.Store) {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, 0)
	store := session.New()
	surface := NewSurface()

	themes, err := theme.Open(t.TempDir(), surface)
	if err != nil {
		t.Fatalf("theme.Open: %v", err)
	}

	submitCtl := submit.New(store, client, nil, nil)
	chatCtl := chat.New(store, client, nil)

	c := New(store, themes, surface, submitCtl, chatCtl, nil, client)
	router := chi.NewRouter()
	c.RegisterRoutes(router)
	return c, router, store
}

// fakeBackend answers /predict and /ask with fixed payloads.
func fakeBackend(result api.PredictionResult, answer string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(result)
	})
	mux.HandleFunc("/ask", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.AskResponse{Answer: answer})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.HealthResponse{Status: "ok", Model: "ready", Device: "cpu"})
	})
	return mux
}

func TestPredictionRedirectsHomeWithoutResult(t *testing.T) {
	_, router, _ := newTestConsole(t, fakeBackend(api.PredictionResult{}, ""))

	req := httptest.NewRequest("GET", "/prediction", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
}

func TestPredictionRendersResult(t *testing.T) {
	_, router, store := newTestConsole(t, fakeBackend(api.PredictionResult{}, ""))
	store.SetPrediction(&api.PredictionResult{Label: api.LabelReal, Confidence: 0.9})

	req := httptest.NewRequest("GET", "/prediction", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Real") {
		t.Error("expected verdict in the page")
	}
}

func TestUnknownRouteRenders404(t *testing.T) {
	_, router, _ := newTestConsole(t, fakeBackend(api.PredictionResult{}, ""))

	req := httptest.NewRequest("GET", "/no-such-page", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "404") {
		t.Error("expected 404 page body")
	}
}

func TestPredictEndpointCommitsState(t *testing.T) {
	_, router, store := newTestConsole(t, fakeBackend(api.PredictionResult{
		Label:     api.LabelFake,
		ContextID: "ctx-7",
	}, ""))

	body := strings.NewReader(`{"input_type":"text","text":"dubious claims"}`)
	req := httptest.NewRequest("POST", "/api/predict", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var state stateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if store.FinalPrediction() != api.LabelFake || store.ContextID() != "ctx-7" {
		t.Errorf("unexpected store state: final=%q ctx=%q", store.FinalPrediction(), store.ContextID())
	}
}

func TestPredictEndpointValidationError(t *testing.T) {
	_, router, store := newTestConsole(t, fakeBackend(api.PredictionResult{}, ""))

	body := strings.NewReader(`{"input_type":"text","text":"   "}`)
	req := httptest.NewRequest("POST", "/api/predict", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if store.Error() != "Please enter some text" {
		t.Errorf("expected validation error in state, got %q", store.Error())
	}
	if !strings.Contains(w.Body.String(), "Please enter some text") {
		t.Error("expected error surfaced in state response")
	}
}

func TestAskEndpointAppendsTranscript(t *testing.T) {
	_, router, store := newTestConsole(t, fakeBackend(api.PredictionResult{}, "the byline says Jane Doe"))

	body := strings.NewReader(`{"question":"who wrote it?"}`)
	req := httptest.NewRequest("POST", "/api/ask", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	chatHistory := store.ChatHistory()
	if len(chatHistory) != 2 {
		t.Fatalf("expected two turns, got %d", len(chatHistory))
	}
	if chatHistory[1].Message != "the byline says Jane Doe" {
		t.Errorf("unexpected answer: %q", chatHistory[1].Message)
	}
}

func TestChatPageSeedsConversation(t *testing.T) {
	_, router, store := newTestConsole(t, fakeBackend(api.PredictionResult{}, ""))
	store.SetPrediction(&api.PredictionResult{Label: api.LabelFake})

	req := httptest.NewRequest("GET", "/chat", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	chatHistory := store.ChatHistory()
	if len(chatHistory) != 1 {
		t.Fatalf("expected one seed message, got %d", len(chatHistory))
	}
	if chatHistory[0].Role != session.RoleAssistant || !strings.Contains(chatHistory[0].Message, "Fake") {
		t.Errorf("unexpected seed: %+v", chatHistory[0])
	}
	if !strings.Contains(w.Body.String(), "Fake") {
		t.Error("expected seed rendered into the page")
	}
}

func TestThemeToggleAndDarkClass(t *testing.T) {
	_, router, _ := newTestConsole(t, fakeBackend(api.PredictionResult{}, ""))

	// Home renders light first.
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if strings.Contains(w.Body.String(), `class="dark"`) {
		t.Error("expected light page before toggle")
	}

	// Toggle to dark.
	body := strings.NewReader(`{"toggle":true}`)
	req = httptest.NewRequest("POST", "/api/theme", body)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["theme"] != "dark" {
		t.Errorf("expected dark, got %q", resp["theme"])
	}

	// The next page render carries the dark class.
	req = httptest.NewRequest("GET", "/", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `class="dark"`) {
		t.Error("expected dark class after toggle")
	}
}

func TestThemeRejectsInvalidValue(t *testing.T) {
	_, router, _ := newTestConsole(t, fakeBackend(api.PredictionResult{}, ""))

	body := strings.NewReader(`{"theme":"sepia"}`)
	req := httptest.NewRequest("POST", "/api/theme", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHealthProxied(t *testing.T) {
	_, router, _ := newTestConsole(t, fakeBackend(api.PredictionResult{}, ""))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health body: %s", w.Body.String())
	}
}

func TestRenderMarkdown(t *testing.T) {
	html := renderMarkdown("an **important** point")
	if !strings.Contains(html, "<strong>important</strong>") {
		t.Errorf("expected bold rendering, got %q", html)
	}
}

func TestSurfaceMirrorsTheme(t *testing.T) {
	s := NewSurface()
	if s.Dark() {
		t.Error("expected light surface initially")
	}
	s.ApplyTheme(theme.Dark)
	if !s.Dark() {
		t.Error("expected dark surface after apply")
	}
	s.ApplyTheme(theme.Light)
	if s.Dark() {
		t.Error("expected light surface after apply")
	}
}
