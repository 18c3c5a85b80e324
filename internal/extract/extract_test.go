package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := New(0)
	if _, err := e.Extract(context.Background(), srv.URL+"/gone"); err == nil {
		t.Error("expected error for 404 page")
	}
}

func TestExtractRejectsBoilerplateOnlyPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><nav>menu</nav></body></html>"))
	}))
	defer srv.Close()

	e := New(0)
	if _, err := e.Extract(context.Background(), srv.URL); err == nil {
		t.Error("expected error when no article content is extractable")
	}
}

func TestExtractUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	e := New(0)
	if _, err := e.Extract(context.Background(), srv.URL); err == nil {
		t.Error("expected error for unreachable host")
	}
}
