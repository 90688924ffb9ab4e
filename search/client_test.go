package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"golang", "golang"},
		{"  golang  ", "golang"},
		{"a/b=c(d)e:f;g", "abcdefg"},
		{"(;)", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "golang" {
			t.Errorf("q = %q, want %q", q.Get("q"), "golang")
		}
		if q.Get("key") != "secret" {
			t.Errorf("key = %q, want %q", q.Get("key"), "secret")
		}
		if q.Get("f") != "json" || q.Get("src") != "web" {
			t.Errorf("unexpected format params: f=%q src=%q", q.Get("f"), q.Get("src"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"title":"Go","url":"https://go.dev","kwic":"The Go programming language"}],"count":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "secret")
	results, err := c.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Title != "Go" || r.URL != "https://go.dev" || r.Summary != "The Go programming language" {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty query must not reach the API")
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	for _, q := range []string{"", "   ", "(;)"} {
		results, err := c.Search(context.Background(), q)
		if err != nil {
			t.Errorf("Search(%q) returned error: %v", q, err)
		}
		if results != nil {
			t.Errorf("Search(%q) returned %d results, want none", q, len(results))
		}
	}
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	if _, err := c.Search(context.Background(), "golang"); err == nil {
		t.Error("expected an error for a non-200 status")
	}
}

func TestSearchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	if _, err := c.Search(context.Background(), "golang"); err == nil {
		t.Error("expected a decode error")
	}
}

func TestSearchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(nil, srv.URL, "")
	if _, err := c.Search(context.Background(), "golang"); err == nil {
		t.Error("expected a transport error against a closed server")
	}
}
