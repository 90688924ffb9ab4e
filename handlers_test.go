package rango

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// textComponent is a stand-in for user templ views: it writes the given
// strings so assertions can look at the response body.
func textComponent(parts ...string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, strings.Join(parts, "\n"))
		return err
	})
}

func setupTestApp(t *testing.T) *App {
	t.Helper()
	s := setupTestStore(t)
	e := NewEngine(s)
	e.now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }
	return &App{
		Config:      SiteConfig{Name: "test", URL: "http://localhost:3000"},
		Echo:        echo.New(),
		Store:       s,
		Engine:      e,
		Cache:       NewCategoryCache(s, time.Minute),
		ajaxLimiter: NewRateLimiter(60, time.Minute),
		Views: ViewFuncs{
			CategoryList: func(cats []Category) templ.Component {
				names := make([]string, len(cats))
				for i, c := range cats {
					names[i] = c.Name
				}
				return textComponent(names...)
			},
		},
	}
}

func request(a *App, method, target string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return rec, a.Echo.NewContext(req, rec)
}

func TestHandleGotoRedirects(t *testing.T) {
	a := setupTestApp(t)
	cat := mustInsertCategory(t, a.Store, "Go", 0)
	p := mustInsertPage(t, a.Store, cat.ID, "docs", 0)

	rec, c := request(a, http.MethodGet, "/goto/?page_id="+strconv.FormatInt(p.ID, 10))
	if err := a.handleGoto(c); err != nil {
		t.Fatalf("handleGoto failed: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != p.URL {
		t.Errorf("Location = %q, want %q", loc, p.URL)
	}

	got, err := a.Store.GetPage(p.ID)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if got.Views != 1 {
		t.Errorf("Views = %d, want 1 after the redirect", got.Views)
	}
}

func TestHandleGotoFallsBackHome(t *testing.T) {
	a := setupTestApp(t)

	for _, target := range []string{
		"/goto/",                 // missing page_id
		"/goto/?page_id=abc",     // unparseable
		"/goto/?page_id=9999999", // unknown page
	} {
		rec, c := request(a, http.MethodGet, target)
		if err := a.handleGoto(c); err != nil {
			t.Fatalf("handleGoto(%q) failed: %v", target, err)
		}
		if rec.Code != http.StatusFound {
			t.Errorf("%q: status = %d, want %d", target, rec.Code, http.StatusFound)
		}
		if loc := rec.Header().Get("Location"); loc != "/" {
			t.Errorf("%q: Location = %q, want \"/\"", target, loc)
		}
	}
}

func TestHandleSuggestCategory(t *testing.T) {
	a := setupTestApp(t)
	for _, n := range []string{"Alpha", "Alphabet", "Spam"} {
		mustInsertCategory(t, a.Store, n, 0)
	}

	rec, c := request(a, http.MethodGet, "/suggest_category/?suggestion=al")
	if err := a.handleSuggestCategory(c); err != nil {
		t.Fatalf("handleSuggestCategory failed: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Alpha") || !strings.Contains(body, "Alphabet") {
		t.Errorf("body missing matches: %q", body)
	}
	if strings.Contains(body, "Spam") {
		t.Errorf("body contains non-match: %q", body)
	}

	rec, c = request(a, http.MethodGet, "/suggest_category/")
	if err := a.handleSuggestCategory(c); err != nil {
		t.Fatalf("handleSuggestCategory (empty) failed: %v", err)
	}
	if body := rec.Body.String(); body != "" {
		t.Errorf("empty prefix rendered %q, want no categories", body)
	}
}

func TestHandleSuggestCategoryRateLimited(t *testing.T) {
	a := setupTestApp(t)
	a.ajaxLimiter = NewRateLimiter(1, time.Minute)

	rec, c := request(a, http.MethodGet, "/suggest_category/?suggestion=a")
	if err := a.handleSuggestCategory(c); err != nil {
		t.Fatalf("handleSuggestCategory failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec, c = request(a, http.MethodGet, "/suggest_category/?suggestion=a")
	if err := a.handleSuggestCategory(c); err != nil {
		t.Fatalf("handleSuggestCategory failed: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}
