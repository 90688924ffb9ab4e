package rango

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Slugify converts a category name to a URL-safe slug: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, no leading or
// trailing hyphens. The slug is a pure function of the name.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Suggest filters categories to those whose name starts with prefix,
// case-insensitively. An empty prefix matches nothing, not everything.
// If max <= 0 the full matching set is returned; otherwise the matches are
// truncated to max in the order they were produced.
func Suggest(cats []Category, prefix string, max int) []Category {
	if strings.TrimSpace(prefix) == "" {
		return nil
	}
	p := strings.ToLower(prefix)
	var matches []Category
	for _, c := range cats {
		if strings.HasPrefix(strings.ToLower(c.Name), p) {
			matches = append(matches, c)
		}
	}
	if max > 0 && len(matches) > max {
		matches = matches[:max]
	}
	return matches
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// ValidPageURL reports whether raw is an absolute http(s) URL. Page entries
// point at external sites, so anything else is rejected by the forms.
func ValidPageURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}
