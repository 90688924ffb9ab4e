package rango

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/rango/search"
	"github.com/eringen/rango/visits"
)

const topN = 5

// handleIndex serves the home page: the five most-liked categories, the five
// most-viewed pages, and the session visit counter.
func (a *App) handleIndex(c echo.Context) error {
	cats, err := a.Store.TopCategories(topN)
	if err != nil {
		return err
	}
	pages, err := a.Store.TopPages(topN)
	if err != nil {
		return err
	}
	count, err := a.trackVisit(c)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(cats, pages, count, a.Config.URL))
}

func (a *App) handleAbout(c echo.Context) error {
	count := a.visitCount(c)
	return Render(c, a.Views.About(count))
}

// trackVisit applies this request to the session visit counter and returns
// the current count. The session is only written back when the state
// actually changed (fresh session, or a day has passed).
func (a *App) trackVisit(c echo.Context) (int, error) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		if sess == nil {
			return 0, err
		}
		// Undecodable cookie: start a fresh counter rather than erroring.
		c.Logger().Warnf("visit session reset: %v", err)
	}
	state := visits.FromSession(sess)
	state, changed := visits.Track(state, a.Engine.now())
	if changed {
		visits.ToSession(state, sess)
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return 0, err
		}
	}
	return state.Visits, nil
}

// visitCount reads the counter without updating it; only the index counts.
func (a *App) visitCount(c echo.Context) int {
	sess, err := session.Get(sessionName, c)
	if err != nil || sess == nil {
		return 0
	}
	return visits.FromSession(sess).Visits
}

// handleCategory serves a category page with its pages ordered by views.
// A POST carries a search query whose results are rendered alongside.
// An unknown slug renders the template with a nil category — the "no such
// category" message lives in the view, not in an error page.
func (a *App) handleCategory(c echo.Context) error {
	slug := c.Param("slug")

	var results []search.Result
	query := ""
	if c.Request().Method == http.MethodPost {
		query = c.FormValue("query")
		results = a.runSearch(c, query)
	}

	cat, err := a.Store.GetCategoryBySlug(slug)
	if err != nil {
		if err == ErrNotFound {
			return Render(c, a.Views.Category(nil, nil, results, query, CsrfToken(c)))
		}
		return err
	}
	pages, err := a.Store.PagesForCategory(cat.ID)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Category(&cat, pages, results, query, CsrfToken(c)))
}

// runSearch queries the external search API. Every failure — no client
// configured, transport error, bad payload — degrades to an empty result
// list; search problems never break the category page.
func (a *App) runSearch(c echo.Context, query string) []search.Result {
	if a.searcher == nil || search.Sanitize(query) == "" {
		return nil
	}
	results, err := a.searcher.Search(c.Request().Context(), query)
	if err != nil {
		c.Logger().Warnf("search failed: %v", err)
		return nil
	}
	return results
}

// handleGoto is the tracked redirect: it counts the visit and forwards the
// client to the page's stored URL. Anything wrong with page_id falls back
// to the home page instead of erroring.
func (a *App) handleGoto(c echo.Context) error {
	id, err := strconv.ParseInt(c.QueryParam("page_id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	url, err := a.Engine.RecordPageVisit(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Redirect(http.StatusFound, "/")
		}
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// maxSuggestions caps the typeahead dropdown.
const maxSuggestions = 8

// handleSuggestCategory renders the category-list partial filtered by the
// typed prefix, for the live suggestion box.
func (a *App) handleSuggestCategory(c echo.Context) error {
	if !a.ajaxLimiter.Allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}
	prefix := c.QueryParam("suggestion")
	cats, err := a.Cache.Suggest(prefix, maxSuggestions)
	if err != nil {
		return err
	}
	return Render(c, a.Views.CategoryList(cats))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
