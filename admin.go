package rango

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// handleAdmin shows the login form, or a bare confirmation once logged in.
func (a *App) handleAdmin(c echo.Context) error {
	if !IsContributor(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setContributorSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearContributorSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// handleAddCategory renders and processes the new-category form. A duplicate
// name comes back as a field error on the form, not a 500.
func (a *App) handleAddCategory(c echo.Context) error {
	if !IsContributor(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if c.Request().Method != http.MethodPost {
		return Render(c, a.Views.AddCategory("", CsrfToken(c)))
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return Render(c, a.Views.AddCategory("Please enter the category name.", CsrfToken(c)))
	}
	_, repairs, err := a.Engine.SaveCategory(Category{Name: name})
	if err != nil {
		if err == ErrDuplicate {
			return Render(c, a.Views.AddCategory("That category already exists.", CsrfToken(c)))
		}
		return err
	}
	a.logRepairs(c, "category "+name, repairs)
	a.Cache.Invalidate()
	return a.handleIndex(c)
}

// handleAddPage renders and processes the add-page form for a category.
func (a *App) handleAddPage(c echo.Context) error {
	if !IsContributor(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")

	cat, err := a.Store.GetCategoryBySlug(slug)
	if err != nil {
		if err == ErrNotFound {
			// Keep the form rendered; the view explains the category is gone.
			return Render(c, a.Views.AddPage(nil, "", CsrfToken(c)))
		}
		return err
	}

	if c.Request().Method != http.MethodPost {
		return Render(c, a.Views.AddPage(&cat, "", CsrfToken(c)))
	}

	title := strings.TrimSpace(c.FormValue("title"))
	pageURL := strings.TrimSpace(c.FormValue("url"))
	switch {
	case title == "":
		return Render(c, a.Views.AddPage(&cat, "Please enter the title of the page.", CsrfToken(c)))
	case !ValidPageURL(pageURL):
		return Render(c, a.Views.AddPage(&cat, "Please enter a valid URL for the page.", CsrfToken(c)))
	}

	if _, err := a.Engine.CreatePage(cat.ID, title, pageURL); err != nil {
		return err
	}
	return a.handleCategory(c)
}

// handleLikeCategory bumps the like counter and returns the new count as
// plain text for the AJAX snippet to swap into the page.
func (a *App) handleLikeCategory(c echo.Context) error {
	if !IsContributor(c) {
		return c.NoContent(http.StatusForbidden)
	}
	if !a.ajaxLimiter.Allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}
	id, err := strconv.ParseInt(c.QueryParam("category_id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	likes, err := a.Engine.IncrementLikes(id)
	if err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	a.Cache.Invalidate()
	return c.String(http.StatusOK, strconv.Itoa(likes))
}

// handleAutoAddPage files a search result under a category without leaving
// the category page, then returns the refreshed page-list partial.
func (a *App) handleAutoAddPage(c echo.Context) error {
	if !IsContributor(c) {
		return c.NoContent(http.StatusForbidden)
	}
	title := strings.TrimSpace(c.QueryParam("title_data"))
	pageURL := strings.TrimSpace(c.QueryParam("url_data"))
	catID, err := strconv.ParseInt(c.QueryParam("catid_data"), 10, 64)

	if err != nil || title == "" || !ValidPageURL(pageURL) {
		return Render(c, a.Views.PageList(nil))
	}
	if _, err := a.Engine.GetOrCreatePage(catID, title, pageURL); err != nil {
		if err == ErrNotFound {
			return Render(c, a.Views.PageList(nil))
		}
		return err
	}
	pages, err := a.Store.PagesForCategory(catID)
	if err != nil {
		return err
	}
	return Render(c, a.Views.PageList(pages))
}

// logRepairs makes silent normalizations visible in the logs.
func (a *App) logRepairs(c echo.Context, subject string, repairs []Repair) {
	for _, r := range repairs {
		c.Logger().Warnf("repaired %s: %s", subject, r)
	}
}
