package rango

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// categoryJSON is the wire shape of a category in the read-only API.
type categoryJSON struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Views int    `json:"views"`
	Likes int    `json:"likes"`
}

// pageJSON is the wire shape of a page; the owning category is embedded.
type pageJSON struct {
	Category  categoryJSON `json:"category"`
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	Views     int          `json:"views"`
	FirstSeen *time.Time   `json:"first_visit"`
	LastSeen  *time.Time   `json:"last_visit"`
}

func toCategoryJSON(c Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name, Slug: c.Slug, Views: c.Views, Likes: c.Likes}
}

func (a *App) handleAPICategories(c echo.Context) error {
	cats, err := a.Store.ListCategories()
	if err != nil {
		return err
	}
	out := make([]categoryJSON, len(cats))
	for i, cat := range cats {
		out[i] = toCategoryJSON(cat)
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleAPICategory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	cat, err := a.Store.GetCategory(id)
	if err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return c.JSON(http.StatusOK, toCategoryJSON(cat))
}

func (a *App) handleAPIPages(c echo.Context) error {
	pages, err := a.Store.RecentPages(100)
	if err != nil {
		return err
	}
	out := make([]pageJSON, 0, len(pages))
	for _, p := range pages {
		pj, err := a.toPageJSON(p)
		if err != nil {
			return err
		}
		out = append(out, pj)
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleAPIPage(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	p, err := a.Store.GetPage(id)
	if err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	pj, err := a.toPageJSON(p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pj)
}

func (a *App) toPageJSON(p Page) (pageJSON, error) {
	cat, err := a.Store.GetCategory(p.CategoryID)
	if err != nil {
		return pageJSON{}, err
	}
	return pageJSON{
		Category:  toCategoryJSON(cat),
		ID:        p.ID,
		Title:     p.Title,
		URL:       p.URL,
		Views:     p.Views,
		FirstSeen: p.FirstVisit,
		LastSeen:  p.LastVisit,
	}, nil
}
