package rango

import (
	"strconv"
	"time"
)

// Category is a browsable topic in the directory. Slug is always derived
// from Name by the counter engine; Views and Likes never go negative.
type Category struct {
	ID    int64
	Name  string
	Slug  string
	Views int
	Likes int
	Photo string // filename under /public/uploads, empty if none
}

// Link returns the public URL path for the category page.
func (c Category) Link() string {
	return "/category/" + c.Slug + "/"
}

// Page is an external link filed under exactly one category. FirstVisit is
// set once when the page is created through the add-page flow; LastVisit is
// updated on every tracked visit. Both are nil until set.
type Page struct {
	ID         int64
	CategoryID int64
	Title      string
	URL        string
	Views      int
	FirstVisit *time.Time
	LastVisit  *time.Time
}

// GotoLink returns the tracked-redirect URL for the page. Visiting it
// increments the page's view counter before redirecting to Page.URL.
func (p Page) GotoLink() string {
	return "/goto/?page_id=" + strconv.FormatInt(p.ID, 10)
}
