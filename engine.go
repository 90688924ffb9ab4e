package rango

import "time"

// Repair names a normalization the engine applied during a save instead of
// rejecting the write. Callers log these; they never fail the request.
type Repair string

const (
	RepairViewsClamped     Repair = "views clamped to zero"
	RepairFirstVisitFuture Repair = "future first_visit cleared"
	RepairLastVisitFuture  Repair = "future last_visit cleared"
	RepairVisitOrder       Repair = "first_visit after last_visit cleared"
)

// Engine performs all counter mutations and enforces the category and page
// invariants at persist time. Handlers never write entities directly.
//
// The clock is injectable so tests can pin "now".
type Engine struct {
	store *Store
	now   func() time.Time
}

// NewEngine creates an Engine over the given store using the wall clock.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// NormalizeCategory recomputes the slug from the name and clamps a negative
// view counter to zero. It returns the corrected category and the repairs
// applied, never an error: bad counter state is normalized, not rejected.
func NormalizeCategory(c Category) (Category, []Repair) {
	var repairs []Repair
	c.Slug = Slugify(c.Name)
	if c.Views < 0 {
		c.Views = 0
		repairs = append(repairs, RepairViewsClamped)
	}
	return c, repairs
}

// RepairPageTimes enforces the page timestamp invariants against now:
// a timestamp in the future is cleared, and a first visit recorded after
// the last visit is cleared. Applying it twice is a no-op.
func RepairPageTimes(p Page, now time.Time) (Page, []Repair) {
	var repairs []Repair
	if p.FirstVisit != nil && p.FirstVisit.After(now) {
		p.FirstVisit = nil
		repairs = append(repairs, RepairFirstVisitFuture)
	}
	if p.LastVisit != nil && p.LastVisit.After(now) {
		p.LastVisit = nil
		repairs = append(repairs, RepairLastVisitFuture)
	}
	if p.FirstVisit != nil && p.LastVisit != nil && p.FirstVisit.After(*p.LastVisit) {
		p.FirstVisit = nil
		repairs = append(repairs, RepairVisitOrder)
	}
	return p, repairs
}

// SaveCategory normalizes and persists a category, inserting when the id is
// zero and updating otherwise. It returns ErrDuplicate when the name or slug
// collides with another category.
func (e *Engine) SaveCategory(c Category) (Category, []Repair, error) {
	c, repairs := NormalizeCategory(c)
	if c.ID == 0 {
		saved, err := e.store.InsertCategory(c)
		return saved, repairs, err
	}
	return c, repairs, e.store.UpdateCategory(c)
}

// IncrementLikes adds exactly one like to the category and returns the new
// count, or ErrNotFound if the category does not exist.
func (e *Engine) IncrementLikes(categoryID int64) (int, error) {
	return e.store.IncrementCategoryLikes(categoryID)
}

// SavePage repairs the page's timestamps and persists it.
func (e *Engine) SavePage(p Page) (Page, []Repair, error) {
	p, repairs := RepairPageTimes(p, e.now())
	if p.ID == 0 {
		saved, err := e.store.InsertPage(p)
		return saved, repairs, err
	}
	return p, repairs, e.store.UpdatePage(p)
}

// RecordPageVisit counts one tracked visit: views+1, last_visit=now. The
// first_visit stamp is left alone — only page creation sets it. It returns
// the page's stored URL so the caller can redirect, or ErrNotFound.
func (e *Engine) RecordPageVisit(pageID int64) (string, error) {
	p, err := e.store.GetPage(pageID)
	if err != nil {
		return "", err
	}
	if err := e.store.TouchPageVisit(pageID, e.now()); err != nil {
		return "", err
	}
	return p.URL, nil
}

// CreatePage files a new page under a category with a zeroed view counter
// and first_visit stamped to now. It returns ErrNotFound when the category
// does not exist.
func (e *Engine) CreatePage(categoryID int64, title, url string) (Page, error) {
	if _, err := e.store.GetCategory(categoryID); err != nil {
		return Page{}, err
	}
	now := e.now()
	return e.store.InsertPage(Page{
		CategoryID: categoryID,
		Title:      title,
		URL:        url,
		Views:      0,
		FirstVisit: &now,
	})
}

// GetOrCreatePage returns the existing page with the given title in the
// category, creating it first if absent. The auto-add flow then overwrites
// the URL, so repeated adds of the same result stay a single row.
func (e *Engine) GetOrCreatePage(categoryID int64, title, url string) (Page, error) {
	p, err := e.store.GetPageByTitle(categoryID, title)
	if err == ErrNotFound {
		return e.CreatePage(categoryID, title, url)
	}
	if err != nil {
		return Page{}, err
	}
	p.URL = url
	if err := e.store.UpdatePage(p); err != nil {
		return Page{}, err
	}
	return p, nil
}
