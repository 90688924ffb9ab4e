package rango

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested category or page does not exist.
var ErrNotFound = sql.ErrNoRows

// ErrDuplicate is returned when a category save collides with an existing
// name or slug.
var ErrDuplicate = errors.New("rango: duplicate name or slug")

// Store wraps a SQLite database and provides CRUD and ranking queries for
// categories and pages.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    slug TEXT NOT NULL UNIQUE,
    views INTEGER NOT NULL DEFAULT 0,
    likes INTEGER NOT NULL DEFAULT 0,
    photo TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category_id INTEGER NOT NULL REFERENCES categories(id),
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    views INTEGER NOT NULL DEFAULT 0,
    first_visit DATETIME,
    last_visit DATETIME
);

CREATE INDEX IF NOT EXISTS idx_pages_category ON pages(category_id);
CREATE INDEX IF NOT EXISTS idx_pages_views ON pages(views);
CREATE INDEX IF NOT EXISTS idx_categories_likes ON categories(likes);
`)
	if err != nil {
		return err
	}
	// Older databases predate the photo column.
	if _, err := s.db.Exec(`ALTER TABLE categories ADD COLUMN photo TEXT NOT NULL DEFAULT '';`); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			return nil
		}
		return err
	}
	return nil
}

// isConstraintErr reports whether err is a SQLite UNIQUE constraint failure.
func isConstraintErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const categoryCols = `id, name, slug, views, likes, photo`

func scanCategory(row interface{ Scan(...any) error }) (Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Views, &c.Likes, &c.Photo); err != nil {
		return Category{}, err
	}
	return c, nil
}

// GetCategory returns a category by id, or ErrNotFound.
func (s *Store) GetCategory(id int64) (Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

// GetCategoryBySlug returns a category by slug, or ErrNotFound.
func (s *Store) GetCategoryBySlug(slug string) (Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE slug = ?`, slug)
	return scanCategory(row)
}

// ListCategories returns every category in insertion order (id ascending).
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryCols + ` FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCategories(rows)
}

// TopCategories returns up to n categories ordered by likes descending.
// Ties break on id ascending so the ranking is reproducible.
func (s *Store) TopCategories(n int) ([]Category, error) {
	rows, err := s.db.Query(`SELECT `+categoryCols+` FROM categories ORDER BY likes DESC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCategories(rows)
}

func collectCategories(rows *sql.Rows) ([]Category, error) {
	var cats []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// InsertCategory stores a new category and returns it with its assigned id.
// A name or slug collision returns ErrDuplicate.
func (s *Store) InsertCategory(c Category) (Category, error) {
	res, err := s.db.Exec(`INSERT INTO categories (name, slug, views, likes, photo) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Slug, c.Views, c.Likes, c.Photo)
	if err != nil {
		if isConstraintErr(err) {
			return Category{}, ErrDuplicate
		}
		return Category{}, err
	}
	c.ID, err = res.LastInsertId()
	return c, err
}

// UpdateCategory rewrites an existing category row.
func (s *Store) UpdateCategory(c Category) error {
	res, err := s.db.Exec(`UPDATE categories SET name = ?, slug = ?, views = ?, likes = ?, photo = ? WHERE id = ?`,
		c.Name, c.Slug, c.Views, c.Likes, c.Photo, c.ID)
	if err != nil {
		if isConstraintErr(err) {
			return ErrDuplicate
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementCategoryLikes bumps likes by one in the store and returns the new
// count. The increment happens inside the UPDATE so concurrent likes never
// lose writes.
func (s *Store) IncrementCategoryLikes(id int64) (int, error) {
	res, err := s.db.Exec(`UPDATE categories SET likes = likes + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	var likes int
	err = s.db.QueryRow(`SELECT likes FROM categories WHERE id = ?`, id).Scan(&likes)
	return likes, err
}

const pageCols = `id, category_id, title, url, views, first_visit, last_visit`

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var p Page
	var first, last sql.NullTime
	if err := row.Scan(&p.ID, &p.CategoryID, &p.Title, &p.URL, &p.Views, &first, &last); err != nil {
		return Page{}, err
	}
	if first.Valid {
		t := first.Time
		p.FirstVisit = &t
	}
	if last.Valid {
		t := last.Time
		p.LastVisit = &t
	}
	return p, nil
}

// GetPage returns a page by id, or ErrNotFound.
func (s *Store) GetPage(id int64) (Page, error) {
	row := s.db.QueryRow(`SELECT `+pageCols+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// GetPageByTitle returns the page with the given title within a category,
// or ErrNotFound. Used by the auto-add flow to avoid duplicate entries.
func (s *Store) GetPageByTitle(categoryID int64, title string) (Page, error) {
	row := s.db.QueryRow(`SELECT `+pageCols+` FROM pages WHERE category_id = ? AND title = ?`, categoryID, title)
	return scanPage(row)
}

// PagesForCategory returns all pages in a category ordered by views
// descending, ties on id ascending.
func (s *Store) PagesForCategory(categoryID int64) ([]Page, error) {
	rows, err := s.db.Query(`SELECT `+pageCols+` FROM pages WHERE category_id = ? ORDER BY views DESC, id ASC`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPages(rows)
}

// TopPages returns up to n pages ordered by views descending, ties on id
// ascending.
func (s *Store) TopPages(n int) ([]Page, error) {
	rows, err := s.db.Query(`SELECT `+pageCols+` FROM pages ORDER BY views DESC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPages(rows)
}

// RecentPages returns up to n pages newest first. Feeds the RSS endpoint.
func (s *Store) RecentPages(n int) ([]Page, error) {
	rows, err := s.db.Query(`SELECT `+pageCols+` FROM pages ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPages(rows)
}

func collectPages(rows *sql.Rows) ([]Page, error) {
	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// InsertPage stores a new page and returns it with its assigned id.
func (s *Store) InsertPage(p Page) (Page, error) {
	res, err := s.db.Exec(`INSERT INTO pages (category_id, title, url, views, first_visit, last_visit) VALUES (?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.Title, p.URL, p.Views, nullTime(p.FirstVisit), nullTime(p.LastVisit))
	if err != nil {
		return Page{}, err
	}
	p.ID, err = res.LastInsertId()
	return p, err
}

// UpdatePage rewrites an existing page row.
func (s *Store) UpdatePage(p Page) error {
	res, err := s.db.Exec(`UPDATE pages SET category_id = ?, title = ?, url = ?, views = ?, first_visit = ?, last_visit = ? WHERE id = ?`,
		p.CategoryID, p.Title, p.URL, p.Views, nullTime(p.FirstVisit), nullTime(p.LastVisit), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchPageVisit bumps the page's view counter and stamps last_visit in a
// single UPDATE, keeping the counter exact under concurrent visits.
func (s *Store) TouchPageVisit(id int64, at time.Time) error {
	res, err := s.db.Exec(`UPDATE pages SET views = views + 1, last_visit = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
