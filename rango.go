// Package rango is a content-directory engine built with Go, Echo, and templ.
// Visitors browse categories of external links ("pages"), page visits and
// category likes are tallied, and a session cookie tracks returning visits.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// rango handles handler logic, counters, middleware, and database operations.
package rango

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	_ "modernc.org/sqlite"

	"github.com/eringen/rango/search"
)

// ViewFuncs holds user-provided templ components that the engine calls when
// rendering pages. This is the inversion-of-control mechanism that lets
// users own and customize all templates.
type ViewFuncs struct {
	Home        func(topCats []Category, topPages []Page, visits int, siteURL string) templ.Component
	About       func(visits int) templ.Component
	Category    func(cat *Category, pages []Page, results []search.Result, query, csrfToken string) templ.Component
	AddCategory func(nameError, csrfToken string) templ.Component
	AddPage     func(cat *Category, formError, csrfToken string) templ.Component

	// Partials returned to the AJAX snippets in rango.js.
	CategoryList func(cats []Category) templ.Component
	PageList     func(pages []Page) templ.Component

	AdminLogin  func(showError bool, csrfToken string) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central rango application. It wires together the store, the
// counter engine, the category cache, middleware, and user templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Engine *Engine
	Cache  *CategoryCache
	Views  ViewFuncs

	searcher     *search.Client
	loginLimiter *RateLimiter
	ajaxLimiter  *RateLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new rango App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, cache, middleware, routes, and starts the
// server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("rango: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("rango: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("rango: init store: %w", err)
	}
	a.Store = store

	a.Engine = NewEngine(a.Store)
	a.Cache = NewCategoryCache(a.Store, a.Config.CategoryCacheTTL)
	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.ajaxLimiter = NewRateLimiter(60, time.Minute)

	if a.Config.SearchEndpoint != "" {
		a.searcher = search.NewClient(
			&http.Client{Timeout: 10 * time.Second},
			a.Config.SearchEndpoint,
			a.Config.SearchAPIKey,
		)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded engine assets (the like/suggest AJAX snippet). These are
	// served under /public/ and fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/rango.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public browsing routes.
	e.GET("/", a.handleIndex)
	e.GET("/about/", a.handleAbout)
	e.GET("/category/:slug/", a.handleCategory)
	e.POST("/category/:slug/", a.handleCategory) // search within the category page
	e.GET("/goto/", a.handleGoto)
	e.GET("/suggest_category/", a.handleSuggestCategory)

	// Contributor routes — session-gated behind the admin password.
	e.GET("/add_category/", a.handleAddCategory)
	e.POST("/add_category/", a.handleAddCategory)
	e.GET("/category/:slug/add_page/", a.handleAddPage)
	e.POST("/category/:slug/add_page/", a.handleAddPage)
	e.GET("/like_category/", a.handleLikeCategory)
	e.GET("/auto_add_page/", a.handleAutoAddPage)
	e.POST("/category/:slug/photo/", a.handleCategoryPhoto)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	// Read-only JSON API over the same entities.
	e.GET("/api/categories/", a.handleAPICategories)
	e.GET("/api/categories/:id/", a.handleAPICategory)
	e.GET("/api/pages/", a.handleAPIPages)
	e.GET("/api/pages/:id/", a.handleAPIPage)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty. This is a convenience function for scaffolded main.go files.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("rango: required environment variable %s is not set", key)
	}
	return v
}
