package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"brandintel/app"
	"brandintel/ports"
)

// App exposes the collection and synthesis entry points over HTTP
type App struct {
	router     *chi.Mux
	collection *app.CollectionService
	synthesis  *app.SynthesisService
	repo       ports.StudyRepository
}

// NewApp creates the HTTP application
func NewApp(collection *app.CollectionService, synthesis *app.SynthesisService, repo ports.StudyRepository) *App {
	a := &App{
		router:     chi.NewRouter(),
		collection: collection,
		synthesis:  synthesis,
		repo:       repo,
	}

	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/api/sources", a.handleListSources)
	a.router.Get("/api/studies/{strategyID}", a.handleGetStudy)
	a.router.Post("/api/studies/{strategyID}/collect", a.handleCollect)
	a.router.Put("/api/studies/{strategyID}/context", a.handleSetContext)
	a.router.Post("/api/studies/{strategyID}/synthesize", a.handleSynthesize)
}

// Router returns the HTTP handler
func (a *App) Router() http.Handler {
	return a.router
}
