// Package api provides the local control API: the HTTP surface other
// tools (and the browser extension bridge) use to drive collections
// and sync.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/simpletab/tabsync/internal/ratelimit"
	"github.com/simpletab/tabsync/internal/search"
	"github.com/simpletab/tabsync/internal/service"
	syncpkg "github.com/simpletab/tabsync/internal/sync"
)

// Syncer is the sync engine surface exposed over HTTP.
type Syncer interface {
	Push(ctx context.Context) syncpkg.Result
	Pull(ctx context.Context) syncpkg.Result
	Bidirectional(ctx context.Context) syncpkg.Result
	SetDisabled(disabled bool)
	Disabled() bool
	Syncing() bool
}

// Searcher runs full-text queries over collections.
type Searcher interface {
	Query(ctx context.Context, queryString string, limit int) (*search.Result, error)
}

// Session identifies the current user for the status endpoint.
type Session interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	data    *service.DataService
	syncer  Syncer
	search  Searcher
	session Session
	router  *chi.Mux
	logger  *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// search and session may be nil; their endpoints then report
// unavailability.
func NewServer(data *service.DataService, syncer Syncer, searcher Searcher, session Session, logger *slog.Logger) *Server {
	s := &Server{
		data:    data,
		syncer:  syncer,
		search:  searcher,
		session: session,
		router:  chi.NewRouter(),
		logger:  logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// MountEvents exposes a streaming events endpoint. Call before the
// server starts handling requests.
func (s *Server) MountEvents(h http.Handler) {
	s.router.Method(http.MethodGet, "/api/v1/events", h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(ratelimit.New(50, 100).Middleware)
	// The extension bridge calls from a browser origin.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Route("/sync", func(r chi.Router) {
			r.Post("/", s.handleSync)
			r.Post("/push", s.handlePush)
			r.Post("/pull", s.handlePull)
			r.Post("/enable", s.handleEnableSync)
			r.Post("/disable", s.handleDisableSync)
		})

		r.Route("/spaces", func(r chi.Router) {
			r.Get("/", s.handleListSpaces)
			r.Post("/", s.handleCreateSpace)
			r.Route("/{spaceID}", func(r chi.Router) {
				r.Get("/", s.handleGetSpace)
				r.Put("/", s.handleUpdateSpace)
				r.Delete("/", s.handleDeleteSpace)
				r.Get("/collections", s.handleListSpaceCollections)
			})
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", s.handleListCollections)
			r.Post("/", s.handleCreateCollection)
			r.Route("/{collectionID}", func(r chi.Router) {
				r.Get("/", s.handleGetCollection)
				r.Put("/", s.handleUpdateCollection)
				r.Delete("/", s.handleDeleteCollection)
				r.Post("/tabs", s.handleAddTab)
				r.Delete("/tabs/{tabID}", s.handleRemoveTab)
				r.Put("/tabs/{tabID}/position", s.handleMoveTab)
			})
		})

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)

		r.Get("/history", s.handleListHistory)
		r.Post("/history", s.handleRecordHistory)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)

		r.Get("/search", s.handleSearch)
	})
}
