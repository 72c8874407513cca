// Package server exposes the question bank over HTTP: the raw data tree
// for remote clients and a small JSON API over the normalized questions.
package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/stackprep/internal/bank"
)

// Options configures the router.
type Options struct {
	// Content is the data tree (manifest plus <stack>/<kind>.yaml) served
	// under /data/. Nil disables the route.
	Content fs.FS

	// Repo answers the /api routes.
	Repo *bank.Repository

	// CORSOrigins defaults to "*".
	CORSOrigins []string

	// Timeout bounds each request. Default 30s.
	Timeout time.Duration

	Logger *slog.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(opts Options) http.Handler {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	if opts.Content != nil {
		r.Handle("/data/*", http.StripPrefix("/data/", http.FileServer(http.FS(opts.Content))))
	}

	if opts.Repo != nil {
		r.Route("/api", func(ar chi.Router) {
			ar.Get("/stacks", StacksHandler(opts.Repo))
			ar.Get("/topics", TopicsHandler(opts.Repo))
			ar.Get("/questions", QuestionsHandler(opts.Repo, opts.Logger))
		})
	}

	return r
}
