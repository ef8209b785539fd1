// Package apiserver implements A3: the chi router exposing the six
// command-dispatcher endpoints over HTTP, adapted from the teacher's
// internal/api/router.go (dependency-injected RouterConfig, ordered
// middleware chain, chi sub-router) generalized from player/stream
// routes to the game/{create,get,subscribe,target,command,query}
// contract spec.md §6 names.
package apiserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"hexarena/internal/engine"
	"hexarena/internal/ratelimit"
	"hexarena/internal/transport"
)

// Config bundles the dependencies NewRouter wires together.
type Config struct {
	Engine      *engine.Engine
	Hub         *transport.Hub
	RateLimiter *ratelimit.HTTP
	CORSOrigins []string
}

// NewRouter constructs the HTTP router. It has no side effects beyond
// what its dependencies already carry: no listener is opened here.
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cfg.RateLimiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &handlers{engine: cfg.Engine, hub: cfg.Hub}

	r.Route("/game", func(r chi.Router) {
		r.Post("/create", h.handleCreate)
		r.Get("/get", h.handleGet)
		r.Get("/subscribe", h.handleSubscribe)
		r.Post("/target", h.handleTarget)
		r.Post("/command", h.handleCommand)
		r.Get("/query", h.handleQuery)
		r.Get("/debug.png", h.handleDebugPNG)
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hexarena"))
	})

	return r
}
