package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the webhook on / and /api/webhook for every method, so
// non-POST requests reach it as health checks.
func NewRouter(webhook http.Handler, live http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.CleanPath)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", live)

	r.Handle("/", webhook)
	r.Handle("/api/webhook", webhook)

	return r
}
