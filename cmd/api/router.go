package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookshelf/internal/auth"
	"bookshelf/internal/book"
	"bookshelf/internal/favorite"
	"bookshelf/internal/httpx"
	"bookshelf/internal/ingest"
	"bookshelf/internal/library"
	"bookshelf/internal/user"
)

type handlers struct {
	book     *book.HTTPHandler
	catalog  *ingest.HTTPHandler
	favorite *favorite.HTTPHandler
	library  *library.HTTPHandler
	user     *user.HTTPHandler
	auth     *auth.HTTPHandler
	ready    func(ctx context.Context) error
}

type routerConfig struct {
	jwtSecret    string
	corsOrigins  []string
	enableHSTS   bool
	rateLimiter  *httpx.RateLimiter
	maxBodyBytes int64
}

func newRouter(h handlers, cfg routerConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if h.ready != nil {
			if err := h.ready(r.Context()); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/catalog", h.catalog.Catalog)
	mux.HandleFunc("GET /v1/books", h.book.Search)
	mux.HandleFunc("GET /v1/books/{id}", h.book.Get)
	mux.HandleFunc("GET /v1/libraries/nearby", h.library.Nearby)

	mux.HandleFunc("POST /v1/users/register", h.user.RegisterUser)
	mux.HandleFunc("POST /v1/auth/login", h.auth.Login)
	mux.HandleFunc("POST /v1/auth/reset-password", h.auth.ResetPassword)

	mux.HandleFunc("POST /internal/jobs/ingest", h.catalog.Ingest)
	mux.HandleFunc("GET /internal/jobs/ingest/runs", h.catalog.Runs)

	protected := httpx.AuthMiddleware(cfg.jwtSecret)
	mux.Handle("GET /v1/users/me", protected(http.HandlerFunc(h.user.GetCurrentUser)))
	mux.Handle("GET /v1/favorites", protected(http.HandlerFunc(h.favorite.List)))
	mux.Handle("GET /v1/favorites/keys", protected(http.HandlerFunc(h.favorite.Keys)))
	mux.Handle("GET /v1/favorites/{id}", protected(http.HandlerFunc(h.favorite.Status)))
	mux.Handle("POST /v1/favorites/toggle", protected(http.HandlerFunc(h.favorite.Toggle)))

	mws := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware,
		httpx.CORSMiddleware(cfg.corsOrigins),
		httpx.SecurityHeadersMiddleware(cfg.enableHSTS),
	}
	if cfg.rateLimiter != nil {
		mws = append(mws, cfg.rateLimiter.Middleware)
	}
	if cfg.maxBodyBytes > 0 {
		mws = append(mws, httpx.RequestSizeLimitMiddleware(cfg.maxBodyBytes))
	}
	mws = append(mws, httpx.AccessLogMiddleware)

	return httpx.Chain(mux, mws...)
}
