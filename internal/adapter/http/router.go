package http

import (
	"net/http"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts every handler under /api.
func NewRouter(storefront *StorefrontHandler, auth *AuthHandler, admin *AdminHandler, logger logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		storefront.RegisterRoutes(r)
		r.Route("/auth", auth.RegisterRoutes)
		r.Route("/admin", admin.RegisterRoutes)
	})

	return r
}
