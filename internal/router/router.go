package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/retrovault/backend/internal/handlers"
	"github.com/retrovault/backend/internal/middleware"
)

// NewRouter wires /health and /sync. auth is nil when token checks are off.
func NewRouter(deps *handlers.Deps, auth *middleware.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", handlers.Health)

	sh := handlers.NewSyncHandlers(deps)
	r.Group(func(r chi.Router) {
		if auth != nil {
			r.Use(auth.FirebaseAuth)
		}
		r.Mount("/sync", sh.SyncRoutes())
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		deps.ResponseHandler.WriteError(w, r, http.StatusNotFound, "not_found", "route not found")
	})
	return r
}
