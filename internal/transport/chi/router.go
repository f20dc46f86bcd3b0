package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gauravkeywords/gameloft/internal/metrics"
)

// RouterOptions configures the router around a Server.
type RouterOptions struct {
	APIKeys []string
	// MCPPath and MCPHandler mount the MCP endpoint; a nil handler leaves it unmounted.
	MCPPath    string
	MCPHandler http.Handler
}

// NewRouter builds the chi router with the middleware stack and all routes.
func NewRouter(s *Server, opts RouterOptions, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(JSONRecoverer(logger))
	r.Use(WideEventMiddleware(logger))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorResponseCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponseCodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Get("/search", s.SearchQuery)
		r.Get("/status", s.Status)
	})

	if opts.MCPHandler != nil {
		r.Handle(opts.MCPPath, opts.MCPHandler)
	}
	return r
}
