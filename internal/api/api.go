package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"esgpick/pkg/esg"
)

// Options tunes the router.
type Options struct {
	// AnalyzePerMinute caps analyze calls across all clients. Zero uses the
	// default of 10 per minute; a negative value disables the limit.
	AnalyzePerMinute int
	// AllowedOrigins defaults to "*".
	AllowedOrigins []string
}

// NewRouter builds the HTTP API router.
func NewRouter(core *esg.Core, opts Options) http.Handler {
	logger := core.Logger()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(recoveryLoggingMiddleware(logger))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:         300,
	}))

	h := &handler{core: core}

	r.Get("/api/health", h.health)

	// Questionnaire
	r.Get("/api/styles", h.getStyles)
	r.Get("/api/weights/default", h.getDefaultWeights)
	r.Post("/api/weights/rebalance", h.rebalanceWeights)

	// Reports
	r.Post("/api/reports/parse", h.parseReport)

	// Analysis
	r.Group(func(r chi.Router) {
		r.Use(rateLimitMiddleware(opts.AnalyzePerMinute))
		r.Post("/api/analyze", h.analyze)
		r.Post("/api/analyze/raw", h.analyzeRaw)
	})

	return r
}

type handler struct {
	core *esg.Core
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
