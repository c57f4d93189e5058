package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mfigueira/preptrack/internal/metrics"
	"github.com/mfigueira/preptrack/internal/services"
	"github.com/mfigueira/preptrack/internal/worker"
)

type Server struct {
	CatalogService services.CatalogService
	SessionService services.SessionService
	HistoryService services.HistoryService
	StatsService   services.StatsService
	ImportService  services.ImportService
	ImportPool     *worker.Pool
	CORSOrigins    []string
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method("GET", "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/interviews", s.handleListInterviews)
		r.Post("/interviews", s.handleCreateInterview)
		r.Get("/interviews/{id}", s.handleGetInterview)
		r.Put("/interviews/{id}", s.handleUpdateInterview)

		r.Post("/questions/import", s.handleImportQuestions)

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/answer", s.handleAnswer)
		r.Post("/sessions/{id}/navigate", s.handleNavigate)
		r.Post("/sessions/{id}/submit", s.handleSubmit)
		r.Post("/sessions/{id}/feedback", s.handleFeedback)

		r.Get("/history", s.handleGetHistory)
		r.Delete("/history", s.handleClearHistory)

		r.Get("/stats/topics", s.handleTopicStats)
		r.Get("/stats/interviews", s.handleInterviewStats)
	})

	return r
}
