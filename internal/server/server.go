package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Server struct {
	analytics    *services.Analytics
	mux          *http.ServeMux
	logger       *slog.Logger
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
	pageHandlers *handlers.PageHandlers
}

// TemplateHandlers overrides the HTML page handlers. Nil fields fall back
// to the built-in pages.
type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	renderer := charts.NewRenderer()
	s := &Server{
		analytics:    analytics,
		mux:          http.NewServeMux(),
		logger:       logger,
		apiHandlers:  handlers.NewAPIHandlers(analytics, renderer, logger),
		sseHandlers:  handlers.NewSSEHandlers(analytics, renderer, logger),
		pageHandlers: handlers.NewPageHandlers(analytics, renderer, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	dashboard := s.pageHandlers.HandleDashboard
	if templateHandlers != nil && templateHandlers.Dashboard != nil {
		dashboard = templateHandlers.Dashboard
	}

	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/dimensions", s.apiHandlers.HandleDimensions)
	s.mux.HandleFunc("GET /api/charts", s.apiHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /api/charts/{id}", s.apiHandlers.HandleChart)
	s.mux.HandleFunc("GET /charts/{file}", s.apiHandlers.HandleChartSVG)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
