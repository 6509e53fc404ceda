package rest

import (
	"context"
	"net/http"

	core_port "github.com/YOOYEONGHO/naver-land-collector/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	collectionHandlers *CollectionHandler,
	analysisHandlers *AnalysisHandler,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// ручной запуск прогона сбора
		r.Post("/collect", collectionHandlers.Collect)

		// читающие проекции для аналитика
		r.Get("/listings", analysisHandlers.QueryListings)
		r.Get("/snapshots", analysisHandlers.ListSnapshots)
		r.Get("/diff", analysisHandlers.DiffSnapshots)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
