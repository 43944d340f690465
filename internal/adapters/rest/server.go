package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	core_port "realty-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers - все обработчики API
type Handlers struct {
	Clients    *ClientHandler
	Realtors   *RealtorHandler
	Properties *PropertyHandler
	Offers     *OfferHandler
	Needs      *NeedHandler
	Deals      *DealHandler
	Acts       *ActHandler
}

// ServerConfig - параметры HTTP-слоя
type ServerConfig struct {
	Port           string
	MediaRoot      string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server - REST API сервер
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает маршруты; вынесен отдельно для тестов
func NewRouter(cfg ServerConfig, h Handlers, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.Route("/api", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.Clients.List)
			r.Post("/", h.Clients.Create)
			r.Get("/search", h.Clients.Search)
			r.Get("/{id}", h.Clients.Get)
			r.Put("/{id}", h.Clients.Update)
			r.Patch("/{id}", h.Clients.Update)
			r.Delete("/{id}", h.Clients.Delete)
		})

		r.Route("/realtors", func(r chi.Router) {
			r.Get("/", h.Realtors.List)
			r.Post("/", h.Realtors.Create)
			r.Get("/search", h.Realtors.Search)
			r.Get("/{id}", h.Realtors.Get)
			r.Put("/{id}", h.Realtors.Update)
			r.Patch("/{id}", h.Realtors.Update)
			r.Delete("/{id}", h.Realtors.Delete)
		})

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", h.Properties.List)
			r.Post("/", h.Properties.Create)
			r.Get("/search_by_address", h.Properties.SearchByAddress)
			r.Get("/search_in_region", h.Properties.SearchInRegion)
			r.Get("/{id}", h.Properties.Get)
			r.Put("/{id}", h.Properties.Update)
			r.Delete("/{id}", h.Properties.Delete)
		})

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", h.Offers.List)
			r.Post("/", h.Offers.Create)
			r.Get("/{id}", h.Offers.Get)
			r.Put("/{id}", h.Offers.Update)
			r.Delete("/{id}", h.Offers.Delete)
			r.Get("/{id}/matching-needs", h.Offers.MatchingNeeds)
		})

		r.Route("/needs", func(r chi.Router) {
			r.Get("/", h.Needs.List)
			r.Post("/", h.Needs.Create)
			r.Get("/{id}", h.Needs.Get)
			r.Put("/{id}", h.Needs.Update)
			r.Delete("/{id}", h.Needs.Delete)
			r.Get("/{id}/matching-offers", h.Needs.MatchingOffers)
		})

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", h.Deals.List)
			r.Post("/", h.Deals.Create)
			r.Get("/search", h.Deals.Search)
			r.Get("/report", h.Deals.Report)
			r.Get("/{id}", h.Deals.Get)
			r.Put("/{id}", h.Deals.Update)
			r.Delete("/{id}", h.Deals.Delete)
			r.Get("/{id}/commissions", h.Deals.Commissions)
		})

		r.Route("/acts", func(r chi.Router) {
			r.Get("/", h.Acts.List)
			r.Post("/", h.Acts.Create)
			r.Get("/{id}", h.Acts.Get)
			r.Put("/{id}", h.Acts.Update)
			r.Delete("/{id}", h.Acts.Delete)
		})
	})

	if cfg.MediaRoot != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(newMediaFS(cfg.MediaRoot))))
	}

	return r
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg ServerConfig, handlers Handlers, baseLogger core_port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, handlers, baseLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(core_port.Fields{"component": "rest_server"}),
	}
}

// Start запускает HTTP-сервер
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
