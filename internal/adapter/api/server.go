// Package api exposes the portfolio backend over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/portfolio-manager/internal/adapter/bundesbank"
	"github.com/portfolio-manager/internal/domain"
	"github.com/portfolio-manager/internal/usecase/advisor"
	"github.com/portfolio-manager/internal/usecase/valuation"
)

// PortfolioCalculator values an investor's holdings as of a reference date
type PortfolioCalculator interface {
	CalculatePortfolioValue(ctx context.Context, investorID uuid.UUID, referenceDate time.Time) (*valuation.Result, error)
}

// InvestorService manages investor master data
type InvestorService interface {
	List(ctx context.Context) ([]*domain.Investor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Investor, error)
	Create(ctx context.Context, code string) (*domain.Investor, error)
	Update(ctx context.Context, id uuid.UUID, code string) (*domain.Investor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListInvestments(ctx context.Context, id uuid.UUID) ([]*domain.InvestorInvestment, error)
}

// CityService manages city master data
type CityService interface {
	List(ctx context.Context) ([]*domain.City, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.City, error)
	Create(ctx context.Context, code, name string) (*domain.City, error)
	Update(ctx context.Context, id uuid.UUID, code, name string) (*domain.City, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdvisorService generates investment advice from a valued portfolio
type AdvisorService interface {
	GenerateAdvice(ctx context.Context, portfolio *valuation.Result) *advisor.Advice
}

// RateProvider serves EUR reference exchange rates
type RateProvider interface {
	Latest(ctx context.Context, currency string) (bundesbank.Rate, error)
}

// Config holds server configuration
type Config struct {
	Host string
	Port string
	Log  zerolog.Logger

	Valuation PortfolioCalculator
	Investors InvestorService
	Cities    CityService
	Advisor   AdvisorService
	Rates     RateProvider
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	valuation PortfolioCalculator
	investors InvestorService
	cities    CityService
	advisor   AdvisorService
	rates     RateProvider
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		valuation: cfg.Valuation,
		investors: cfg.Investors,
		cities:    cfg.Cities,
		advisor:   cfg.Advisor,
		rates:     cfg.Rates,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/investor/{investorId}/value", s.handlePortfolioValue)
		})

		r.Route("/investors", func(r chi.Router) {
			r.Get("/", s.handleListInvestors)
			r.Post("/", s.handleCreateInvestor)
			r.Get("/{id}", s.handleGetInvestor)
			r.Put("/{id}", s.handleUpdateInvestor)
			r.Delete("/{id}", s.handleDeleteInvestor)
			r.Get("/{id}/investments", s.handleListInvestorInvestments)
		})

		r.Route("/cities", func(r chi.Router) {
			r.Get("/", s.handleListCities)
			r.Post("/", s.handleCreateCity)
			r.Get("/{id}", s.handleGetCity)
			r.Put("/{id}", s.handleUpdateCity)
			r.Delete("/{id}", s.handleDeleteCity)
		})

		r.Route("/advisor", func(r chi.Router) {
			r.Post("/advice", s.handleAdvice)
			r.Get("/portfolio/{investorId}/advice", s.handlePortfolioAdvice)
		})

		r.Get("/rates/{currency}", s.handleLatestRate)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "portfolio-manager",
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeDomainError maps domain errors onto HTTP status codes
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// pathUUID parses a UUID path parameter, writing a 400 on failure
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: must be a UUID", name))
		return uuid.Nil, false
	}
	return id, true
}
