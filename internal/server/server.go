package server

import (
	"context"
	"net/http"
	"time"

	"github.com/fairflicks/fairflicks-go/internal/service/catalog"
	"github.com/fairflicks/fairflicks-go/internal/service/database"
	"github.com/fairflicks/fairflicks-go/internal/service/profile"
	"github.com/fairflicks/fairflicks-go/internal/service/recommend"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Dependencies bundles the assembled services the HTTP surface exposes.
type Dependencies struct {
	Profiles     *profile.Store
	Recommender  *recommend.Service
	BiasAnalyzer *recommend.BiasAnalyzer
	Catalog      *catalog.CatalogService
	Interactions *database.InteractionRepository // nil when analytics is disabled
	Logger       *zap.Logger
}

type Server struct {
	httpServer *http.Server
	deps       *Dependencies
	logger     *zap.Logger
}

func New(addr string, deps *Dependencies) *Server {
	s := &Server{
		deps:   deps,
		logger: deps.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", s.handleGetProfile)
		r.Patch("/profile", s.handleUpdateProfile)
		r.Post("/profile/watch", s.handleWatch)
		r.Post("/profile/rating", s.handleRating)
		r.Post("/profile/mood", s.handleMood)
		r.Post("/interactions", s.handleInteraction)

		r.Get("/recommendations", s.handleRecommendations)
		r.Post("/bias", s.handleBiasAudit)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/trending", s.handleTrending)
			r.Get("/popular", s.handlePopular)
			r.Get("/search", s.handleSearch)
			r.Get("/genres", s.handleGenres)
			r.Get("/genre/{genreID}", s.handleByGenre)
			r.Get("/country/{countryCode}", s.handleByCountry)
			r.Get("/{movieID}", s.handleMovieDetails)
			r.Get("/{movieID}/fairness", s.handleMovieFairness)
		})

		r.Get("/analytics/summary", s.handleAnalyticsSummary)
	})

	r.Get("/ws/assistant", s.handleAssistant)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
