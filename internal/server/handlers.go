package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fairflicks/fairflicks-go/internal/constants"
	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/internal/service/catalog"
	"github.com/fairflicks/fairflicks-go/pkg/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status, code := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("Request failed", zap.String("code", code), zap.Error(err))
	}
	s.respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		s.respondError(w, errors.NewValidationError("invalid request body", "body", err.Error()))
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"pipeline": string(s.deps.Recommender.State()),
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.deps.Profiles.Profile())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update domain.ProfileUpdate
	if !s.decodeBody(w, r, &update) {
		return
	}
	if update.Age != nil && (*update.Age < constants.ProfileLimits.MinAge || *update.Age > constants.ProfileLimits.MaxAge) {
		s.respondError(w, errors.NewValidationError("age out of range", "age", *update.Age))
		return
	}
	if update.FavoriteGenres != nil && len(*update.FavoriteGenres) > constants.ProfileLimits.GenreSoftCap {
		s.respondError(w, errors.NewValidationError("too many favorite genres", "favoriteGenres", len(*update.FavoriteGenres)))
		return
	}
	updated, err := s.deps.Profiles.Update(r.Context(), &update)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.Title == "" {
		s.respondError(w, errors.NewValidationError("title is required", "title", body.Title))
		return
	}
	if err := s.deps.Profiles.AppendWatchHistory(r.Context(), body.Title); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.deps.Profiles.Profile())
}

func (s *Server) handleRating(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MovieID string `json:"movieId"`
		Rating  int    `json:"rating"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.MovieID == "" {
		s.respondError(w, errors.NewValidationError("movieId is required", "movieId", body.MovieID))
		return
	}
	if body.Rating < 1 || body.Rating > 10 {
		s.respondError(w, errors.NewValidationError("rating must be between 1 and 10", "rating", body.Rating))
		return
	}
	if err := s.deps.Profiles.Rate(r.Context(), body.MovieID, body.Rating); err != nil {
		s.respondError(w, err)
		return
	}
	if s.deps.Interactions != nil {
		if err := s.deps.Interactions.RecordRating(r.Context(), body.MovieID, body.Rating); err != nil {
			s.logger.Warn("Failed to log rating event", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, s.deps.Profiles.Profile())
}

func (s *Server) handleMood(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mood string `json:"mood"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.Mood == "" {
		s.respondError(w, errors.NewValidationError("mood is required", "mood", body.Mood))
		return
	}
	if err := s.deps.Profiles.SetMood(r.Context(), body.Mood); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.deps.Profiles.Profile())
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title  string   `json:"title"`
		Genres []string `json:"genres"`
		Kind   string   `json:"kind"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	kind, ok := domain.ParseInteractionKind(body.Kind)
	if !ok {
		s.respondError(w, errors.NewValidationError("unknown interaction kind", "kind", body.Kind))
		return
	}
	if body.Title == "" {
		s.respondError(w, errors.NewValidationError("title is required", "title", body.Title))
		return
	}
	if err := s.deps.Profiles.LearnFromInteraction(r.Context(), body.Title, body.Genres, kind); err != nil {
		s.respondError(w, err)
		return
	}
	if s.deps.Interactions != nil {
		event := &domain.Interaction{Title: body.Title, Genres: body.Genres, Kind: kind}
		if err := s.deps.Interactions.RecordInteraction(r.Context(), event); err != nil {
			s.logger.Warn("Failed to log interaction event", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, s.deps.Profiles.Profile())
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	kind := domain.ParseRequestKind(r.URL.Query().Get("kind"))
	count := queryInt(r, "count", 0)
	batch := s.deps.Recommender.GetRecommendations(r.Context(), s.deps.Profiles.Profile(), kind, count)
	s.respondJSON(w, http.StatusOK, batch)
}

func (s *Server) handleBiasAudit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.Title == "" {
		s.respondError(w, errors.NewValidationError("title is required", "title", body.Title))
		return
	}
	report := s.deps.BiasAnalyzer.AnalyzeBias(r.Context(), body.Title, s.deps.Profiles.Profile())
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	window := r.URL.Query().Get("window")
	if window == "" {
		window = "week"
	}
	movies, err := s.deps.Catalog.GetTrendingMovies(r.Context(), window)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"results": movies})
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	movies, err := s.deps.Catalog.GetPopularMovies(r.Context(), queryInt(r, "page", 1))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"results": movies})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, errors.NewValidationError("q is required", "q", query))
		return
	}
	if len(query) > constants.AIInputLimits.MaxQueryLength {
		s.respondError(w, errors.NewValidationError("query too long", "q", len(query)))
		return
	}
	result, err := s.deps.Catalog.SearchMovies(r.Context(), query, queryInt(r, "page", 1))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.deps.Catalog.GetGenres(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"genres": genres})
}

func (s *Server) handleByGenre(w http.ResponseWriter, r *http.Request) {
	genreID, err := strconv.Atoi(chi.URLParam(r, "genreID"))
	if err != nil {
		s.respondError(w, errors.NewValidationError("genre id must be numeric", "genreID", chi.URLParam(r, "genreID")))
		return
	}
	movies, err := s.deps.Catalog.GetMoviesByGenre(r.Context(), genreID, queryInt(r, "page", 1))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"results": movies})
}

func (s *Server) handleByCountry(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "countryCode")
	movies, err := s.deps.Catalog.GetMoviesByCountry(r.Context(), code, queryInt(r, "page", 1))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"results": movies})
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil {
		s.respondError(w, errors.NewValidationError("movie id must be numeric", "movieID", chi.URLParam(r, "movieID")))
		return
	}
	details, err := s.deps.Catalog.GetMovieDetails(r.Context(), movieID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, details)
}

func (s *Server) handleMovieFairness(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil {
		s.respondError(w, errors.NewValidationError("movie id must be numeric", "movieID", chi.URLParam(r, "movieID")))
		return
	}
	details, err := s.deps.Catalog.GetMovieDetails(r.Context(), movieID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, catalog.AnalyzeMovieFairness(details))
}

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	if s.deps.Interactions == nil {
		s.respondError(w, errors.NewServiceError("analytics is not configured", "analytics", "summary", nil))
		return
	}
	hours := queryInt(r, "hours", 24*7)
	summary, err := s.deps.Interactions.Summary(r.Context(), time.Duration(hours)*time.Hour)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
