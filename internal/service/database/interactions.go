package database

import (
	"context"
	"time"

	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// InteractionRepository is the event log behind the analytics view:
// every like/dislike/watch and every rating is appended here. The
// profile store stays the source of truth for preference state; this
// log only feeds aggregate reporting.
type InteractionRepository struct {
	postgres *PostgresService
	logger   *zap.Logger
}

func NewInteractionRepository(postgres *PostgresService, logger *zap.Logger) *InteractionRepository {
	return &InteractionRepository{
		postgres: postgres,
		logger:   logger,
	}
}

// EnsureSchema creates the event tables if they do not exist.
func (r *InteractionRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS interactions (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			kind TEXT NOT NULL,
			genres TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			id BIGSERIAL PRIMARY KEY,
			movie_id TEXT NOT NULL,
			rating INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_kind ON interactions (kind)`,
	}

	for _, stmt := range statements {
		if _, err := r.postgres.GetDB().ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

// RecordInteraction appends one learning event.
func (r *InteractionRepository) RecordInteraction(ctx context.Context, interaction *domain.Interaction) error {
	_, err := r.postgres.GetDB().ExecContext(ctx,
		`INSERT INTO interactions (title, kind, genres) VALUES ($1, $2, $3)`,
		interaction.Title, string(interaction.Kind), pq.Array(interaction.Genres),
	)
	if err != nil {
		r.logger.Error("Failed to record interaction",
			zap.String("title", interaction.Title),
			zap.Error(err),
		)
	}
	return err
}

// RecordRating appends one rating event.
func (r *InteractionRepository) RecordRating(ctx context.Context, movieID string, rating int) error {
	_, err := r.postgres.GetDB().ExecContext(ctx,
		`INSERT INTO ratings (movie_id, rating) VALUES ($1, $2)`,
		movieID, rating,
	)
	if err != nil {
		r.logger.Error("Failed to record rating",
			zap.String("movie_id", movieID),
			zap.Error(err),
		)
	}
	return err
}

// GenreCount is one row of the genre leaderboard.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// AnalyticsSummary aggregates the event log for the admin view.
type AnalyticsSummary struct {
	InteractionsByKind map[string]int `json:"interactionsByKind"`
	TopGenres          []GenreCount   `json:"topGenres"`
	RatingCount        int            `json:"ratingCount"`
	AverageRating      float64        `json:"averageRating"`
	Since              time.Time      `json:"since"`
}

// Summary reports interaction counts by kind, the most-interacted
// genres, and rating aggregates over the trailing window.
func (r *InteractionRepository) Summary(ctx context.Context, window time.Duration) (*AnalyticsSummary, error) {
	since := time.Now().Add(-window)
	db := r.postgres.GetDB()

	summary := &AnalyticsSummary{
		InteractionsByKind: make(map[string]int),
		TopGenres:          []GenreCount{},
		Since:              since,
	}

	rows, err := db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM interactions WHERE created_at >= $1 GROUP BY kind`,
		since,
	)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			rows.Close()
			return nil, err
		}
		summary.InteractionsByKind[kind] = count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = db.QueryContext(ctx,
		`SELECT genre, COUNT(*) AS hits
		 FROM interactions, unnest(genres) AS genre
		 WHERE created_at >= $1
		 GROUP BY genre
		 ORDER BY hits DESC
		 LIMIT 10`,
		since,
	)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var gc GenreCount
		if err := rows.Scan(&gc.Genre, &gc.Count); err != nil {
			rows.Close()
			return nil, err
		}
		summary.TopGenres = append(summary.TopGenres, gc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM ratings WHERE created_at >= $1`,
		since,
	).Scan(&summary.RatingCount, &summary.AverageRating)
	if err != nil {
		return nil, err
	}

	return summary, nil
}
