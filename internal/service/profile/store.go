package profile

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fairflicks/fairflicks-go/internal/constants"
	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/pkg/errors"
	"go.uber.org/zap"
)

// StorageKey is the single well-known slot the serialized profile
// document lives under.
const StorageKey = "fairflicks:user_profile"

// Storage is the key-value persistence capability the store writes
// through. Read's found flag distinguishes an absent document from an
// empty one.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Store owns the user's demographic and preference state. Every mutator
// rewrites the whole document synchronously; writes are whole-document
// overwrites, so there is no partial-write concern.
type Store struct {
	mu      sync.Mutex
	storage Storage
	logger  *zap.Logger
	current *domain.UserProfile
}

// NewStore reads the persisted profile once. An absent or corrupt
// document falls back to the hard-coded default; that failure is never
// surfaced past this constructor.
func NewStore(ctx context.Context, storage Storage, logger *zap.Logger) *Store {
	s := &Store{
		storage: storage,
		logger:  logger,
	}
	s.current = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) *domain.UserProfile {
	data, found, err := s.storage.Read(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("Profile read failed, using default profile", zap.Error(err))
		return domain.DefaultProfile()
	}
	if !found {
		s.logger.Info("No persisted profile, using default profile")
		return domain.DefaultProfile()
	}

	var p domain.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		// Corrupt document is left in place; the next mutation
		// overwrites it wholesale.
		s.logger.Warn("Persisted profile is corrupt, using default profile", zap.Error(err))
		return domain.DefaultProfile()
	}

	if p.Ratings == nil {
		p.Ratings = map[string]int{}
	}

	return &p
}

// Profile returns a snapshot of the current profile.
func (s *Store) Profile() *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Update shallow-merges the partial update into the profile, persists,
// and returns the new profile. Field-level validation (age bounds, genre
// cap) is the caller's concern, matching the manual-edit surface.
func (s *Store) Update(ctx context.Context, update *domain.ProfileUpdate) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Apply(update)
	if err := s.persist(ctx); err != nil {
		return s.current.Clone(), err
	}
	return s.current.Clone(), nil
}

// AppendWatchHistory appends a title and evicts from the front until the
// bound holds. The invariant is enforced on every append, not post-hoc.
func (s *Store) AppendWatchHistory(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.WatchHistory = append(s.current.WatchHistory, title)
	if overflow := len(s.current.WatchHistory) - constants.ProfileLimits.WatchHistoryCapacity; overflow > 0 {
		s.current.WatchHistory = s.current.WatchHistory[overflow:]
	}

	return s.persist(ctx)
}

// Rate upserts a rating for a movie identifier.
func (s *Store) Rate(ctx context.Context, movieID string, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Ratings == nil {
		s.current.Ratings = map[string]int{}
	}
	s.current.Ratings[movieID] = rating

	return s.persist(ctx)
}

// SetMood overwrites the single current mood value.
func (s *Store) SetMood(ctx context.Context, mood string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Mood = mood
	return s.persist(ctx)
}

// LearnFromInteraction grows genre affinities from passive UI actions.
// Likes and watches absorb up to the first two unseen genres; dislikes
// never remove anything. The learning path does not enforce the UI's
// genre cap: the list is a soft preference ranking and may grow past it.
func (s *Store) LearnFromInteraction(ctx context.Context, title string, genres []string, kind domain.InteractionKind) error {
	if kind != domain.InteractionLike && kind != domain.InteractionWatch {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.current.FavoriteGenres))
	for _, g := range s.current.FavoriteGenres {
		known[g] = struct{}{}
	}

	added := 0
	for _, g := range genres {
		if _, ok := known[g]; ok {
			continue
		}
		s.current.FavoriteGenres = append(s.current.FavoriteGenres, g)
		known[g] = struct{}{}
		added++
		if added == constants.ProfileLimits.LearnedGenresPerHit {
			break
		}
	}

	if added == 0 {
		return nil
	}

	s.logger.Debug("Learned genre preference",
		zap.String("title", title),
		zap.String("kind", string(kind)),
		zap.Int("added", added),
	)

	return s.persist(ctx)
}

// persist writes the whole document back. Must be called with the lock
// held.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.current)
	if err != nil {
		return errors.NewStoreError("failed to serialize profile", "persist", err)
	}
	if err := s.storage.Write(ctx, StorageKey, data); err != nil {
		s.logger.Error("Profile persist failed", zap.Error(err))
		return errors.NewStoreError("failed to persist profile", "persist", err)
	}
	return nil
}
