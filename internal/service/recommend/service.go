package recommend

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fairflicks/fairflicks-go/internal/constants"
	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/internal/prompt"
	"github.com/fairflicks/fairflicks-go/internal/service/ai"
	"github.com/fairflicks/fairflicks-go/internal/util"
	"go.uber.org/zap"
)

// DefaultCount is used when a caller asks for a non-positive batch size.
const DefaultCount = 5

// Completer is the slice of the AI manager the pipeline needs. Injected
// explicitly so tests can substitute a fake transport.
type Completer interface {
	Complete(ctx context.Context, system, promptText string, preset ai.ModelPreset, opts *ai.CompleteOptions) (string, *ai.Metadata, error)
}

// PipelineState tracks where the most recent invocation got to.
type PipelineState string

const (
	StateIdle       PipelineState = "idle"
	StateRequesting PipelineState = "requesting"
	StateFulfilled  PipelineState = "fulfilled"
	StateFallback   PipelineState = "fallback"
)

// Batch is the result of one pipeline invocation.
type Batch struct {
	Items      []domain.MovieRecommendation `json:"items"`
	Kind       domain.RequestKind           `json:"kind"`
	Generation uint64                       `json:"generation"`
	Fallback   bool                         `json:"fallback"`
	Stale      bool                         `json:"stale"`
	Provider   string                       `json:"provider,omitempty"`
	Model      string                       `json:"model,omitempty"`
}

// Service orchestrates prompt construction, the completion call, and
// response parsing. GetRecommendations never fails: every error path
// degrades to the fixed fallback set.
type Service struct {
	completer Completer
	logger    *zap.Logger

	generation atomic.Uint64

	mu     sync.RWMutex
	state  PipelineState
	latest *Batch
}

func NewService(completer Completer, logger *zap.Logger) *Service {
	return &Service{
		completer: completer,
		logger:    logger,
		state:     StateIdle,
	}
}

// GetRecommendations runs the full pipeline for one profile snapshot.
// Always returns a non-empty batch; transport and parse failures yield
// the fallback set. Each invocation carries a generation number so that
// concurrent invocations cannot clobber a newer result: a batch whose
// generation is no longer the latest requested is marked stale and not
// retained.
func (s *Service) GetRecommendations(ctx context.Context, profile *domain.UserProfile, kind domain.RequestKind, count int) *Batch {
	if count <= 0 {
		count = DefaultCount
	}
	if profile == nil {
		profile = domain.DefaultProfile()
	}

	gen := s.generation.Add(1)
	s.setState(StateRequesting)

	promptText := prompt.BuildRecommendationPrompt(prompt.RecommendationPromptVars{
		Age:            profile.Age,
		Gender:         profile.Gender,
		Country:        profile.Country,
		FavoriteGenres: profile.FavoriteGenres,
		Languages:      profile.Languages,
		RecentHistory:  recentHistory(profile.WatchHistory),
		Mood:           profile.Mood,
		RequestKind:    string(kind),
		Count:          count,
	})

	raw, metadata, err := s.completer.Complete(ctx, prompt.RecommendationSystemText, promptText, ai.PresetCreative, &ai.CompleteOptions{
		JSONMode: true,
	})
	if err != nil {
		s.logger.Warn("Completion failed, serving fallback set",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return s.commit(s.fallbackBatch(gen, kind))
	}

	items, err := ParseRecommendations(raw)
	if err != nil {
		s.logger.Warn("Response parse failed, serving fallback set",
			zap.String("kind", string(kind)),
			zap.String("provider", metadata.Provider),
			zap.String("response_preview", util.TruncateString(raw, 200)),
			zap.Error(err),
		)
		return s.commit(s.fallbackBatch(gen, kind))
	}

	s.logger.Info("Recommendations fulfilled",
		zap.String("kind", string(kind)),
		zap.Int("requested", count),
		zap.Int("returned", len(items)),
		zap.String("provider", metadata.Provider),
		zap.Bool("used_fallback_provider", metadata.UsedFallback),
	)

	return s.commit(&Batch{
		Items:      items,
		Kind:       kind,
		Generation: gen,
		Provider:   metadata.Provider,
		Model:      metadata.Model,
	})
}

func (s *Service) fallbackBatch(gen uint64, kind domain.RequestKind) *Batch {
	return &Batch{
		Items:      FallbackSet(),
		Kind:       kind,
		Generation: gen,
		Fallback:   true,
	}
}

// commit applies request fencing and updates the observable state.
func (s *Service) commit(batch *Batch) *Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	if batch.Generation != s.generation.Load() {
		// A newer invocation started while this one was in flight;
		// its eventual result owns the latest slot.
		batch.Stale = true
		s.logger.Debug("Discarding stale batch",
			zap.Uint64("generation", batch.Generation),
			zap.Uint64("latest", s.generation.Load()),
		)
		return batch
	}

	s.latest = batch
	if batch.Fallback {
		s.state = StateFallback
	} else {
		s.state = StateFulfilled
	}
	return batch
}

// Latest returns the most recent non-stale batch, or nil before the
// first invocation completes.
func (s *Service) Latest() *Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Service) State() PipelineState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Service) setState(state PipelineState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// recentHistory returns the most recent titles interpolated into the
// prompt.
func recentHistory(history []string) []string {
	window := constants.ProfileLimits.PromptHistoryWindow
	if len(history) <= window {
		return history
	}
	return history[len(history)-window:]
}
