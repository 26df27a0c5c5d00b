package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/fairflicks/fairflicks-go/internal/domain"
	"go.uber.org/zap"
)

type fakeStorage struct {
	data     map[string][]byte
	readErr  error
	writeErr error
	writes   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: map[string][]byte{}}
}

func (f *fakeStorage) Read(_ context.Context, key string) ([]byte, bool, error) {
	if f.readErr != nil {
		return nil, false, f.readErr
	}
	data, ok := f.data[key]
	return data, ok, nil
}

func (f *fakeStorage) Write(_ context.Context, key string, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	f.data[key] = data
	return nil
}

func (f *fakeStorage) persisted(t *testing.T) *domain.UserProfile {
	t.Helper()
	data, ok := f.data[StorageKey]
	if !ok {
		t.Fatal("expected a persisted profile document")
	}
	var p domain.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("persisted document is not valid JSON: %v", err)
	}
	return &p
}

func TestNewStoreDefaultsWhenAbsent(t *testing.T) {
	store := NewStore(context.Background(), newFakeStorage(), zap.NewNop())

	got := store.Profile()
	want := domain.DefaultProfile()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Profile() = %+v, want default %+v", got, want)
	}
}

func TestNewStoreDefaultsWhenCorrupt(t *testing.T) {
	storage := newFakeStorage()
	storage.data[StorageKey] = []byte("{not json")

	store := NewStore(context.Background(), storage, zap.NewNop())

	if !reflect.DeepEqual(store.Profile(), domain.DefaultProfile()) {
		t.Error("corrupt document should yield the exact default profile")
	}
	// The corrupt document stays in place until the next mutation.
	if string(storage.data[StorageKey]) != "{not json" {
		t.Error("corrupt document should not be rewritten on load")
	}
}

func TestNewStoreDefaultsOnReadError(t *testing.T) {
	storage := newFakeStorage()
	storage.readErr = fmt.Errorf("connection refused")

	store := NewStore(context.Background(), storage, zap.NewNop())

	if !reflect.DeepEqual(store.Profile(), domain.DefaultProfile()) {
		t.Error("read error should yield the default profile")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	store := NewStore(ctx, storage, zap.NewNop())

	age := 30
	country := "JP"
	if _, err := store.Update(ctx, &domain.ProfileUpdate{Age: &age, Country: &country}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := store.Rate(ctx, "movie-603", 9); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if err := store.SetMood(ctx, "adventurous"); err != nil {
		t.Fatalf("SetMood: %v", err)
	}

	// A fresh store over the same storage sees the same state.
	reloaded := NewStore(ctx, storage, zap.NewNop()).Profile()
	if reloaded.Age != 30 || reloaded.Country != "JP" {
		t.Errorf("reloaded profile = %+v, want age 30 country JP", reloaded)
	}
	if reloaded.Ratings["movie-603"] != 9 {
		t.Errorf("reloaded rating = %d, want 9", reloaded.Ratings["movie-603"])
	}
	if reloaded.Mood != "adventurous" {
		t.Errorf("reloaded mood = %q, want adventurous", reloaded.Mood)
	}
	// Untouched fields keep their prior values.
	if reloaded.Gender != "non-binary" {
		t.Errorf("Gender = %q, want untouched default", reloaded.Gender)
	}
}

func TestWatchHistoryBound(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	store := NewStore(ctx, storage, zap.NewNop())

	for i := 0; i < 60; i++ {
		if err := store.AppendWatchHistory(ctx, fmt.Sprintf("movie-%d", i)); err != nil {
			t.Fatalf("AppendWatchHistory: %v", err)
		}
	}

	history := store.Profile().WatchHistory
	if len(history) != 50 {
		t.Fatalf("history length = %d, want 50", len(history))
	}
	// Oldest entries were evicted from the front.
	if history[0] != "movie-10" || history[49] != "movie-59" {
		t.Errorf("history window = [%s .. %s], want [movie-10 .. movie-59]", history[0], history[49])
	}
	if got := len(storage.persisted(t).WatchHistory); got != 50 {
		t.Errorf("persisted history length = %d, want 50", got)
	}
}

func TestLearnFromInteraction(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, newFakeStorage(), zap.NewNop())

	// Default genres are Action, Drama, Sci-Fi. A like absorbs at most
	// the first two unseen genres.
	err := store.LearnFromInteraction(ctx, "Chungking Express", []string{"Drama", "Romance", "Crime", "Mystery"}, domain.InteractionLike)
	if err != nil {
		t.Fatalf("LearnFromInteraction: %v", err)
	}

	want := []string{"Action", "Drama", "Sci-Fi", "Romance", "Crime"}
	if got := store.Profile().FavoriteGenres; !reflect.DeepEqual(got, want) {
		t.Errorf("FavoriteGenres = %v, want %v", got, want)
	}
}

func TestLearnFromInteractionIgnoresDislike(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	store := NewStore(ctx, storage, zap.NewNop())

	err := store.LearnFromInteraction(ctx, "Some Movie", []string{"Horror", "Western"}, domain.InteractionDislike)
	if err != nil {
		t.Fatalf("LearnFromInteraction: %v", err)
	}

	if got := store.Profile().FavoriteGenres; len(got) != 3 {
		t.Errorf("dislike must not change genres, got %v", got)
	}
	if storage.writes != 0 {
		t.Errorf("dislike must not persist, got %d writes", storage.writes)
	}
}

func TestLearnFromInteractionNoNewGenres(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	store := NewStore(ctx, storage, zap.NewNop())

	err := store.LearnFromInteraction(ctx, "Mad Max", []string{"Action", "Drama"}, domain.InteractionWatch)
	if err != nil {
		t.Fatalf("LearnFromInteraction: %v", err)
	}
	if storage.writes != 0 {
		t.Errorf("no-op learning must not persist, got %d writes", storage.writes)
	}
}

func TestProfileSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, newFakeStorage(), zap.NewNop())

	snapshot := store.Profile()
	snapshot.FavoriteGenres[0] = "Mutated"
	snapshot.Ratings["x"] = 1

	fresh := store.Profile()
	if fresh.FavoriteGenres[0] != "Action" {
		t.Error("mutating a snapshot must not affect the store")
	}
	if len(fresh.Ratings) != 0 {
		t.Error("mutating a snapshot's ratings must not affect the store")
	}
}

func TestUpdateSurfacesPersistError(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	store := NewStore(ctx, storage, zap.NewNop())

	storage.writeErr = fmt.Errorf("disk full")
	age := 40
	if _, err := store.Update(ctx, &domain.ProfileUpdate{Age: &age}); err == nil {
		t.Error("expected persist error to surface from Update")
	}
}
