package constants

import "time"

var CacheTTL = struct {
	TrendingMovies time.Duration
	PopularMovies  time.Duration
	MovieSearch    time.Duration
	MovieDetails   time.Duration
	GenreList      time.Duration
	DiscoverMovies time.Duration
	ScrapedTitles  time.Duration
}{
	TrendingMovies: 30 * time.Minute,
	PopularMovies:  30 * time.Minute,
	MovieSearch:    10 * time.Minute,
	MovieDetails:   6 * time.Hour,
	GenreList:      24 * time.Hour,
	DiscoverMovies: 30 * time.Minute,
	ScrapedTitles:  30 * time.Minute,
}

var ProfileLimits = struct {
	WatchHistoryCapacity int
	LearnedGenresPerHit  int
	PromptHistoryWindow  int
	MinAge               int
	MaxAge               int
	GenreSoftCap         int
}{
	WatchHistoryCapacity: 50, // FIFO eviction beyond this
	LearnedGenresPerHit:  2,  // genres absorbed per like/watch
	PromptHistoryWindow:  10, // recent titles interpolated into prompts
	MinAge:               13,
	MaxAge:               100,
	GenreSoftCap:         5, // enforced by profile edits, not by learning
}

var RecencyWindow = struct {
	FromYear int
	ToYear   int
}{
	FromYear: 2020,
	ToYear:   2024,
}

var AIInputLimits = struct {
	MaxQueryLength int
}{
	MaxQueryLength: 500,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    1 * time.Hour,
	HealthCheckInterval: 10 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var APIConfig = struct {
	TMDBBaseURL  string
	TMDBImageURL string
	TMDBTimeout  time.Duration
}{
	TMDBBaseURL:  "https://api.themoviedb.org/3",
	TMDBImageURL: "https://image.tmdb.org/t/p",
	TMDBTimeout:  10 * time.Second,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var WebSocketConfig = struct {
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}{
	WriteTimeout:   10 * time.Second,
	PongTimeout:    60 * time.Second,
	PingInterval:   50 * time.Second,
	MaxMessageSize: 4096,
}
