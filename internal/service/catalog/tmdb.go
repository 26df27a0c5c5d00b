package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/fairflicks/fairflicks-go/internal/constants"
	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/internal/service/cache"
	"github.com/fairflicks/fairflicks-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// movieListResponse is the raw TMDB paged list envelope
type movieListResponse struct {
	Page         int            `json:"page"`
	Results      []domain.Movie `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type genreListResponse struct {
	Genres []domain.Genre `json:"genres"`
}

// SearchResult pairs a result page with its page count.
type SearchResult struct {
	Results    []domain.Movie `json:"results"`
	TotalPages int            `json:"total_pages"`
}

// CatalogService provides access to the TMDB metadata API with Redis
// response caching and a scraper fallback for trending titles.
type CatalogService struct {
	httpClient       *http.Client
	apiKey           string
	baseURL          string
	cache            *cache.CacheService
	scraper          *ScraperService // fallback for trending titles
	logger           *zap.Logger
	failureCount     int
	failureMu        sync.Mutex
	circuitOpenUntil *time.Time
	circuitMu        sync.RWMutex
}

func NewCatalogService(apiKey, baseURL string, cacheSvc *cache.CacheService, scraper *ScraperService, logger *zap.Logger) (*CatalogService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}
	if baseURL == "" {
		baseURL = constants.APIConfig.TMDBBaseURL
	}

	return &CatalogService{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.TMDBTimeout,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
		cache:   cacheSvc,
		scraper: scraper,
		logger:  logger,
	}, nil
}

// SearchMovies searches the catalog by free-text query.
func (c *CatalogService) SearchMovies(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("catalog:search:%s:%d", query, page)
	var cached SearchResult
	if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var resp movieListResponse
	if err := c.getJSON(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}

	result := &SearchResult{Results: resp.Results, TotalPages: resp.TotalPages}
	_ = c.cache.Set(ctx, cacheKey, result, constants.CacheTTL.MovieSearch)
	return result, nil
}

// GetTrendingMovies returns the weekly trending list, degrading to the
// scraper when the API is unreachable.
func (c *CatalogService) GetTrendingMovies(ctx context.Context, timeWindow string) ([]domain.Movie, error) {
	if timeWindow != "day" {
		timeWindow = "week"
	}

	cacheKey := fmt.Sprintf("catalog:trending:%s", timeWindow)
	var cached []domain.Movie
	if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	var resp movieListResponse
	if err := c.getJSON(ctx, "/trending/movie/"+timeWindow, nil, &resp); err != nil {
		if c.scraper != nil {
			c.logger.Warn("TMDB trending unavailable, falling back to scraper", zap.Error(err))
			return c.scraper.FetchTrendingTitles(ctx)
		}
		return nil, err
	}

	_ = c.cache.Set(ctx, cacheKey, resp.Results, constants.CacheTTL.TrendingMovies)
	return resp.Results, nil
}

// GetPopularMovies returns the popular list for one page.
func (c *CatalogService) GetPopularMovies(ctx context.Context, page int) ([]domain.Movie, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("catalog:popular:%d", page)
	var cached []domain.Movie
	if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var resp movieListResponse
	if err := c.getJSON(ctx, "/movie/popular", params, &resp); err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, cacheKey, resp.Results, constants.CacheTTL.PopularMovies)
	return resp.Results, nil
}

// GetMoviesByGenre discovers movies for a genre id, most popular first.
func (c *CatalogService) GetMoviesByGenre(ctx context.Context, genreID, page int) ([]domain.Movie, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("catalog:genre:%d:%d", genreID, page)
	var cached []domain.Movie
	if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", "popularity.desc")

	var resp movieListResponse
	if err := c.getJSON(ctx, "/discover/movie", params, &resp); err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, cacheKey, resp.Results, constants.CacheTTL.DiscoverMovies)
	return resp.Results, nil
}

// GetMoviesByCountry discovers movies originating from a country code.
func (c *CatalogService) GetMoviesByCountry(ctx context.Context, countryCode string, page int) ([]domain.Movie, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("catalog:country:%s:%d", countryCode, page)
	var cached []domain.Movie
	if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	params := url.Values{}
	params.Set("with_origin_country", countryCode)
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", "popularity.desc")

	var resp movieListResponse
	if err := c.getJSON(ctx, "/discover/movie", params, &resp); err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, cacheKey, resp.Results, constants.CacheTTL.DiscoverMovies)
	return resp.Results, nil
}

// GetGenres returns the genre id/name list.
func (c *CatalogService) GetGenres(ctx context.Context) ([]domain.Genre, error) {
	cacheKey := "catalog:genres"
	var cached []domain.Genre
	if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	var resp genreListResponse
	if err := c.getJSON(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, cacheKey, resp.Genres, constants.CacheTTL.GenreList)
	return resp.Genres, nil
}

// GetMovieDetails fetches the detail document and the credits in
// parallel and merges them.
func (c *CatalogService) GetMovieDetails(ctx context.Context, movieID int) (*domain.MovieDetails, error) {
	cacheKey := fmt.Sprintf("catalog:details:%d", movieID)
	var cached domain.MovieDetails
	if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	var details domain.MovieDetails
	var credits domain.Credits

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return c.getJSON(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &details)
	})
	p.Go(func(ctx context.Context) error {
		return c.getJSON(ctx, fmt.Sprintf("/movie/%d/credits", movieID), nil, &credits)
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	details.Credits = &credits
	_ = c.cache.Set(ctx, cacheKey, &details, constants.CacheTTL.MovieDetails)
	return &details, nil
}

// ImageURL builds a full poster/backdrop URL for a TMDB image path.
func (c *CatalogService) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	switch size {
	case "w200", "w300", "w500", "original":
	default:
		size = "w500"
	}
	return fmt.Sprintf("%s/%s%s", constants.APIConfig.TMDBImageURL, size, path)
}

// getJSON performs one GET against the TMDB API and decodes the body.
func (c *CatalogService) getJSON(ctx context.Context, path string, params url.Values, dest any) error {
	if c.isCircuitOpen() {
		return errors.NewAppError("catalog circuit breaker open", errors.CodeTransport, 503, map[string]any{
			"path": path,
		})
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		return errors.NewTransportError("catalog request failed", "TMDB", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		c.recordFailure()
		return errors.NewTransportError("catalog response read failed", "TMDB", err)
	}

	if resp.StatusCode >= 500 {
		c.recordFailure()
		return errors.NewAppError("catalog server error", errors.CodeTransport, resp.StatusCode, map[string]any{
			"path": path,
		})
	}
	if resp.StatusCode != http.StatusOK {
		return errors.NewAppError("catalog request rejected", errors.CodeTransport, resp.StatusCode, map[string]any{
			"path": path,
		})
	}

	c.resetFailures()

	if err := json.Unmarshal(body, dest); err != nil {
		return errors.NewAppError("catalog response decode failed", errors.CodeTransport, resp.StatusCode, nil).WithCause(err)
	}

	return nil
}

func (c *CatalogService) isCircuitOpen() bool {
	c.circuitMu.RLock()
	defer c.circuitMu.RUnlock()

	if c.circuitOpenUntil == nil {
		return false
	}
	return time.Now().Before(*c.circuitOpenUntil)
}

func (c *CatalogService) recordFailure() {
	c.failureMu.Lock()
	c.failureCount++
	count := c.failureCount
	c.failureMu.Unlock()

	if count >= constants.CircuitBreakerConfig.FailureThreshold {
		c.circuitMu.Lock()
		resetTime := time.Now().Add(constants.CircuitBreakerConfig.ResetTimeout)
		c.circuitOpenUntil = &resetTime
		c.circuitMu.Unlock()

		c.failureMu.Lock()
		c.failureCount = 0
		c.failureMu.Unlock()

		c.logger.Error("Catalog circuit breaker opened",
			zap.Duration("reset_timeout", constants.CircuitBreakerConfig.ResetTimeout),
		)
	}
}

func (c *CatalogService) resetFailures() {
	c.failureMu.Lock()
	c.failureCount = 0
	c.failureMu.Unlock()

	c.circuitMu.Lock()
	c.circuitOpenUntil = nil
	c.circuitMu.Unlock()
}
