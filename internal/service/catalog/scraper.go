package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fairflicks/fairflicks-go/internal/constants"
	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/internal/service/cache"
	"go.uber.org/zap"
)

const (
	imdbChartURL   = "https://www.imdb.com/chart/moviemeter/"
	scraperTimeout = 15 * time.Second
)

// ScraperService is the degraded path for trending titles when the
// catalog API is unreachable. Title-only results; no metadata.
type ScraperService struct {
	httpClient *http.Client
	cache      *cache.CacheService
	logger     *zap.Logger
	chartURL   string
}

func NewScraperService(cacheSvc *cache.CacheService, logger *zap.Logger) *ScraperService {
	return &ScraperService{
		httpClient: &http.Client{
			Timeout: scraperTimeout,
		},
		cache:    cacheSvc,
		logger:   logger,
		chartURL: imdbChartURL,
	}
}

// FetchTrendingTitles scrapes the public most-popular chart and returns
// title-only movie entries.
func (s *ScraperService) FetchTrendingTitles(ctx context.Context) ([]domain.Movie, error) {
	cacheKey := "scraper:trending"
	var cached []domain.Movie
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		s.logger.Debug("Scraper cache hit")
		return cached, nil
	}

	s.logger.Info("Fetching trending titles from public chart (FALLBACK MODE)",
		zap.String("url", s.chartURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.chartURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; fairflicks/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper failed: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scraper parse failed: %w", err)
	}

	movies := make([]domain.Movie, 0, 25)
	doc.Find("li.ipc-metadata-list-summary-item h3.ipc-title__text").Each(func(i int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		// Chart rows render as "N. Title"
		if idx := strings.Index(title, ". "); idx != -1 && idx < 4 {
			title = title[idx+2:]
		}
		if title == "" {
			return
		}
		movies = append(movies, domain.Movie{Title: title})
	})

	if len(movies) == 0 {
		return nil, fmt.Errorf("scraper found no titles")
	}

	s.logger.Info("Scraped trending titles", zap.Int("count", len(movies)))
	_ = s.cache.Set(ctx, cacheKey, movies, constants.CacheTTL.ScrapedTitles)

	return movies, nil
}
