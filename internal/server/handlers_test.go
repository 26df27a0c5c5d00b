package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/internal/service/ai"
	"github.com/fairflicks/fairflicks-go/internal/service/profile"
	"github.com/fairflicks/fairflicks-go/internal/service/recommend"
	"go.uber.org/zap"
)

type memStorage struct {
	data map[string][]byte
}

func (m *memStorage) Read(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *memStorage) Write(_ context.Context, key string, data []byte) error {
	m.data[key] = data
	return nil
}

type failingCompleter struct{}

func (failingCompleter) Complete(context.Context, string, string, ai.ModelPreset, *ai.CompleteOptions) (string, *ai.Metadata, error) {
	return "", nil, context.DeadlineExceeded
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zap.NewNop()
	store := profile.NewStore(context.Background(), &memStorage{data: map[string][]byte{}}, logger)
	return New(":0", &Dependencies{
		Profiles:     store,
		Recommender:  recommend.NewService(failingCompleter{}, logger),
		BiasAnalyzer: recommend.NewBiasAnalyzer(failingCompleter{}, logger),
		Logger:       logger,
	})
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestGetProfileReturnsDefault(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/profile", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var p domain.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("response is not a profile: %v", err)
	}
	if p.Age != 25 || p.Country != "US" {
		t.Errorf("profile = %+v, want default", p)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]string{
		"age below minimum": `{"age": 12}`,
		"age above maximum": `{"age": 101}`,
		"too many genres":   `{"favoriteGenres": ["A","B","C","D","E","F"]}`,
		"unknown field":     `{"nope": true}`,
	}
	for name, body := range cases {
		rec := doRequest(s, http.MethodPatch, "/api/profile", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}

	rec := doRequest(s, http.MethodPatch, "/api/profile", `{"age": 42, "country": "KR"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid update: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var p domain.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Age != 42 || p.Country != "KR" {
		t.Errorf("updated profile = %+v", p)
	}
}

func TestInteractionEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/interactions", `{"title": "Roma", "genres": ["Romance"], "kind": "like"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var p domain.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, g := range p.FavoriteGenres {
		if g == "Romance" {
			found = true
		}
	}
	if !found {
		t.Errorf("like did not learn the genre: %v", p.FavoriteGenres)
	}

	rec = doRequest(s, http.MethodPost, "/api/interactions", `{"title": "Roma", "genres": ["X"], "kind": "loved"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown kind: status = %d, want 400", rec.Code)
	}
}

func TestRecommendationsServeFallbackOnTransportFailure(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/recommendations?kind=trending&count=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when the model is down", rec.Code)
	}

	var batch recommend.Batch
	if err := json.Unmarshal(rec.Body.Bytes(), &batch); err != nil {
		t.Fatal(err)
	}
	if !batch.Fallback || len(batch.Items) != 2 {
		t.Errorf("batch = %+v, want 2-item fallback", batch)
	}
	if batch.Kind != domain.RequestTrending {
		t.Errorf("Kind = %q, want trending", batch.Kind)
	}
}

func TestBiasEndpointFailsClosed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/bias", `{"title": "Dune"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var report domain.BiasReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.BiasScore != 80 {
		t.Errorf("BiasScore = %d, want neutral 80", report.BiasScore)
	}
}

func TestAnalyticsSummaryUnconfigured(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/analytics/summary", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 when analytics is disabled", rec.Code)
	}
}
