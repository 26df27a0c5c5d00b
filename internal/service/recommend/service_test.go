package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/internal/service/ai"
	"go.uber.org/zap"
)

// fakeCompleter scripts the completion transport for pipeline tests.
type fakeCompleter struct {
	response string
	err      error
	calls    int
	lastSys  string
	lastText string
	lastOpts *ai.CompleteOptions
}

func (f *fakeCompleter) Complete(_ context.Context, system, promptText string, _ ai.ModelPreset, opts *ai.CompleteOptions) (string, *ai.Metadata, error) {
	f.calls++
	f.lastSys = system
	f.lastText = promptText
	f.lastOpts = opts
	if f.err != nil {
		return "", nil, f.err
	}
	return f.response, &ai.Metadata{Provider: "gemini", Model: "gemini-2.5-flash"}, nil
}

func scriptedResponse(n int) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"title": "Movie %d", "genre": ["Drama"], "year": 2021}`, i)
	}
	sb.WriteString("]")
	return sb.String()
}

func TestGetRecommendationsFulfilled(t *testing.T) {
	completer := &fakeCompleter{response: scriptedResponse(5)}
	svc := NewService(completer, zap.NewNop())

	batch := svc.GetRecommendations(context.Background(), domain.DefaultProfile(), domain.RequestPersonalized, 5)

	if batch.Fallback {
		t.Error("successful parse must not be a fallback batch")
	}
	if len(batch.Items) != 5 {
		t.Errorf("got %d items, want 5", len(batch.Items))
	}
	if batch.Kind != domain.RequestPersonalized {
		t.Errorf("Kind = %q", batch.Kind)
	}
	if batch.Provider != "gemini" {
		t.Errorf("Provider = %q", batch.Provider)
	}
	if svc.State() != StateFulfilled {
		t.Errorf("State = %q, want fulfilled", svc.State())
	}
	if svc.Latest() != batch {
		t.Error("Latest() should return the committed batch")
	}
	if completer.lastOpts == nil || !completer.lastOpts.JSONMode {
		t.Error("recommendation completion should request JSON mode")
	}
}

func TestGetRecommendationsTransportFallback(t *testing.T) {
	completer := &fakeCompleter{err: fmt.Errorf("rate limited")}
	svc := NewService(completer, zap.NewNop())

	batch := svc.GetRecommendations(context.Background(), domain.DefaultProfile(), domain.RequestTrending, 5)

	if !batch.Fallback {
		t.Fatal("transport failure must serve the fallback set")
	}
	if len(batch.Items) != 2 {
		t.Fatalf("fallback set has %d items, want 2", len(batch.Items))
	}
	if batch.Items[0].Title != "Everything Everywhere All at Once" || batch.Items[1].Title != "Parasite" {
		t.Errorf("fallback titles = %q, %q", batch.Items[0].Title, batch.Items[1].Title)
	}
	if batch.Kind != domain.RequestTrending {
		t.Errorf("fallback batch keeps the request kind, got %q", batch.Kind)
	}
	if svc.State() != StateFallback {
		t.Errorf("State = %q, want fallback", svc.State())
	}
}

func TestGetRecommendationsParseFallback(t *testing.T) {
	completer := &fakeCompleter{response: "I cannot help with that."}
	svc := NewService(completer, zap.NewNop())

	batch := svc.GetRecommendations(context.Background(), domain.DefaultProfile(), domain.RequestMoodBased, 5)

	if !batch.Fallback || len(batch.Items) != 2 {
		t.Errorf("refusal text must serve the 2-item fallback set, got %+v", batch)
	}
}

func TestGetRecommendationsNeverEmpty(t *testing.T) {
	for _, completer := range []*fakeCompleter{
		{response: scriptedResponse(1)},
		{response: "[]"},
		{response: "garbage"},
		{err: fmt.Errorf("boom")},
	} {
		svc := NewService(completer, zap.NewNop())
		batch := svc.GetRecommendations(context.Background(), nil, domain.RequestPersonalized, 0)
		if len(batch.Items) == 0 {
			t.Errorf("pipeline returned an empty batch for %+v", completer)
		}
	}
}

func TestGetRecommendationsDefaults(t *testing.T) {
	completer := &fakeCompleter{response: scriptedResponse(5)}
	svc := NewService(completer, zap.NewNop())

	// Nil profile and non-positive count fall back to defaults.
	svc.GetRecommendations(context.Background(), nil, domain.RequestPersonalized, -3)

	if !strings.Contains(completer.lastText, "Generate 5 movie recommendations") {
		t.Errorf("prompt did not use the default count:\n%s", completer.lastText)
	}
	if !strings.Contains(completer.lastText, "Age: 25") {
		t.Errorf("prompt did not use the default profile:\n%s", completer.lastText)
	}
}

// slowFirstCompleter blocks its first call until released so a newer
// invocation can overtake it.
type slowFirstCompleter struct {
	response string
	started  chan struct{}
	release  chan struct{}
	first    atomic.Bool
}

func (c *slowFirstCompleter) Complete(_ context.Context, _, _ string, _ ai.ModelPreset, _ *ai.CompleteOptions) (string, *ai.Metadata, error) {
	if c.first.CompareAndSwap(false, true) {
		c.started <- struct{}{}
		<-c.release
	}
	return c.response, &ai.Metadata{Provider: "gemini", Model: "gemini-2.5-flash"}, nil
}

func TestStaleBatchNotRetained(t *testing.T) {
	completer := &slowFirstCompleter{
		response: scriptedResponse(3),
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	svc := NewService(completer, zap.NewNop())

	slowDone := make(chan *Batch)
	go func() {
		slowDone <- svc.GetRecommendations(context.Background(), domain.DefaultProfile(), domain.RequestPersonalized, 3)
	}()
	<-completer.started

	// A newer invocation starts and finishes while the first is still
	// in flight.
	fresh := svc.GetRecommendations(context.Background(), domain.DefaultProfile(), domain.RequestTrending, 3)

	close(completer.release)
	stale := <-slowDone

	if !stale.Stale {
		t.Error("the superseded batch must be marked stale")
	}
	if fresh.Stale {
		t.Error("the newest batch must not be stale")
	}
	if svc.Latest() != fresh {
		t.Error("Latest() must hold the newest batch, not the stale one")
	}
}

func TestAnalyzeBias(t *testing.T) {
	completer := &fakeCompleter{response: `{"biasScore": 65, "analysis": "skewed", "recommendations": ["diversify"]}`}
	analyzer := NewBiasAnalyzer(completer, zap.NewNop())

	report := analyzer.AnalyzeBias(context.Background(), "Top Gun: Maverick", domain.DefaultProfile())

	if report.BiasScore != 65 || report.Analysis != "skewed" {
		t.Errorf("report = %+v", report)
	}
	if !strings.Contains(completer.lastText, "Top Gun: Maverick") {
		t.Error("audit prompt must carry the title")
	}
}

func TestAnalyzeBiasFailsClosed(t *testing.T) {
	for _, completer := range []*fakeCompleter{
		{err: fmt.Errorf("unavailable")},
		{response: "not an object"},
	} {
		analyzer := NewBiasAnalyzer(completer, zap.NewNop())
		report := analyzer.AnalyzeBias(context.Background(), "Any Movie", nil)

		if report.BiasScore != 80 {
			t.Errorf("BiasScore = %d, want neutral 80", report.BiasScore)
		}
		if report.Analysis != "Unable to perform bias analysis" {
			t.Errorf("Analysis = %q, want neutral text", report.Analysis)
		}
		if len(report.Recommendations) != 0 {
			t.Errorf("Recommendations = %v, want empty", report.Recommendations)
		}
	}
}
