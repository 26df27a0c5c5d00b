package recommend

import (
	"reflect"
	"testing"

	"github.com/fairflicks/fairflicks-go/pkg/errors"
)

func TestParseRecommendationsMinimalRecord(t *testing.T) {
	items, err := ParseRecommendations(`[{"title": "Past Lives"}]`)
	if err != nil {
		t.Fatalf("ParseRecommendations: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	got := items[0]
	if got.Title != "Past Lives" {
		t.Errorf("Title = %q", got.Title)
	}
	if !reflect.DeepEqual(got.Genre, []string{}) {
		t.Errorf("Genre = %v, want empty non-nil slice", got.Genre)
	}
	if got.Year != 2023 {
		t.Errorf("Year = %d, want default 2023", got.Year)
	}
	if got.Rating != 8.0 {
		t.Errorf("Rating = %v, want default 8.0", got.Rating)
	}
	if got.FairnessScore != 90 {
		t.Errorf("FairnessScore = %d, want default 90", got.FairnessScore)
	}
	if got.CulturalRelevance != 7 {
		t.Errorf("CulturalRelevance = %d, want default 7", got.CulturalRelevance)
	}
	if got.Reason != "Recommended based on your preferences" {
		t.Errorf("Reason = %q", got.Reason)
	}
	if got.BiasAnalysis != "Bias-free recommendation" {
		t.Errorf("BiasAnalysis = %q", got.BiasAnalysis)
	}
}

func TestParseRecommendationsFullRecord(t *testing.T) {
	raw := `Here are your picks:
[
  {
    "title": "RRR",
    "genre": ["Action", "Drama"],
    "year": 2022,
    "rating": 7.9,
    "reason": "Epic Indian cinema",
    "fairnessScore": 88,
    "biasAnalysis": "Non-Western production",
    "culturalRelevance": 10
  }
]
Enjoy!`

	items, err := ParseRecommendations(raw)
	if err != nil {
		t.Fatalf("ParseRecommendations: %v", err)
	}
	got := items[0]
	if got.Title != "RRR" || got.Year != 2022 || got.Rating != 7.9 || got.CulturalRelevance != 10 {
		t.Errorf("parsed record = %+v", got)
	}
	if !reflect.DeepEqual(got.Genre, []string{"Action", "Drama"}) {
		t.Errorf("Genre = %v", got.Genre)
	}
}

func TestParseRecommendationsNoStructuredData(t *testing.T) {
	cases := []string{
		"I cannot help with that.",
		"",
		"Some prose with no JSON at all",
	}
	for _, raw := range cases {
		_, err := ParseRecommendations(raw)
		if !errors.IsParseKind(err, errors.ParseKindNoStructuredData) {
			t.Errorf("ParseRecommendations(%q) err = %v, want no_structured_data", raw, err)
		}
	}
}

func TestParseRecommendationsMalformed(t *testing.T) {
	cases := map[string]string{
		"trailing comma":   `[{"title": "A"},]`,
		"empty array":      `[]`,
		"missing title":    `[{"year": 2021}]`,
		"blank title":      `[{"title": "   "}]`,
		"wrong type year":  `[{"title": "A", "year": "twenty twenty"}]`,
		"wrong type genre": `[{"title": "A", "genre": "Drama"}]`,
	}
	for name, raw := range cases {
		if _, err := ParseRecommendations(raw); !errors.IsParseKind(err, errors.ParseKindMalformedJSON) {
			t.Errorf("%s: err = %v, want malformed_json", name, err)
		}
	}
}

func TestParseBiasReport(t *testing.T) {
	report, err := ParseBiasReport(`{"biasScore": 72, "analysis": "Mild Western skew", "recommendations": ["Broaden countries"]}`)
	if err != nil {
		t.Fatalf("ParseBiasReport: %v", err)
	}
	if report.BiasScore != 72 || report.Analysis != "Mild Western skew" {
		t.Errorf("report = %+v", report)
	}
	if !reflect.DeepEqual(report.Recommendations, []string{"Broaden countries"}) {
		t.Errorf("Recommendations = %v", report.Recommendations)
	}
}

func TestParseBiasReportDefaults(t *testing.T) {
	report, err := ParseBiasReport(`{}`)
	if err != nil {
		t.Fatalf("ParseBiasReport: %v", err)
	}
	if report.BiasScore != 80 {
		t.Errorf("BiasScore = %d, want default 80", report.BiasScore)
	}
	if report.Analysis != "No significant bias detected" {
		t.Errorf("Analysis = %q", report.Analysis)
	}
	if !reflect.DeepEqual(report.Recommendations, []string{}) {
		t.Errorf("Recommendations = %v, want empty non-nil slice", report.Recommendations)
	}
}

func TestParseBiasReportNoObject(t *testing.T) {
	_, err := ParseBiasReport("no object here")
	if !errors.IsParseKind(err, errors.ParseKindNoStructuredData) {
		t.Errorf("err = %v, want no_structured_data", err)
	}
}
