package recommend

import (
	"encoding/json"
	"strings"

	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/pkg/errors"
)

// Field defaults substituted for keys the model omitted.
const (
	defaultYear              = 2023
	defaultRating            = 8.0
	defaultFairnessScore     = 90
	defaultCulturalRelevance = 7
	defaultReason            = "Recommended based on your preferences"
	defaultBiasAnalysis      = "Bias-free recommendation"
	defaultBiasScore         = 80
	defaultBiasReportText    = "No significant bias detected"
)

// recommendationRecord is the strict decode target. Pointer fields
// distinguish "absent" (defaulted) from "present"; a value of the wrong
// type fails the decode outright instead of passing through.
type recommendationRecord struct {
	Title             *string  `json:"title"`
	Genre             []string `json:"genre"`
	Year              *int     `json:"year"`
	Rating            *float64 `json:"rating"`
	Reason            *string  `json:"reason"`
	FairnessScore     *int     `json:"fairnessScore"`
	BiasAnalysis      *string  `json:"biasAnalysis"`
	CulturalRelevance *int     `json:"culturalRelevance"`
}

type biasReportRecord struct {
	BiasScore       *int     `json:"biasScore"`
	Analysis        *string  `json:"analysis"`
	Recommendations []string `json:"recommendations"`
}

// ParseRecommendations extracts and validates a JSON array of
// recommendation records from unstructured model output. Missing fields
// get defaults; a shape or type violation fails the whole parse so the
// caller falls back.
func ParseRecommendations(raw string) ([]domain.MovieRecommendation, error) {
	payload, ok := extractSpan(raw, '[', ']')
	if !ok {
		return nil, errors.NewParseError("response contains no JSON array", errors.ParseKindNoStructuredData, nil)
	}

	var records []recommendationRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, errors.NewParseError("response array is not valid JSON", errors.ParseKindMalformedJSON, err)
	}

	if len(records) == 0 {
		return nil, errors.NewParseError("response array is empty", errors.ParseKindMalformedJSON, nil)
	}

	recommendations := make([]domain.MovieRecommendation, 0, len(records))
	for _, rec := range records {
		if rec.Title == nil || strings.TrimSpace(*rec.Title) == "" {
			return nil, errors.NewParseError("recommendation record has no title", errors.ParseKindMalformedJSON, nil)
		}

		r := domain.MovieRecommendation{
			Title:             *rec.Title,
			Genre:             rec.Genre,
			Year:              defaultYear,
			Rating:            defaultRating,
			Reason:            defaultReason,
			FairnessScore:     defaultFairnessScore,
			BiasAnalysis:      defaultBiasAnalysis,
			CulturalRelevance: defaultCulturalRelevance,
		}
		if r.Genre == nil {
			r.Genre = []string{}
		}
		if rec.Year != nil {
			r.Year = *rec.Year
		}
		if rec.Rating != nil {
			r.Rating = *rec.Rating
		}
		if rec.Reason != nil {
			r.Reason = *rec.Reason
		}
		if rec.FairnessScore != nil {
			r.FairnessScore = *rec.FairnessScore
		}
		if rec.BiasAnalysis != nil {
			r.BiasAnalysis = *rec.BiasAnalysis
		}
		if rec.CulturalRelevance != nil {
			r.CulturalRelevance = *rec.CulturalRelevance
		}

		recommendations = append(recommendations, r)
	}

	return recommendations, nil
}

// ParseBiasReport is the single-object analogue of ParseRecommendations
// used by the bias audit.
func ParseBiasReport(raw string) (*domain.BiasReport, error) {
	payload, ok := extractSpan(raw, '{', '}')
	if !ok {
		return nil, errors.NewParseError("response contains no JSON object", errors.ParseKindNoStructuredData, nil)
	}

	var record biasReportRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, errors.NewParseError("response object is not valid JSON", errors.ParseKindMalformedJSON, err)
	}

	report := &domain.BiasReport{
		BiasScore:       defaultBiasScore,
		Analysis:        defaultBiasReportText,
		Recommendations: record.Recommendations,
	}
	if record.BiasScore != nil {
		report.BiasScore = *record.BiasScore
	}
	if record.Analysis != nil {
		report.Analysis = *record.Analysis
	}
	if report.Recommendations == nil {
		report.Recommendations = []string{}
	}

	return report, nil
}

// extractSpan returns the greedy span between the first open delimiter
// and the last close delimiter.
func extractSpan(raw string, open, close byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	if start == -1 {
		return "", false
	}
	end := strings.LastIndexByte(raw, close)
	if end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}
