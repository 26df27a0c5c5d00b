package catalog

import (
	"reflect"
	"testing"

	"github.com/fairflicks/fairflicks-go/internal/domain"
)

func TestAnalyzeMovieFairnessBalanced(t *testing.T) {
	movie := &domain.MovieDetails{
		ProductionCountries: []domain.ProductionCountry{{ISO3166: "KR"}, {ISO3166: "US"}},
		SpokenLanguages:     []domain.SpokenLanguage{{ISO639: "ko"}, {ISO639: "en"}, {ISO639: "ja"}},
		Credits: &domain.Credits{
			Cast: []domain.CastMember{
				{Gender: domain.GenderFemale},
				{Gender: domain.GenderFemale},
				{Gender: domain.GenderMale},
				{Gender: domain.GenderMale},
			},
			Crew: []domain.CrewMember{
				{Job: "Director", Gender: domain.GenderFemale},
				{Job: "Producer", Gender: domain.GenderMale},
			},
		},
	}

	report := AnalyzeMovieFairness(movie)

	// min(2,2)/4*200 = 100
	if report.GenderBalance != 100 {
		t.Errorf("GenderBalance = %d, want 100", report.GenderBalance)
	}
	// (2 countries + 3 languages) * 20 capped at 100
	if report.CulturalRepresentation != 100 {
		t.Errorf("CulturalRepresentation = %d, want 100", report.CulturalRepresentation)
	}
	// (100 + 100 + 100) / 3
	if report.DiversityScore != 100 {
		t.Errorf("DiversityScore = %d, want 100", report.DiversityScore)
	}
	want := []string{"Gender Balanced", "Culturally Diverse", "Highly Inclusive", "Bias-Free"}
	if !reflect.DeepEqual(report.FairnessTags, want) {
		t.Errorf("FairnessTags = %v, want %v", report.FairnessTags, want)
	}
}

func TestAnalyzeMovieFairnessSkewed(t *testing.T) {
	movie := &domain.MovieDetails{
		ProductionCountries: []domain.ProductionCountry{{ISO3166: "US"}},
		SpokenLanguages:     []domain.SpokenLanguage{{ISO639: "en"}},
		Credits: &domain.Credits{
			Cast: []domain.CastMember{
				{Gender: domain.GenderMale},
				{Gender: domain.GenderMale},
				{Gender: domain.GenderMale},
				{Gender: domain.GenderFemale},
			},
			Crew: []domain.CrewMember{
				{Job: "Director", Gender: domain.GenderMale},
			},
		},
	}

	report := AnalyzeMovieFairness(movie)

	// min(1,3)/4*200 = 50
	if report.GenderBalance != 50 {
		t.Errorf("GenderBalance = %d, want 50", report.GenderBalance)
	}
	// (1 + 1) * 20 = 40
	if report.CulturalRepresentation != 40 {
		t.Errorf("CulturalRepresentation = %d, want 40", report.CulturalRepresentation)
	}
	// (50 + 40 + 0) / 3 = 30
	if report.DiversityScore != 30 {
		t.Errorf("DiversityScore = %d, want 30", report.DiversityScore)
	}
	if !reflect.DeepEqual(report.FairnessTags, []string{"Gender Balanced"}) {
		t.Errorf("FairnessTags = %v", report.FairnessTags)
	}
}

func TestAnalyzeMovieFairnessNoCredits(t *testing.T) {
	report := AnalyzeMovieFairness(&domain.MovieDetails{})

	// No cast means the neutral 50 default, not zero.
	if report.GenderBalance != 50 {
		t.Errorf("GenderBalance = %d, want neutral 50", report.GenderBalance)
	}
	if report.CulturalRepresentation != 0 {
		t.Errorf("CulturalRepresentation = %d, want 0", report.CulturalRepresentation)
	}
	if len(report.FairnessTags) != 1 || report.FairnessTags[0] != "Gender Balanced" {
		t.Errorf("FairnessTags = %v", report.FairnessTags)
	}
}
