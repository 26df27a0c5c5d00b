package catalog

import (
	"math"

	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/internal/util"
)

// AnalyzeMovieFairness computes the arithmetic diversity audit from
// catalog metadata: cast gender balance, cultural breadth of production
// countries and spoken languages, and director gender diversity.
func AnalyzeMovieFairness(movie *domain.MovieDetails) *domain.FairnessReport {
	var cast []domain.CastMember
	var crew []domain.CrewMember
	if movie.Credits != nil {
		cast = movie.Credits.Cast
		crew = movie.Credits.Crew
	}

	totalCast := len(cast)
	femaleCast := 0
	maleCast := 0
	for _, person := range cast {
		switch person.Gender {
		case domain.GenderFemale:
			femaleCast++
		case domain.GenderMale:
			maleCast++
		}
	}

	genderBalance := 50.0
	if totalCast > 0 {
		genderBalance = float64(util.Min(femaleCast, maleCast)) / float64(totalCast) * 200
	}

	culturalRepresentation := math.Min(
		float64(len(movie.ProductionCountries)+len(movie.SpokenLanguages))*20, 100)

	directors := 0
	femaleDirectors := 0
	for _, person := range crew {
		if person.Job != "Director" {
			continue
		}
		directors++
		if person.Gender == domain.GenderFemale {
			femaleDirectors++
		}
	}

	directorDiversity := 0.0
	if directors > 0 {
		directorDiversity = float64(femaleDirectors) / float64(directors) * 100
	}

	diversityScore := int(math.Round((genderBalance + culturalRepresentation + directorDiversity) / 3))

	tags := []string{}
	if genderBalance > 40 {
		tags = append(tags, "Gender Balanced")
	}
	if culturalRepresentation > 60 {
		tags = append(tags, "Culturally Diverse")
	}
	if diversityScore > 80 {
		tags = append(tags, "Highly Inclusive")
	}
	if diversityScore > 90 {
		tags = append(tags, "Bias-Free")
	}

	return &domain.FairnessReport{
		DiversityScore:         diversityScore,
		GenderBalance:          int(math.Round(genderBalance)),
		CulturalRepresentation: int(math.Round(culturalRepresentation)),
		FairnessTags:           tags,
	}
}
