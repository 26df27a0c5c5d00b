package recommend

import "github.com/fairflicks/fairflicks-go/internal/domain"

// FallbackSet returns the fixed recommendation pair served whenever the
// pipeline cannot obtain or parse a valid model response. It is agnostic
// of request kind and count.
func FallbackSet() []domain.MovieRecommendation {
	return []domain.MovieRecommendation{
		{
			Title:             "Everything Everywhere All at Once",
			Genre:             []string{"Comedy", "Drama", "Sci-Fi"},
			Year:              2022,
			Rating:            8.9,
			Reason:            "Highly acclaimed film with diverse representation and universal themes",
			FairnessScore:     98,
			BiasAnalysis:      "Features Asian-American leads, explores immigrant experience, gender-inclusive storytelling",
			CulturalRelevance: 9,
		},
		{
			Title:             "Parasite",
			Genre:             []string{"Thriller", "Drama"},
			Year:              2019,
			Rating:            8.6,
			Reason:            "International cinema masterpiece with social commentary",
			FairnessScore:     95,
			BiasAnalysis:      "Korean film that challenges Western cinema dominance, class-conscious narrative",
			CulturalRelevance: 10,
		},
	}
}
