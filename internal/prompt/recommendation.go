package prompt

import (
	"fmt"
	"strings"

	"github.com/fairflicks/fairflicks-go/internal/constants"
)

// RecommendationSystemText is the fixed system role sent with every
// recommendation request.
const RecommendationSystemText = `You are FairFlicks AI, an advanced movie recommendation system that prioritizes fairness, diversity, and cultural sensitivity. You analyze user preferences while ensuring recommendations are bias-free and inclusive. Always consider gender representation, cultural diversity, and avoid stereotypical suggestions.`

// BuildRecommendationPrompt builds the structured recommendation prompt.
// Deterministic and pure. The output contract it embeds is soft; the
// response parser is the enforcement point.
func BuildRecommendationPrompt(vars RecommendationPromptVars) string {
	mood := vars.Mood
	if mood == "" {
		mood = "Any"
	}

	return fmt.Sprintf(`Generate %d movie recommendations for a user with the following profile:
- Age: %d
- Gender: %s
- Country: %s
- Favorite Genres: %s
- Languages: %s
- Recent Watch History: %s
- Current Mood: %s
- Request Type: %s

Requirements:
1. Ensure gender-balanced recommendations (avoid gender stereotypes)
2. Include diverse cultural perspectives and international cinema
3. Consider regional preferences for %s
4. Provide fairness analysis for each recommendation
5. Include bias-free reasoning for each suggestion
6. Rate cultural relevance (1-10) for each movie

Return EXACTLY %d recommendations in this JSON format:
[
  {
    "title": "Movie Title",
    "genre": ["Genre1", "Genre2"],
    "year": 2023,
    "rating": 8.5,
    "reason": "Personalized reason why this movie fits the user",
    "fairnessScore": 95,
    "biasAnalysis": "Analysis of potential biases and why this recommendation is fair",
    "culturalRelevance": 8
  }
]

Focus on recent movies (%d-%d) and ensure diversity in directors, cast, and storytelling perspectives.`,
		vars.Count,
		vars.Age,
		vars.Gender,
		vars.Country,
		strings.Join(vars.FavoriteGenres, ", "),
		strings.Join(vars.Languages, ", "),
		strings.Join(vars.RecentHistory, ", "),
		mood,
		vars.RequestKind,
		vars.Country,
		vars.Count,
		constants.RecencyWindow.FromYear,
		constants.RecencyWindow.ToYear,
	)
}
