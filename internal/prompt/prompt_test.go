package prompt

import (
	"strings"
	"testing"
)

func TestBuildRecommendationPrompt(t *testing.T) {
	got := BuildRecommendationPrompt(RecommendationPromptVars{
		Age:            30,
		Gender:         "female",
		Country:        "JP",
		FavoriteGenres: []string{"Drama", "Animation"},
		Languages:      []string{"Japanese"},
		RecentHistory:  []string{"Drive My Car", "Your Name"},
		Mood:           "reflective",
		RequestKind:    "cultural",
		Count:          3,
	})

	for _, want := range []string{
		"Generate 3 movie recommendations",
		"Return EXACTLY 3 recommendations",
		"- Age: 30",
		"- Gender: female",
		"- Country: JP",
		"- Favorite Genres: Drama, Animation",
		"- Languages: Japanese",
		"- Recent Watch History: Drive My Car, Your Name",
		"- Current Mood: reflective",
		"- Request Type: cultural",
		"regional preferences for JP",
		"(2020-2024)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildRecommendationPromptEmptyMood(t *testing.T) {
	got := BuildRecommendationPrompt(RecommendationPromptVars{Count: 5})
	if !strings.Contains(got, "- Current Mood: Any") {
		t.Error("empty mood should render as Any")
	}
}

func TestBuildRecommendationPromptDeterministic(t *testing.T) {
	vars := RecommendationPromptVars{Age: 25, Country: "US", Count: 5}
	if BuildRecommendationPrompt(vars) != BuildRecommendationPrompt(vars) {
		t.Error("prompt construction must be deterministic")
	}
}

func TestBuildBiasAuditPrompt(t *testing.T) {
	got := BuildBiasAuditPrompt(BiasAuditPromptVars{
		Title:   "Oldboy",
		Age:     30,
		Gender:  "female",
		Country: "JP",
	})

	for _, want := range []string{
		`"Oldboy"`,
		"30-year-old female from JP",
		`"biasScore"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("audit prompt missing %q:\n%s", want, got)
		}
	}
}
