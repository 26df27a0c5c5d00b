package prompt

// RecommendationPromptVars holds variables for the recommendation prompt
type RecommendationPromptVars struct {
	Age            int
	Gender         string
	Country        string
	FavoriteGenres []string
	Languages      []string
	RecentHistory  []string
	Mood           string
	RequestKind    string
	Count          int
}

// BiasAuditPromptVars holds variables for the single-title bias audit prompt
type BiasAuditPromptVars struct {
	Title   string
	Age     int
	Gender  string
	Country string
}
