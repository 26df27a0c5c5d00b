package domain

// MovieRecommendation is one entry of a model-produced batch. Identity is
// the title only; batches are not deduplicated against watch history.
type MovieRecommendation struct {
	Title             string   `json:"title"`
	Genre             []string `json:"genre"`
	Year              int      `json:"year"`
	Rating            float64  `json:"rating"`
	Reason            string   `json:"reason"`
	FairnessScore     int      `json:"fairnessScore"`
	BiasAnalysis      string   `json:"biasAnalysis"`
	CulturalRelevance int      `json:"culturalRelevance"`
}

// BiasReport is the result of a single-title bias audit.
type BiasReport struct {
	BiasScore       int      `json:"biasScore"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
}

// NeutralBiasReport is the fail-closed audit result used when the model
// cannot be reached or returns garbage.
func NeutralBiasReport() *BiasReport {
	return &BiasReport{
		BiasScore:       80,
		Analysis:        "Unable to perform bias analysis",
		Recommendations: []string{},
	}
}
