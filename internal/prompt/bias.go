package prompt

import "fmt"

// BiasAuditSystemText is the system role for single-title bias audits.
const BiasAuditSystemText = `You are a bias detection expert for recommendation systems.`

// BuildBiasAuditPrompt builds the single-title bias audit prompt. The
// model is asked for a JSON object, not an array.
func BuildBiasAuditPrompt(vars BiasAuditPromptVars) string {
	return fmt.Sprintf(`Analyze potential bias in recommending "%s" to a %d-year-old %s from %s.

Consider:
1. Gender stereotypes in the recommendation
2. Cultural assumptions
3. Age appropriateness
4. Representation in the film
5. Potential algorithmic bias

Provide:
- Bias score (0-100, where 100 is completely bias-free)
- Detailed analysis
- Suggestions to improve fairness

Format as JSON:
{
  "biasScore": 85,
  "analysis": "Detailed bias analysis",
  "recommendations": ["Suggestion 1", "Suggestion 2"]
}`,
		vars.Title,
		vars.Age,
		vars.Gender,
		vars.Country,
	)
}
