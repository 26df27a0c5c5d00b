package recommend

import (
	"context"

	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/internal/prompt"
	"github.com/fairflicks/fairflicks-go/internal/service/ai"
	"go.uber.org/zap"
)

// BiasAnalyzer audits a single title for recommendation bias. Same
// client/parser shape as the recommendation pipeline, specialized to one
// JSON object with a lower-temperature preset.
type BiasAnalyzer struct {
	completer Completer
	logger    *zap.Logger
}

func NewBiasAnalyzer(completer Completer, logger *zap.Logger) *BiasAnalyzer {
	return &BiasAnalyzer{
		completer: completer,
		logger:    logger,
	}
}

// AnalyzeBias never fails: transport and parse errors degrade to the
// fixed neutral report.
func (b *BiasAnalyzer) AnalyzeBias(ctx context.Context, title string, profile *domain.UserProfile) *domain.BiasReport {
	if profile == nil {
		profile = domain.DefaultProfile()
	}

	promptText := prompt.BuildBiasAuditPrompt(prompt.BiasAuditPromptVars{
		Title:   title,
		Age:     profile.Age,
		Gender:  profile.Gender,
		Country: profile.Country,
	})

	raw, metadata, err := b.completer.Complete(ctx, prompt.BiasAuditSystemText, promptText, ai.PresetPrecise, &ai.CompleteOptions{
		JSONMode: true,
		Overrides: &ai.ModelConfig{
			MaxOutputTokens: 1024,
		},
	})
	if err != nil {
		b.logger.Warn("Bias audit completion failed, serving neutral report",
			zap.String("title", title),
			zap.Error(err),
		)
		return domain.NeutralBiasReport()
	}

	report, err := ParseBiasReport(raw)
	if err != nil {
		b.logger.Warn("Bias audit parse failed, serving neutral report",
			zap.String("title", title),
			zap.String("provider", metadata.Provider),
			zap.Error(err),
		)
		return domain.NeutralBiasReport()
	}

	return report
}
