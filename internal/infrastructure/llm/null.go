package llm

import (
	"context"

	"github.com/prodlens/backend/internal/domain"
)

// NullGenerator is used when no provider is configured. Every call reports
// domain.ErrGenerationUnavailable so callers take their fallback path.
type NullGenerator struct{}

// Name implements domain.TextGenerator.
func (NullGenerator) Name() string { return "none" }

// Generate implements domain.TextGenerator.
func (NullGenerator) Generate(context.Context, string) (string, error) {
	return "", &domain.GenerationError{Provider: "none", Err: domain.ErrGenerationUnavailable}
}

// New selects the generator once at startup: live when an API key is set,
// null otherwise.
func New(cfg Config) domain.TextGenerator {
	if cfg.APIKey == "" {
		if cfg.Logger != nil {
			cfg.Logger.Info("text generation disabled, summaries use sentence fallback")
		}
		return NullGenerator{}
	}
	return NewOpenAIGenerator(cfg)
}
