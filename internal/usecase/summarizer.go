package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/prodlens/backend/internal/domain"
	"github.com/prodlens/backend/internal/metrics"
)

const (
	// BulletMarker prefixes every summary line.
	BulletMarker = "• "

	maxFallbackBullets = 6

	summaryPromptTemplate = "Summarize the following product into 5-7 short, consumer-friendly bullet points. " +
		"Avoid marketing fluff, be specific.\n\n%s"
)

var (
	whitespaceRunRegex = regexp.MustCompile(`\s+`)
	newlineRunRegex    = regexp.MustCompile(`\n+`)
	leadingBulletRegex = regexp.MustCompile(`^[-*•]\s?`)
)

// Summarizer turns a product into short bullet points. It asks the text
// generator first and falls back to sentence splitting when generation is
// unavailable or fails. Summarize never returns an error.
type Summarizer struct {
	generator domain.TextGenerator
	logger    *zap.Logger
}

// NewSummarizer creates a summarizer. A nil generator means fallback only.
func NewSummarizer(generator domain.TextGenerator, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{
		generator: generator,
		logger:    logger,
	}
}

// Summarize returns 0..n bullet lines for the product.
func (s *Summarizer) Summarize(ctx context.Context, p domain.ProductRecord) []string {
	text := composeSummaryText(p)
	if text == "" {
		return []string{}
	}

	bullets, err := s.generateBullets(ctx, text)
	if err != nil {
		if !errors.Is(err, domain.ErrGenerationUnavailable) {
			s.logger.Warn("bullet generation failed, using fallback",
				zap.String("title", p.Title),
				zap.Error(err),
			)
		}
		metrics.SummariesTotal.WithLabelValues("fallback").Inc()
		return FallbackBullets(text)
	}

	metrics.SummariesTotal.WithLabelValues("generated").Inc()
	return bullets
}

// generateBullets asks the generator for bullets. Every failure is reported
// as a *domain.GenerationError.
func (s *Summarizer) generateBullets(ctx context.Context, text string) ([]string, error) {
	if s.generator == nil {
		return nil, &domain.GenerationError{Provider: "none", Err: domain.ErrGenerationUnavailable}
	}

	content, err := s.generator.Generate(ctx, fmt.Sprintf(summaryPromptTemplate, text))
	if err != nil {
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) {
			return nil, genErr
		}
		return nil, &domain.GenerationError{Provider: s.generator.Name(), Err: err}
	}

	bullets := parseGeneratedBullets(content)
	if len(bullets) == 0 {
		return nil, &domain.GenerationError{Provider: s.generator.Name(), Err: errors.New("empty response")}
	}
	return bullets, nil
}

// composeSummaryText joins the non-empty parts of a product into one blob:
// title, description, features and a JSON rendering of the specs.
func composeSummaryText(p domain.ProductRecord) string {
	parts := make([]string, 0, 4)
	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if features := strings.Join(p.Features, ". "); features != "" {
		parts = append(parts, features)
	}
	if len(p.Specs) > 0 {
		// map keys are sorted by encoding/json
		if raw, err := json.Marshal(p.Specs); err == nil {
			parts = append(parts, string(raw))
		}
	}
	return strings.Join(parts, "\n")
}

// parseGeneratedBullets normalizes generator output to one marked bullet per
// non-empty line.
func parseGeneratedBullets(content string) []string {
	bullets := []string{}
	for _, line := range newlineRunRegex.Split(content, -1) {
		line = strings.TrimSpace(leadingBulletRegex.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}
		bullets = append(bullets, BulletMarker+line)
	}
	return bullets
}

// FallbackBullets splits text into sentences and returns at most six of them
// as bullets. It is deterministic and never fails.
func FallbackBullets(text string) []string {
	bullets := []string{}
	for _, sentence := range splitSentences(whitespaceRunRegex.ReplaceAllString(text, " ")) {
		if len(bullets) == maxFallbackBullets {
			break
		}
		bullets = append(bullets, BulletMarker+sentence)
	}
	return bullets
}

// splitSentences cuts after '.', '!' or '?' when followed by whitespace.
// Empty fragments are dropped.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && runes[i+1] == ' ' {
				sentences = appendTrimmed(sentences, string(runes[start:i+1]))
				start = i + 1
			}
		}
	}
	return appendTrimmed(sentences, string(runes[start:]))
}

func appendTrimmed(dst []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		dst = append(dst, s)
	}
	return dst
}
