package usecase

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/prodlens/backend/internal/domain"
)

// Scoring weights and bonuses
const (
	priceScoreCeiling  = 1000.0 // price term is max(0, ceiling - price)
	featureWeight      = 20.0   // per product feature
	withinBudgetBonus  = 100.0  // numeric price <= criteria budget
	highQualityBonus   = 30.0   // criteria quality == "high"
	featureMatchWeight = 25.0   // per criteria feature found in the product
	qualityHigh        = "high"
	bestPickReason     = "Best balance of value and features (heuristic)."
	untitledItem       = "Item"
	missingPrice       = "N/A"
	priceSummarySep    = " | "
	defaultEnrichLimit = 8
)

// ComparisonEngineConfig holds configuration for the comparison engine
type ComparisonEngineConfig struct {
	// MaxConcurrentEnrichments bounds parallel summarization per comparison.
	MaxConcurrentEnrichments int
}

// ComparisonEngine enriches, scores and ranks products against criteria
type ComparisonEngine struct {
	summarizer  *Summarizer
	enrichLimit int
}

// NewComparisonEngine creates a new comparison engine
func NewComparisonEngine(summarizer *Summarizer, config ComparisonEngineConfig) *ComparisonEngine {
	limit := config.MaxConcurrentEnrichments
	if limit <= 0 {
		limit = defaultEnrichLimit
	}
	return &ComparisonEngine{
		summarizer:  summarizer,
		enrichLimit: limit,
	}
}

// Compare ranks products by descending score. Equal scores keep input order.
// An empty input yields an empty ranking and a nil best pick. The minimum
// product count is enforced by callers.
func (e *ComparisonEngine) Compare(
	ctx context.Context,
	products []domain.ProductRecord,
	criteria domain.Criteria,
) domain.ComparisonResult {
	enriched := e.enrichAll(ctx, products)

	scored := make([]domain.ScoredProduct, len(enriched))
	for i, p := range enriched {
		scored[i] = domain.ScoredProduct{
			EnrichedProduct: p,
			Score:           Score(p, criteria),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	summary := domain.ComparisonSummary{
		PriceSummary: buildPriceSummary(scored),
	}
	if len(scored) > 0 {
		top := scored[0]
		summary.Best = &domain.BestPick{
			Title:  top.Title,
			Price:  top.Price,
			Reason: bestPickReason,
			Score:  top.Score,
		}
	}

	for i := range scored {
		scored[i].NumericPrice = nil
	}

	return domain.ComparisonResult{
		Compared: scored,
		Summary:  summary,
	}
}

// enrichAll derives bullets, pros/cons and numeric price for every product.
// Products are independent; results keep input order.
func (e *ComparisonEngine) enrichAll(ctx context.Context, products []domain.ProductRecord) []domain.EnrichedProduct {
	enriched := make([]domain.EnrichedProduct, len(products))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.enrichLimit)
	for i, p := range products {
		g.Go(func() error {
			enriched[i] = e.Enrich(gCtx, p)
			return nil
		})
	}
	_ = g.Wait() // enrichment never fails

	return enriched
}

// Enrich derives the bullets, pros/cons and numeric price of one product.
func (e *ComparisonEngine) Enrich(ctx context.Context, p domain.ProductRecord) domain.EnrichedProduct {
	numeric := ExtractPrice(p.Price)
	pros, cons := GenerateProsCons(p, numeric)
	return domain.EnrichedProduct{
		ProductRecord: p,
		Bullets:       e.summarizer.Summarize(ctx, p),
		Pros:          pros,
		Cons:          cons,
		NumericPrice:  numeric,
	}
}

// Score is a pure function of the enriched product and the criteria.
func Score(p domain.EnrichedProduct, criteria domain.Criteria) float64 {
	score := 0.0

	if p.NumericPrice != nil {
		score += math.Max(0, priceScoreCeiling-*p.NumericPrice)
	}
	score += featureWeight * float64(len(p.Features))

	if budget := ExtractPrice(criteria.Budget); budget != nil && p.NumericPrice != nil && *p.NumericPrice <= *budget {
		score += withinBudgetBonus
	}
	if criteria.Quality == qualityHigh {
		score += highQualityBonus
	}
	score += featureMatchWeight * float64(countFeatureMatches(p.Features, criteria.Features))

	return score
}

// countFeatureMatches counts criteria features contained, case-insensitively,
// in at least one product feature.
func countFeatureMatches(productFeatures, wanted []string) int {
	if len(wanted) == 0 || len(productFeatures) == 0 {
		return 0
	}
	lowered := make([]string, len(productFeatures))
	for i, f := range productFeatures {
		lowered[i] = strings.ToLower(f)
	}

	matches := 0
	for _, w := range wanted {
		needle := strings.ToLower(w)
		for _, f := range lowered {
			if strings.Contains(f, needle) {
				matches++
				break
			}
		}
	}
	return matches
}

func buildPriceSummary(scored []domain.ScoredProduct) string {
	parts := make([]string, len(scored))
	for i, p := range scored {
		title := p.Title
		if title == "" {
			title = untitledItem
		}
		price := missingPrice
		if p.Price.IsSet() {
			price = p.Price.String()
		}
		parts[i] = title + ": " + price
	}
	return strings.Join(parts, priceSummarySep)
}
