package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/prodlens/backend/internal/domain"
)

const defaultProductTitle = "Product"

// NormalizerConfig holds configuration for the input normalizer
type NormalizerConfig struct {
	CacheTTL          time.Duration
	MaxConcurrentURLs int
}

// Normalizer turns request items into canonical product records, scraping
// pages for items that carry a URL.
type Normalizer struct {
	scraper  domain.Scraper
	cache    domain.ScrapeCache
	cacheTTL time.Duration
	limit    int
	logger   *zap.Logger
}

// NewNormalizer creates a normalizer. cache may be nil.
func NewNormalizer(scraper domain.Scraper, cache domain.ScrapeCache, config NormalizerConfig, logger *zap.Logger) *Normalizer {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	limit := config.MaxConcurrentURLs
	if limit <= 0 {
		limit = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{
		scraper:  scraper,
		cache:    cache,
		cacheTTL: cacheTTL,
		limit:    limit,
		logger:   logger,
	}
}

// Normalize produces the product record for one item. A scrape failure is
// returned wrapped in domain.ErrScrapeFailed.
func (n *Normalizer) Normalize(ctx context.Context, in domain.ProductInput) (domain.ProductRecord, error) {
	if in.URL == "" {
		return fromManualFields(in), nil
	}

	scraped, err := n.scrape(ctx, in.URL)
	if err != nil {
		return domain.ProductRecord{}, err
	}
	return overlayInput(*scraped, in), nil
}

// NormalizeAll normalizes every item concurrently. It fails as a whole when
// any item fails; output order follows input order.
func (n *Normalizer) NormalizeAll(ctx context.Context, items []domain.ProductInput) ([]domain.ProductRecord, error) {
	records := make([]domain.ProductRecord, len(items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(n.limit)
	for i, item := range items {
		g.Go(func() error {
			rec, err := n.Normalize(gCtx, item)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (n *Normalizer) scrape(ctx context.Context, url string) (*domain.ProductRecord, error) {
	if n.cache != nil {
		if cached, err := n.cache.Get(ctx, url); err == nil {
			return cached, nil
		}
	}

	if n.scraper == nil {
		return nil, fmt.Errorf("%w: no scraper configured", domain.ErrScrapeFailed)
	}
	rec, err := n.scraper.Scrape(ctx, url)
	if err != nil {
		if errors.Is(err, domain.ErrScrapeFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrScrapeFailed, err)
	}

	if n.cache != nil {
		if err := n.cache.Set(ctx, url, rec, n.cacheTTL); err != nil {
			n.logger.Warn("failed to cache scraped product", zap.String("url", url), zap.Error(err))
		}
	}
	return rec, nil
}

// fromManualFields builds a record from explicit fields with defaults.
func fromManualFields(in domain.ProductInput) domain.ProductRecord {
	rec := domain.ProductRecord{
		Title:    defaultProductTitle,
		Features: []string{},
		Specs:    map[string]string{},
	}
	if in.Title != nil && *in.Title != "" {
		rec.Title = *in.Title
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	rec.Price = presentPrice(in.Price)
	if in.Features != nil {
		rec.Features = uniqueStrings(in.Features)
	}
	if in.Specs != nil {
		rec.Specs = copySpecs(in.Specs)
	}
	return rec
}

// overlayInput overrides scraped fields with every field the client
// supplied, then pins SourceURL to the requested URL.
func overlayInput(scraped domain.ProductRecord, in domain.ProductInput) domain.ProductRecord {
	rec := domain.ProductRecord{
		Title:       scraped.Title,
		Description: scraped.Description,
		Price:       scraped.Price,
		Features:    uniqueStrings(scraped.Features),
		Specs:       copySpecs(scraped.Specs),
	}
	if in.Title != nil {
		rec.Title = *in.Title
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.HasPrice() {
		rec.Price = in.Price
	}
	if in.Features != nil {
		rec.Features = uniqueStrings(in.Features)
	}
	if in.Specs != nil {
		rec.Specs = copySpecs(in.Specs)
	}
	url := in.URL
	rec.SourceURL = &url
	return rec
}

// presentPrice drops empty-text and zero prices, which carry no information.
func presentPrice(p domain.Price) domain.Price {
	if v, ok := p.Number(); ok && v == 0 {
		return domain.Price{}
	}
	if s, ok := p.Text(); ok && s == "" {
		return domain.Price{}
	}
	return p
}

// uniqueStrings removes duplicates, keeping first occurrences in order.
func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func copySpecs(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
