package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prodlens/backend/internal/domain"
)

// Minimum item counts enforced at the service boundary
const (
	MinCompareItems = 2
	MinSuggestItems = 1
)

// SummarizeResult is the outcome of a summarize call
type SummarizeResult struct {
	ID      string               `json:"id"`
	Product domain.ProductRecord `json:"product"`
	Bullets []string             `json:"bullets"`
}

// CompareResult is the outcome of a compare or suggest call
type CompareResult struct {
	ID string `json:"id"`
	domain.ComparisonResult
}

// ProductService orchestrates normalization, summarization, ranking and
// deduplicated persistence.
type ProductService struct {
	normalizer  *Normalizer
	summarizer  *Summarizer
	engine      *ComparisonEngine
	summaries   domain.SummaryRepository
	comparisons domain.ComparisonRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewProductService creates a new product service with dependencies
func NewProductService(
	normalizer *Normalizer,
	summarizer *Summarizer,
	engine *ComparisonEngine,
	summaries domain.SummaryRepository,
	comparisons domain.ComparisonRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		normalizer:  normalizer,
		summarizer:  summarizer,
		engine:      engine,
		summaries:   summaries,
		comparisons: comparisons,
		logger:      logger,
		now:         time.Now,
	}
}

// Summarize normalizes one item, summarizes it and stores the result unless
// the same user already summarized a product with that title and description.
func (s *ProductService) Summarize(ctx context.Context, userID string, in domain.ProductInput) (*SummarizeResult, error) {
	product, err := s.normalizer.Normalize(ctx, in)
	if err != nil {
		return nil, err
	}
	bullets := s.summarizer.Summarize(ctx, product)

	doc, err := s.summaries.FindSummary(ctx, domain.SummaryFilter{
		UserID:      userID,
		Title:       product.Title,
		Description: product.Description,
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if doc == nil {
		now := s.now()
		doc = &domain.ProductSummary{
			ID:        uuid.NewString(),
			User:      domain.OwnerRef(userID),
			Input:     product,
			Bullets:   bullets,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.summaries.CreateSummary(ctx, doc); err != nil {
			s.logger.Error("failed to store summary", zap.String("title", product.Title), zap.Error(err))
			return nil, err
		}
	}

	return &SummarizeResult{
		ID:      doc.ID,
		Product: product,
		Bullets: bullets,
	}, nil
}

// Compare ranks at least MinCompareItems products.
func (s *ProductService) Compare(ctx context.Context, userID string, items []domain.ProductInput, criteria domain.Criteria) (*CompareResult, error) {
	return s.rank(ctx, userID, items, criteria, MinCompareItems)
}

// Suggest ranks at least MinSuggestItems products; callers usually only
// need the best pick.
func (s *ProductService) Suggest(ctx context.Context, userID string, items []domain.ProductInput, criteria domain.Criteria) (*CompareResult, error) {
	return s.rank(ctx, userID, items, criteria, MinSuggestItems)
}

func (s *ProductService) rank(
	ctx context.Context,
	userID string,
	items []domain.ProductInput,
	criteria domain.Criteria,
	minItems int,
) (*CompareResult, error) {
	if len(items) < minItems {
		return nil, fmt.Errorf("%w: need at least %d products, got %d", domain.ErrValidation, minItems, len(items))
	}

	products, err := s.normalizer.NormalizeAll(ctx, items)
	if err != nil {
		return nil, err
	}
	result := s.engine.Compare(ctx, products, criteria)

	titles := make([]string, len(products))
	for i, p := range products {
		titles[i] = p.Title
	}
	doc, err := s.comparisons.FindComparison(ctx, domain.ComparisonFilter{
		UserID:   userID,
		Titles:   titles,
		Criteria: criteria,
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if doc == nil {
		now := s.now()
		doc = &domain.ProductComparison{
			ID:        uuid.NewString(),
			User:      domain.OwnerRef(userID),
			Inputs:    products,
			Criteria:  criteria,
			Compared:  result.Compared,
			Summary:   result.Summary,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.comparisons.CreateComparison(ctx, doc); err != nil {
			s.logger.Error("failed to store comparison", zap.Strings("titles", titles), zap.Error(err))
			return nil, err
		}
	}

	return &CompareResult{
		ID:               doc.ID,
		ComparisonResult: result,
	}, nil
}

// SummaryHistory lists the user's stored summaries, newest first.
func (s *ProductService) SummaryHistory(ctx context.Context, userID string) ([]domain.ProductSummary, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.summaries.ListSummaries(ctx, userID)
}

// ComparisonHistory lists the user's stored comparisons, newest first.
func (s *ProductService) ComparisonHistory(ctx context.Context, userID string) ([]domain.ProductComparison, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.comparisons.ListComparisons(ctx, userID)
}
