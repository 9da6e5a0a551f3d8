package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/rueidis"

	"github.com/prodlens/backend/internal/domain"
)

// Compile-time checks
var (
	_ domain.SummaryRepository    = (*Store)(nil)
	_ domain.ComparisonRepository = (*Store)(nil)
	_ domain.UserRepository       = (*Store)(nil)
)

// FindSummary scans the filter's dedup bucket newest first for a match.
func (s *Store) FindSummary(ctx context.Context, filter domain.SummaryFilter) (*domain.ProductSummary, error) {
	docs, err := loadIndexed[domain.ProductSummary](ctx, s, s.keys.summaryBucket(filter.Key()), s.keys.summary)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if filter.Matches(&docs[i]) {
			return &docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// CreateSummary stores the summary and indexes it under its owner and its
// dedup bucket.
func (s *Store) CreateSummary(ctx context.Context, summary *domain.ProductSummary) error {
	owner := ""
	if summary.User != nil {
		owner = *summary.User
	}
	return s.putIndexed(ctx, s.keys.summary(summary.ID), summary.ID, summary.CreatedAt, summary,
		s.keys.summaries(owner), s.keys.summaryBucket(summary.DedupKey()))
}

// ListSummaries returns the user's summaries, newest first.
func (s *Store) ListSummaries(ctx context.Context, userID string) ([]domain.ProductSummary, error) {
	return loadIndexed[domain.ProductSummary](ctx, s, s.keys.summaries(userID), s.keys.summary)
}

// FindComparison scans the filter's dedup bucket newest first for a match.
func (s *Store) FindComparison(ctx context.Context, filter domain.ComparisonFilter) (*domain.ProductComparison, error) {
	docs, err := loadIndexed[domain.ProductComparison](ctx, s, s.keys.comparisonBucket(filter.Key()), s.keys.comparison)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if filter.Matches(&docs[i]) {
			return &docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// CreateComparison stores the comparison and indexes it under its owner and
// its dedup bucket.
func (s *Store) CreateComparison(ctx context.Context, comparison *domain.ProductComparison) error {
	owner := ""
	if comparison.User != nil {
		owner = *comparison.User
	}
	return s.putIndexed(ctx, s.keys.comparison(comparison.ID), comparison.ID, comparison.CreatedAt, comparison,
		s.keys.comparisons(owner), s.keys.comparisonBucket(comparison.DedupKey()))
}

// ListComparisons returns the user's comparisons, newest first.
func (s *Store) ListComparisons(ctx context.Context, userID string) ([]domain.ProductComparison, error) {
	return loadIndexed[domain.ProductComparison](ctx, s, s.keys.comparisons(userID), s.keys.comparison)
}

func (s *Store) putIndexed(ctx context.Context, docKey, id string, createdAt time.Time, doc any, indexKeys ...string) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &Error{Op: OpCodec, Err: err}
	}

	if err := s.do(ctx, s.b().Set().Key(docKey).Value(string(raw)).Build()).Error(); err != nil {
		return &Error{Op: OpSet, Err: err}
	}

	score := float64(createdAt.UnixMilli())
	for _, indexKey := range indexKeys {
		cmd := s.b().Zadd().Key(indexKey).ScoreMember().ScoreMember(score, id).Build()
		if err := s.do(ctx, cmd).Error(); err != nil {
			return &Error{Op: OpZAdd, Err: err}
		}
	}
	return nil
}

// loadIndexed reads every document referenced by a sorted-set index, newest
// first. IDs whose documents have disappeared are skipped.
func loadIndexed[T any](ctx context.Context, s *Store, indexKey string, docKey func(string) string) ([]T, error) {
	cmd := s.b().Zrange().Key(indexKey).Min("0").Max("-1").Rev().Build()
	ids, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &Error{Op: OpRange, Err: err}
	}

	out := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}

	values, err := s.do(ctx, s.b().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return nil, &Error{Op: OpMGet, Err: err}
	}

	for _, v := range values {
		raw, err := v.ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue
			}
			return nil, &Error{Op: OpMGet, Err: err}
		}
		var doc T
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, &Error{Op: OpCodec, Err: err}
		}
		out = append(out, doc)
	}
	return out, nil
}
