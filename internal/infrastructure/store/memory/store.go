package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/prodlens/backend/internal/domain"
)

// Compile-time checks
var (
	_ domain.SummaryRepository    = (*Store)(nil)
	_ domain.ComparisonRepository = (*Store)(nil)
	_ domain.UserRepository       = (*Store)(nil)
)

// Store is a thread-safe in-memory document store. Documents are kept
// JSON-encoded so reads never alias stored state, mirroring the Redis store.
// Dedup lookups only decode the documents in the filter's key bucket.
type Store struct {
	mu              sync.RWMutex
	summaries       [][]byte
	comparisons     [][]byte
	summaryIndex    map[string][]int
	comparisonIndex map[string][]int
	users           map[string][]byte
	usersByEmail    map[string]string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		summaryIndex:    make(map[string][]int),
		comparisonIndex: make(map[string][]int),
		users:           make(map[string][]byte),
		usersByEmail:    make(map[string]string),
	}
}

// FindSummary returns the newest summary matching filter
func (s *Store) FindSummary(ctx context.Context, filter domain.SummaryFilter) (*domain.ProductSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.summaryIndex[filter.Key()]
	for i := len(bucket) - 1; i >= 0; i-- {
		var doc domain.ProductSummary
		if err := json.Unmarshal(s.summaries[bucket[i]], &doc); err != nil {
			return nil, err
		}
		if filter.Matches(&doc) {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// CreateSummary stores a summary
func (s *Store) CreateSummary(ctx context.Context, summary *domain.ProductSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := summary.DedupKey()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaryIndex[key] = append(s.summaryIndex[key], len(s.summaries))
	s.summaries = append(s.summaries, raw)
	return nil
}

// ListSummaries returns the user's summaries, newest first
func (s *Store) ListSummaries(ctx context.Context, userID string) ([]domain.ProductSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.ProductSummary{}
	for i := len(s.summaries) - 1; i >= 0; i-- {
		var doc domain.ProductSummary
		if err := json.Unmarshal(s.summaries[i], &doc); err != nil {
			return nil, err
		}
		if doc.User != nil && *doc.User == userID {
			out = append(out, doc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// FindComparison returns the newest comparison matching filter
func (s *Store) FindComparison(ctx context.Context, filter domain.ComparisonFilter) (*domain.ProductComparison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.comparisonIndex[filter.Key()]
	for i := len(bucket) - 1; i >= 0; i-- {
		var doc domain.ProductComparison
		if err := json.Unmarshal(s.comparisons[bucket[i]], &doc); err != nil {
			return nil, err
		}
		if filter.Matches(&doc) {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// CreateComparison stores a comparison
func (s *Store) CreateComparison(ctx context.Context, comparison *domain.ProductComparison) error {
	raw, err := json.Marshal(comparison)
	if err != nil {
		return err
	}

	key := comparison.DedupKey()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.comparisonIndex[key] = append(s.comparisonIndex[key], len(s.comparisons))
	s.comparisons = append(s.comparisons, raw)
	return nil
}

// ListComparisons returns the user's comparisons, newest first
func (s *Store) ListComparisons(ctx context.Context, userID string) ([]domain.ProductComparison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.ProductComparison{}
	for i := len(s.comparisons) - 1; i >= 0; i-- {
		var doc domain.ProductComparison
		if err := json.Unmarshal(s.comparisons[i], &doc); err != nil {
			return nil, err
		}
		if doc.User != nil && *doc.User == userID {
			out = append(out, doc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// userRecord is the stored form of a user; domain.User hides the hash from JSON
type userRecord struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

// CreateUser stores a user, failing with domain.ErrConflict on a taken email
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(userRecord{User: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usersByEmail[user.Email]; taken {
		return domain.ErrConflict
	}
	s.users[user.ID] = raw
	s.usersByEmail[user.Email] = user.ID
	return nil
}

// FindUserByEmail looks a user up by normalized email
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	id, ok := s.usersByEmail[email]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.FindUserByID(ctx, id)
}

// FindUserByID looks a user up by ID
func (s *Store) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	raw, ok := s.users[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}

	var rec userRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	user := rec.User
	user.PasswordHash = rec.PasswordHash
	return &user, nil
}
