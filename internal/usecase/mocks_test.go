package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prodlens/backend/internal/domain"
)

// MockScraper is a mock implementation of domain.Scraper
type MockScraper struct {
	mu     sync.Mutex
	pages  map[string]domain.ProductRecord
	err    error
	called int
}

func NewMockScraper(pages map[string]domain.ProductRecord) *MockScraper {
	return &MockScraper{pages: pages}
}

func (m *MockScraper) Scrape(ctx context.Context, url string) (*domain.ProductRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.pages[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return &p, nil
}

func (m *MockScraper) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.called
}

// MockScrapeCache is a mock implementation of domain.ScrapeCache
type MockScrapeCache struct {
	mu       sync.Mutex
	data     map[string]domain.ProductRecord
	setError error
	lastTTL  time.Duration
}

func NewMockScrapeCache() *MockScrapeCache {
	return &MockScrapeCache{data: make(map[string]domain.ProductRecord)}
}

func (m *MockScrapeCache) Get(ctx context.Context, url string) (*domain.ProductRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.data[url]; ok {
		return &p, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockScrapeCache) Set(ctx context.Context, url string, record *domain.ProductRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[url] = *record
	return nil
}

// MockGenerator is a mock implementation of domain.TextGenerator
type MockGenerator struct {
	content    string
	err        error
	lastPrompt string
}

func (m *MockGenerator) Name() string { return "mock" }

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

// MockDocumentStore is a mock implementation of the summary and comparison
// repositories
type MockDocumentStore struct {
	summaries   []domain.ProductSummary
	comparisons []domain.ProductComparison
	findError   error
	createError error
	listError   error
}

func (m *MockDocumentStore) FindSummary(ctx context.Context, filter domain.SummaryFilter) (*domain.ProductSummary, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	for i := range m.summaries {
		if filter.Matches(&m.summaries[i]) {
			s := m.summaries[i]
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockDocumentStore) CreateSummary(ctx context.Context, summary *domain.ProductSummary) error {
	if m.createError != nil {
		return m.createError
	}
	m.summaries = append(m.summaries, *summary)
	return nil
}

func (m *MockDocumentStore) ListSummaries(ctx context.Context, userID string) ([]domain.ProductSummary, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.summaries, nil
}

func (m *MockDocumentStore) FindComparison(ctx context.Context, filter domain.ComparisonFilter) (*domain.ProductComparison, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	for i := range m.comparisons {
		if filter.Matches(&m.comparisons[i]) {
			c := m.comparisons[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockDocumentStore) CreateComparison(ctx context.Context, comparison *domain.ProductComparison) error {
	if m.createError != nil {
		return m.createError
	}
	m.comparisons = append(m.comparisons, *comparison)
	return nil
}

func (m *MockDocumentStore) ListComparisons(ctx context.Context, userID string) ([]domain.ProductComparison, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.comparisons, nil
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	byID      map[string]domain.User
	findError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{byID: make(map[string]domain.User)}
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	for _, u := range m.byID {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	m.byID[user.ID] = *user
	return nil
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return &u, nil
	}
	return nil, domain.ErrNotFound
}

// MockTokenManager issues "token-<userID>"
type MockTokenManager struct {
	issueError error
}

func (m *MockTokenManager) Issue(userID string) (string, error) {
	if m.issueError != nil {
		return "", m.issueError
	}
	return "token-" + userID, nil
}

func (m *MockTokenManager) Verify(token string) (string, error) {
	return "", domain.ErrUnauthorized
}

// MockHasher "hashes" by prefixing
type MockHasher struct{}

func (MockHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (MockHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}
