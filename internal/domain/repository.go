package domain

import (
	"context"
	"time"
)

// Scraper fetches a product page and extracts a product record from it
type Scraper interface {
	Scrape(ctx context.Context, url string) (*ProductRecord, error)
}

// TextGenerator produces text for a prompt. Implementations are chosen once
// at startup; the null implementation always returns ErrGenerationUnavailable.
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ScrapeCache caches scraped product records by URL
type ScrapeCache interface {
	Get(ctx context.Context, url string) (*ProductRecord, error)
	Set(ctx context.Context, url string, record *ProductRecord, ttl time.Duration) error
}

// SummaryRepository persists summarize results
type SummaryRepository interface {
	FindSummary(ctx context.Context, filter SummaryFilter) (*ProductSummary, error)
	CreateSummary(ctx context.Context, summary *ProductSummary) error
	ListSummaries(ctx context.Context, userID string) ([]ProductSummary, error)
}

// ComparisonRepository persists compare and suggest results
type ComparisonRepository interface {
	FindComparison(ctx context.Context, filter ComparisonFilter) (*ProductComparison, error)
	CreateComparison(ctx context.Context, comparison *ProductComparison) error
	ListComparisons(ctx context.Context, userID string) ([]ProductComparison, error)
}

// UserRepository persists user accounts. CreateUser returns ErrConflict when
// the email is already registered.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
}

// TokenManager issues and verifies stateless auth tokens
type TokenManager interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// PasswordHasher hashes and checks user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
