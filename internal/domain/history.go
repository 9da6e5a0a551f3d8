package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ProductSummary is a stored summarize request.
type ProductSummary struct {
	ID        string        `json:"id"`
	User      *string       `json:"user"`
	Input     ProductRecord `json:"input"`
	Bullets   []string      `json:"bullets"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// ProductComparison is a stored compare or suggest request.
type ProductComparison struct {
	ID        string            `json:"id"`
	User      *string           `json:"user"`
	Inputs    []ProductRecord   `json:"inputs"`
	Criteria  Criteria          `json:"criteria"`
	Compared  []ScoredProduct   `json:"compared"`
	Summary   ComparisonSummary `json:"summary"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// SummaryFilter selects a stored summary for deduplication. An empty UserID
// matches anonymous records only.
type SummaryFilter struct {
	UserID      string
	Title       string
	Description string
}

// Matches reports whether s satisfies the filter.
func (f SummaryFilter) Matches(s *ProductSummary) bool {
	return ownerOf(s.User) == f.UserID &&
		s.Input.Title == f.Title &&
		s.Input.Description == f.Description
}

// ComparisonFilter selects a stored comparison for deduplication. A record
// matches when it belongs to the same user, its inputs contain every title in
// Titles and its criteria are identical.
type ComparisonFilter struct {
	UserID   string
	Titles   []string
	Criteria Criteria
}

// Matches reports whether c satisfies the filter.
func (f ComparisonFilter) Matches(c *ProductComparison) bool {
	if ownerOf(c.User) != f.UserID || !c.Criteria.Equal(f.Criteria) {
		return false
	}
	stored := make(map[string]struct{}, len(c.Inputs))
	for _, in := range c.Inputs {
		stored[in.Title] = struct{}{}
	}
	for _, t := range f.Titles {
		if _, ok := stored[t]; !ok {
			return false
		}
	}
	return true
}

// OwnerRef converts a user ID into the nullable owner reference stored on
// records.
func OwnerRef(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}

func ownerOf(ref *string) string {
	if ref == nil {
		return ""
	}
	return *ref
}

// Key buckets summaries that can match this filter. Equal keys still need
// Matches to rule out hash collisions.
func (f SummaryFilter) Key() string {
	return dedupKey(f.UserID, f.Title, f.Description)
}

// DedupKey is the bucket key FindSummary uses to reach this summary.
func (s *ProductSummary) DedupKey() string {
	return SummaryFilter{UserID: ownerOf(s.User), Title: s.Input.Title, Description: s.Input.Description}.Key()
}

// Key buckets comparisons by owner and criteria. Title containment cannot be
// hashed, so candidates in a bucket are checked with Matches.
func (f ComparisonFilter) Key() string {
	budget, _ := f.Criteria.Budget.MarshalJSON()
	return dedupKey(f.UserID, string(budget), f.Criteria.Quality, strings.Join(f.Criteria.Features, "\x1f"))
}

// DedupKey is the bucket key FindComparison uses to reach this comparison.
func (c *ProductComparison) DedupKey() string {
	return ComparisonFilter{UserID: ownerOf(c.User), Criteria: c.Criteria}.Key()
}

func dedupKey(parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
