package domain

import "encoding/json"

// ProductRecord is the canonical description of one product, produced by
// the input normalizer either from a scraped page or from manual fields.
type ProductRecord struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       Price             `json:"price"`
	Features    []string          `json:"features"`
	Specs       map[string]string `json:"specs"`
	SourceURL   *string           `json:"sourceUrl"`
}

// ProductInput is one product as submitted by a client. When URL is set the
// page is scraped and any explicitly supplied field overrides the scraped one.
type ProductInput struct {
	URL         string            `json:"url,omitempty"`
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Price       Price             `json:"price"`
	Features    []string          `json:"features,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`

	// PriceSent is true when the decoded body had a "price" key, null included.
	PriceSent bool `json:"-"`
}

// HasPrice reports whether the client supplied a price, an explicit null
// included.
func (in ProductInput) HasPrice() bool {
	return in.PriceSent || in.Price.IsSet()
}

// UnmarshalJSON implements json.Unmarshaler and records whether price was sent.
func (in *ProductInput) UnmarshalJSON(data []byte) error {
	type plain ProductInput
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, decoded.PriceSent = keys["price"]

	*in = ProductInput(decoded)
	return nil
}

// Criteria holds user preferences that adjust ranking. They never filter.
type Criteria struct {
	Budget   Price    `json:"budget"`
	Quality  string   `json:"quality,omitempty"`
	Features []string `json:"features,omitempty"`
}

// Equal reports whether two criteria are identical, feature order included.
func (c Criteria) Equal(other Criteria) bool {
	if c.Budget != other.Budget || c.Quality != other.Quality {
		return false
	}
	if len(c.Features) != len(other.Features) {
		return false
	}
	for i := range c.Features {
		if c.Features[i] != other.Features[i] {
			return false
		}
	}
	return true
}

// EnrichedProduct is a product plus its derived bullets, pros/cons and
// numeric price.
type EnrichedProduct struct {
	ProductRecord
	Bullets      []string `json:"bullets"`
	Pros         []string `json:"pros"`
	Cons         []string `json:"cons"`
	NumericPrice *float64 `json:"-"`
}

// ScoredProduct is an enriched product with its ranking score.
type ScoredProduct struct {
	EnrichedProduct
	Score float64 `json:"score"`
}

// BestPick summarizes the top-ranked product.
type BestPick struct {
	Title  string  `json:"title"`
	Price  Price   `json:"price"`
	Reason string  `json:"reason"`
	Score  float64 `json:"score"`
}

// ComparisonSummary is the human readable part of a comparison.
type ComparisonSummary struct {
	PriceSummary string    `json:"priceSummary"`
	Best         *BestPick `json:"best"`
}

// ComparisonResult is the output of the ranking engine. Compared is sorted
// by descending score.
type ComparisonResult struct {
	Compared []ScoredProduct   `json:"compared"`
	Summary  ComparisonSummary `json:"summary"`
}
