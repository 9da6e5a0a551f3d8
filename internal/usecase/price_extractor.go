package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/prodlens/backend/internal/domain"
)

var (
	priceSeparatorRegex = regexp.MustCompile(`[,\s]`)
	priceNumberRegex    = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ExtractPrice converts a price into a comparable number. Numbers are
// returned as-is; text has separators and whitespace stripped and the first
// numeric run parsed. Anything else yields nil.
func ExtractPrice(p domain.Price) *float64 {
	if v, ok := p.Number(); ok {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	if s, ok := p.Text(); ok {
		return extractPriceText(s)
	}
	return nil
}

func extractPriceText(s string) *float64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	m := priceNumberRegex.FindString(priceSeparatorRegex.ReplaceAllString(s, ""))
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
