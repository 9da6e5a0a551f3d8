package usecase

import (
	"math"
	"testing"

	"github.com/prodlens/backend/internal/domain"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name  string
		price domain.Price
		want  *float64
	}{
		{name: "number", price: domain.NumberPrice(1200), want: ptr(1200)},
		{name: "formatted text", price: domain.TextPrice("$1,200.50"), want: ptr(1200.50)},
		{name: "rupee with spaces", price: domain.TextPrice("₹ 2 499"), want: ptr(2499)},
		{name: "text with suffix", price: domain.TextPrice("Now only 39.99 USD"), want: ptr(39.99)},
		{name: "first number wins", price: domain.TextPrice("$10 - $20"), want: ptr(10)},
		{name: "null", price: domain.Price{}, want: nil},
		{name: "no digits", price: domain.TextPrice("no digits"), want: nil},
		{name: "empty text", price: domain.TextPrice("   "), want: nil},
		{name: "NaN", price: domain.NumberPrice(math.NaN()), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPrice(tt.price)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ExtractPrice() = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("ExtractPrice() = nil, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("ExtractPrice() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }
