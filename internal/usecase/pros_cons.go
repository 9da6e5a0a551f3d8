package usecase

import "github.com/prodlens/backend/internal/domain"

// Pros/cons thresholds and wording are fixed policy.
const (
	budgetPriceCeiling = 50.0
	premiumPriceFloor  = 500.0
	proRichFeatures    = "Rich feature set"
	proBudgetValue     = "Great budget value"
	conPremiumPrice    = "Premium price"
	conLimitedDetails  = "Limited details available"
)

// GenerateProsCons derives qualitative pros and cons from the feature list,
// the specs and the numeric price. Both slices are non-nil.
func GenerateProsCons(p domain.ProductRecord, numericPrice *float64) (pros, cons []string) {
	pros = []string{}
	cons = []string{}

	if len(p.Features) > 0 {
		pros = append(pros, proRichFeatures)
	}
	if numericPrice != nil {
		if *numericPrice < budgetPriceCeiling {
			pros = append(pros, proBudgetValue)
		}
		if *numericPrice > premiumPriceFloor {
			cons = append(cons, conPremiumPrice)
		}
	}
	if len(p.Specs) == 0 && len(p.Features) == 0 {
		cons = append(cons, conLimitedDetails)
	}
	return pros, cons
}
