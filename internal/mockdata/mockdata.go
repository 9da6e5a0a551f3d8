// Package mockdata serves the embedded demo product list.
package mockdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/prodlens/backend/internal/domain"
)

//go:embed products.json
var productsJSON []byte

var loadProducts = sync.OnceValues(func() ([]domain.ProductRecord, error) {
	var products []domain.ProductRecord
	if err := json.Unmarshal(productsJSON, &products); err != nil {
		return nil, fmt.Errorf("failed to decode mock products: %w", err)
	}
	return products, nil
})

// Products returns the demo products. Callers must not modify the result.
func Products() ([]domain.ProductRecord, error) {
	return loadProducts()
}
