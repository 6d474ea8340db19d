package catalog

import (
	"fmt"
	"strings"
)

// FindProduct looks a product up by id in a catalog snapshot.
func FindProduct(products []Product, productID string) (Product, error) {
	for _, product := range products {
		if product.ID == productID {
			return product, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
}

// Filter narrows a product listing. Zero-value fields do not constrain.
type Filter struct {
	Search       string
	Categories   []string
	CarbonImpact []ImpactTier
	MinPrice     float64
	MaxPrice     float64
	VerifiedOnly bool
	InStockOnly  bool
}

// Apply returns the products matching every set constraint, preserving the
// catalog's order.
func (filter Filter) Apply(products []Product) []Product {
	matched := make([]Product, 0, len(products))
	for _, product := range products {
		if filter.matches(product) {
			matched = append(matched, product)
		}
	}
	return matched
}

func (filter Filter) matches(product Product) bool {
	if filter.Search != "" {
		query := strings.ToLower(filter.Search)
		name := strings.ToLower(product.Name)
		brand := strings.ToLower(product.Brand)
		if !strings.Contains(name, query) && !strings.Contains(brand, query) {
			return false
		}
	}
	if len(filter.Categories) > 0 && !containsString(filter.Categories, product.Category) {
		return false
	}
	if len(filter.CarbonImpact) > 0 && !containsTier(filter.CarbonImpact, product.CarbonImpact) {
		return false
	}
	if product.Price < filter.MinPrice {
		return false
	}
	if filter.MaxPrice > 0 && product.Price > filter.MaxPrice {
		return false
	}
	if filter.VerifiedOnly && !product.Verified {
		return false
	}
	if filter.InStockOnly && !product.InStock {
		return false
	}
	return true
}

func containsString(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

func containsTier(tiers []ImpactTier, tier ImpactTier) bool {
	for _, candidate := range tiers {
		if candidate == tier {
			return true
		}
	}
	return false
}
