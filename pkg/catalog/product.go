package catalog

import (
	"fmt"
	"strings"
)

// ImpactTier is a coarse classification of a product's carbon footprint.
type ImpactTier string

const (
	ImpactLow    ImpactTier = "low"
	ImpactMedium ImpactTier = "medium"
	ImpactHigh   ImpactTier = "high"
)

// String returns the tier as stored in documents.
func (tier ImpactTier) String() string {
	return string(tier)
}

// ParseImpactTier validates and normalizes an impact tier value.
func ParseImpactTier(raw string) (ImpactTier, error) {
	switch ImpactTier(strings.ToLower(strings.TrimSpace(raw))) {
	case ImpactLow:
		return ImpactLow, nil
	case ImpactMedium:
		return ImpactMedium, nil
	case ImpactHigh:
		return ImpactHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidImpactTier, raw)
}

// CarbonBreakdown splits a product's carbon score into lifecycle components.
// The components conceptually sum to the product's CarbonScore.
type CarbonBreakdown struct {
	Manufacturing  float64 `json:"manufacturing"`
	Transportation float64 `json:"transportation"`
	Packaging      float64 `json:"packaging"`
	Disposal       float64 `json:"disposal"`
}

// Product is an immutable catalog record supplied by the storefront.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           float64         `json:"price"`
	Image           string          `json:"image"`
	Category        string          `json:"category"`
	Brand           string          `json:"brand"`
	CarbonImpact    ImpactTier      `json:"carbonImpact"`
	CarbonScore     float64         `json:"carbonScore"`
	CarbonBreakdown CarbonBreakdown `json:"carbonBreakdown"`
	Verified        bool            `json:"verified"`
	VerifiedBy      string          `json:"verifiedBy,omitempty"`
	Description     string          `json:"description,omitempty"`
	InStock         bool            `json:"inStock"`
	Rating          float64         `json:"rating"`
	Reviews         int             `json:"reviews"`
}

// CartItem is a product plus a positive quantity. A quantity of zero is never
// stored; removal is the only state for zero.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// NewCartItem validates the quantity for a line item.
func NewCartItem(product Product, quantity int) (CartItem, error) {
	if quantity <= 0 {
		return CartItem{}, fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidQuantity)
	}
	return CartItem{Product: product, Quantity: quantity}, nil
}
