package catalog

// baselineCarbonKg is the counterfactual footprint assumed for an average
// product when estimating how much carbon a purchase avoided.
const baselineCarbonKg = 10

// PurchaseSummary aggregates a checkout's line items for the reward engines.
//
// LowCarbonItems and VerifiedItems count line items, not units: a line with
// quantity three contributes one. TotalCarbonImpact and UnitCount scale by
// quantity.
type PurchaseSummary struct {
	TotalSpent        float64
	TotalCarbonImpact float64
	CarbonSaved       float64
	LowCarbonItems    int
	VerifiedItems     int
	ItemCount         int
	UnitCount         int
	AllLowCarbon      bool
}

// Summarize derives the purchase aggregates from a list of cart items.
// An empty list yields a zero summary with AllLowCarbon false.
func Summarize(items []CartItem) PurchaseSummary {
	summary := PurchaseSummary{ItemCount: len(items)}
	for _, item := range items {
		summary.TotalSpent += item.Price * float64(item.Quantity)
		summary.TotalCarbonImpact += item.CarbonScore * float64(item.Quantity)
		summary.UnitCount += item.Quantity
		if item.CarbonImpact == ImpactLow {
			summary.LowCarbonItems++
		}
		if item.Verified {
			summary.VerifiedItems++
		}
	}
	summary.AllLowCarbon = len(items) > 0 && summary.LowCarbonItems == len(items)
	saved := baselineCarbonKg*float64(len(items)) - summary.TotalCarbonImpact
	if saved > 0 {
		summary.CarbonSaved = saved
	}
	return summary
}
