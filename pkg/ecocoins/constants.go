package ecocoins

import "github.com/EvergreenMarketLab/ecorewards/pkg/catalog"

const (
	// StorageKey names the persisted coin balance document.
	StorageKey = "ecocoin-balance"

	// CoinToDollarRate is the fixed exchange rate: 100 EcoCoins = $1.00.
	CoinToDollarRate = 100

	operationEarn  = "earn"
	operationSpend = "spend"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	perfectCartBonusCoins = 25
	maxTransactionHistory = 100
)

// coinRates maps a carbon-impact tier to coins earned per unit purchased.
var coinRates = map[catalog.ImpactTier]int{
	catalog.ImpactLow:    10,
	catalog.ImpactMedium: 5,
	catalog.ImpactHigh:   0,
}

// EarningRate returns the coins one unit of the given tier earns.
func EarningRate(tier catalog.ImpactTier) int {
	return coinRates[tier]
}
