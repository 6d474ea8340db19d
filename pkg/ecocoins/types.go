package ecocoins

import (
	"context"
	"time"

	"github.com/EvergreenMarketLab/ecorewards/pkg/catalog"
)

// TransactionType distinguishes ledger credits from debits.
type TransactionType string

const (
	TransactionEarned TransactionType = "earned"
	TransactionSpent  TransactionType = "spent"
)

// TransactionSource names the cause of a ledger entry.
type TransactionSource string

const (
	SourceLowCarbonPurchase TransactionSource = "low_carbon_purchase"
	SourceAchievementBonus  TransactionSource = "achievement_bonus"
	SourceDailyStreak       TransactionSource = "daily_streak"
	SourceCheckoutDiscount  TransactionSource = "checkout_discount"
)

// CoinTransaction is one immutable ledger entry. Entries are never mutated or
// deleted except by the history cap eviction.
type CoinTransaction struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      int               `json:"amount"`
	Source      TransactionSource `json:"source"`
	Description string            `json:"description"`
	ProductID   string            `json:"productId,omitempty"`
	ProductName string            `json:"productName,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// CoinBalance is the singleton EcoCoin account. Total is always the
// difference of Earned and Spent; Transactions is most-recent-first and
// capped at 100 entries.
type CoinBalance struct {
	Total        int               `json:"total"`
	Earned       int               `json:"earned"`
	Spent        int               `json:"spent"`
	Transactions []CoinTransaction `json:"transactions"`
}

// EarningDetail records the coins one cart line produced.
type EarningDetail struct {
	Item  catalog.CartItem `json:"item"`
	Coins int              `json:"coins"`
}

// CoinCalculation is the pure earning quote for a cart.
type CoinCalculation struct {
	TotalCoins     int             `json:"totalCoins"`
	EarningDetails []EarningDetail `json:"earningDetails"`
	BonusCoins     int             `json:"bonusCoins"`
}

// EarningsResult reports the ledger entries a processed purchase appended.
type EarningsResult struct {
	TotalEarned    int
	Transactions   []CoinTransaction
	EarningDetails []EarningDetail
	BonusCoins     int
}

// DocumentStore is the persistence contract used by Service: a blocking
// read/write of whole JSON documents keyed by name.
type DocumentStore interface {
	Load(ctx context.Context, key string) (document []byte, found bool, err error)
	Save(ctx context.Context, key string, document []byte) error
}
