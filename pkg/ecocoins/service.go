package ecocoins

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EvergreenMarketLab/ecorewards/pkg/catalog"
	"github.com/google/uuid"
)

// Service contains the EcoCoin domain logic over a DocumentStore.
type Service struct {
	store  DocumentStore
	nowFn  func() time.Time
	logger OperationLogger
}

// NewService wires a Service.
func NewService(store DocumentStore, now func() time.Time, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{store: store, nowFn: now}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// CalculateCoinsFromPurchase quotes the coins a cart would earn without
// touching the balance: per-unit tier rates plus the perfect-cart bonus when
// every item in a non-empty cart is low carbon.
func CalculateCoinsFromPurchase(items []catalog.CartItem) CoinCalculation {
	calculation := CoinCalculation{EarningDetails: []EarningDetail{}}
	allLowCarbon := len(items) > 0
	for _, item := range items {
		coinsForItem := EarningRate(item.CarbonImpact) * item.Quantity
		calculation.TotalCoins += coinsForItem
		if coinsForItem > 0 {
			calculation.EarningDetails = append(calculation.EarningDetails, EarningDetail{Item: item, Coins: coinsForItem})
		}
		if item.CarbonImpact != catalog.ImpactLow {
			allLowCarbon = false
		}
	}
	if allLowCarbon {
		calculation.BonusCoins = perfectCartBonusCoins
		calculation.TotalCoins += perfectCartBonusCoins
	}
	return calculation
}

// ProcessPurchaseEarnings appends earn transactions for a checkout: one for
// the per-item coins when any line earned, and a separate bonus entry for a
// perfect low-carbon cart.
func (service *Service) ProcessPurchaseEarnings(ctx context.Context, items []catalog.CartItem) (EarningsResult, error) {
	calculation := CalculateCoinsFromPurchase(items)
	result := EarningsResult{
		EarningDetails: calculation.EarningDetails,
		BonusCoins:     calculation.BonusCoins,
		Transactions:   []CoinTransaction{},
	}
	if calculation.TotalCoins == 0 {
		_ = service.logEarn(ctx, result, nil)
		return result, nil
	}

	balance, err := service.loadBalance(ctx)
	if err != nil {
		return EarningsResult{}, service.logEarn(ctx, result, err)
	}
	now := service.nowFn()

	if len(calculation.EarningDetails) > 0 {
		mainTransaction := service.newTransaction(
			TransactionEarned,
			calculation.TotalCoins-calculation.BonusCoins,
			SourceLowCarbonPurchase,
			earningDescription(len(calculation.EarningDetails)),
			now,
		)
		balance = appendTransaction(balance, mainTransaction)
		result.Transactions = append(result.Transactions, mainTransaction)
	}
	if calculation.BonusCoins > 0 {
		bonusTransaction := service.newTransaction(
			TransactionEarned,
			calculation.BonusCoins,
			SourceAchievementBonus,
			"Perfect eco-cart bonus!",
			now,
		)
		balance = appendTransaction(balance, bonusTransaction)
		result.Transactions = append(result.Transactions, bonusTransaction)
	}
	result.TotalEarned = calculation.TotalCoins

	if err := service.saveBalance(ctx, balance); err != nil {
		return EarningsResult{}, service.logEarn(ctx, result, err)
	}
	_ = service.logEarn(ctx, result, nil)
	return result, nil
}

// SpendCoins debits the balance for a checkout discount. It fails with
// ErrInvalidAmount for non-positive amounts and ErrInsufficientCoins when the
// balance cannot cover the amount, leaving the balance unchanged.
func (service *Service) SpendCoins(ctx context.Context, amount int, description string) error {
	if amount <= 0 {
		return service.logSpend(ctx, amount, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount))
	}
	balance, err := service.loadBalance(ctx)
	if err != nil {
		return service.logSpend(ctx, amount, err)
	}
	if balance.Total < amount {
		return service.logSpend(ctx, amount, ErrInsufficientCoins)
	}
	transaction := service.newTransaction(TransactionSpent, amount, SourceCheckoutDiscount, description, service.nowFn())
	balance = appendTransaction(balance, transaction)
	if err := service.saveBalance(ctx, balance); err != nil {
		return service.logSpend(ctx, amount, err)
	}
	return service.logSpend(ctx, amount, nil)
}

// Balance loads the current coin balance, creating a zero balance on first use.
func (service *Service) Balance(ctx context.Context) (CoinBalance, error) {
	return service.loadBalance(ctx)
}

// newTransaction mints an immutable ledger entry with a time+random id.
func (service *Service) newTransaction(transactionType TransactionType, amount int, source TransactionSource, description string, now time.Time) CoinTransaction {
	return CoinTransaction{
		ID:          fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]),
		Type:        transactionType,
		Amount:      amount,
		Source:      source,
		Description: description,
		Timestamp:   now,
	}
}

// appendTransaction prepends an entry, evicts history beyond the cap, and
// recomputes earned/spent/total so the balance invariant cannot drift.
func appendTransaction(balance CoinBalance, transaction CoinTransaction) CoinBalance {
	transactions := make([]CoinTransaction, 0, len(balance.Transactions)+1)
	transactions = append(transactions, transaction)
	transactions = append(transactions, balance.Transactions...)
	if len(transactions) > maxTransactionHistory {
		transactions = transactions[:maxTransactionHistory]
	}
	balance.Transactions = transactions
	switch transaction.Type {
	case TransactionEarned:
		balance.Earned += transaction.Amount
	case TransactionSpent:
		balance.Spent += transaction.Amount
	}
	balance.Total = balance.Earned - balance.Spent
	return balance
}

func earningDescription(detailCount int) string {
	suffix := ""
	if detailCount > 1 {
		suffix = "s"
	}
	return fmt.Sprintf("Earned from %d sustainable product%s", detailCount, suffix)
}

// loadBalance reads the persisted balance. Missing or unparsable documents
// fail closed to a zero balance; Total is always re-derived from Earned and
// Spent rather than trusted from storage.
func (service *Service) loadBalance(ctx context.Context) (CoinBalance, error) {
	document, found, err := service.store.Load(ctx, StorageKey)
	if err != nil {
		return CoinBalance{}, err
	}
	if !found {
		return zeroBalance(), nil
	}
	var balance CoinBalance
	if unmarshalErr := json.Unmarshal(document, &balance); unmarshalErr != nil {
		return zeroBalance(), nil
	}
	if balance.Earned < 0 || balance.Spent < 0 {
		return zeroBalance(), nil
	}
	if balance.Transactions == nil {
		balance.Transactions = []CoinTransaction{}
	}
	balance.Total = balance.Earned - balance.Spent
	return balance, nil
}

func zeroBalance() CoinBalance {
	return CoinBalance{Transactions: []CoinTransaction{}}
}

func (service *Service) saveBalance(ctx context.Context, balance CoinBalance) error {
	document, err := json.Marshal(balance)
	if err != nil {
		return err
	}
	return service.store.Save(ctx, StorageKey, document)
}

func (service *Service) logEarn(ctx context.Context, result EarningsResult, err error) error {
	service.logOperation(ctx, OperationLog{
		Operation:    operationEarn,
		Amount:       result.TotalEarned,
		BonusCoins:   result.BonusCoins,
		Transactions: len(result.Transactions),
		Error:        err,
	})
	return err
}

func (service *Service) logSpend(ctx context.Context, amount int, err error) error {
	service.logOperation(ctx, OperationLog{
		Operation: operationSpend,
		Amount:    amount,
		Error:     err,
	})
	return err
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}
