package ecocoins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/EvergreenMarketLab/ecorewards/pkg/catalog"
)

type stubStore struct {
	documents map[string][]byte
	loadErr   error
	saveErr   error
}

func newStubStore() *stubStore {
	return &stubStore{documents: map[string][]byte{}}
}

func (store *stubStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	if store.loadErr != nil {
		return nil, false, store.loadErr
	}
	document, found := store.documents[key]
	return document, found, nil
}

func (store *stubStore) Save(_ context.Context, key string, document []byte) error {
	if store.saveErr != nil {
		return store.saveErr
	}
	store.documents[key] = document
	return nil
}

type manualClock struct {
	at time.Time
}

func (clock *manualClock) now() time.Time { return clock.at }

func (clock *manualClock) advance(by time.Duration) { clock.at = clock.at.Add(by) }

func mustNewService(test *testing.T, store DocumentStore, clock *manualClock, options ...ServiceOption) *Service {
	test.Helper()
	service, err := NewService(store, clock.now, options...)
	if err != nil {
		test.Fatalf("service init: %v", err)
	}
	return service
}

func newManualClock() *manualClock {
	return &manualClock{at: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func tierItem(tier catalog.ImpactTier, quantity int) catalog.CartItem {
	return catalog.CartItem{
		Product: catalog.Product{
			ID:           fmt.Sprintf("p-%s", tier),
			Name:         fmt.Sprintf("%s impact product", tier),
			CarbonImpact: tier,
		},
		Quantity: quantity,
	}
}

func TestCalculateCoinsFromMixedCart(test *testing.T) {
	test.Parallel()
	calculation := CalculateCoinsFromPurchase([]catalog.CartItem{
		tierItem(catalog.ImpactLow, 2),
		tierItem(catalog.ImpactMedium, 1),
		tierItem(catalog.ImpactHigh, 3),
	})
	if calculation.TotalCoins != 25 {
		test.Fatalf("expected 2*10+1*5+3*0=25 coins, got %d", calculation.TotalCoins)
	}
	if calculation.BonusCoins != 0 {
		test.Fatalf("mixed cart must not earn the bonus, got %d", calculation.BonusCoins)
	}
	if len(calculation.EarningDetails) != 2 {
		test.Fatalf("only earning lines appear in details, got %d", len(calculation.EarningDetails))
	}
}

func TestCalculateCoinsPerfectCartBonus(test *testing.T) {
	test.Parallel()
	calculation := CalculateCoinsFromPurchase([]catalog.CartItem{
		tierItem(catalog.ImpactLow, 1),
		tierItem(catalog.ImpactLow, 2),
	})
	if calculation.BonusCoins != 25 {
		test.Fatalf("expected perfect-cart bonus, got %d", calculation.BonusCoins)
	}
	if calculation.TotalCoins != 55 {
		test.Fatalf("expected 30+25=55 coins, got %d", calculation.TotalCoins)
	}
}

func TestCalculateCoinsEmptyCart(test *testing.T) {
	test.Parallel()
	calculation := CalculateCoinsFromPurchase(nil)
	if calculation.TotalCoins != 0 || calculation.BonusCoins != 0 {
		test.Fatalf("empty cart must earn nothing, got %+v", calculation)
	}
}

func TestProcessPurchaseEarningsWritesTwoTransactionsForPerfectCart(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	service := mustNewService(test, store, newManualClock())

	result, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{
		tierItem(catalog.ImpactLow, 1),
	})
	if err != nil {
		test.Fatalf("process earnings: %v", err)
	}
	if result.TotalEarned != 35 {
		test.Fatalf("expected 10+25=35 coins, got %d", result.TotalEarned)
	}
	if len(result.Transactions) != 2 {
		test.Fatalf("expected main plus bonus transaction, got %d", len(result.Transactions))
	}
	main, bonus := result.Transactions[0], result.Transactions[1]
	if main.Source != SourceLowCarbonPurchase || main.Amount != 10 {
		test.Fatalf("unexpected main transaction: %+v", main)
	}
	if main.Description != "Earned from 1 sustainable product" {
		test.Fatalf("unexpected description: %q", main.Description)
	}
	if bonus.Source != SourceAchievementBonus || bonus.Amount != 25 {
		test.Fatalf("unexpected bonus transaction: %+v", bonus)
	}

	balance, err := service.Balance(context.Background())
	if err != nil {
		test.Fatalf("balance: %v", err)
	}
	if balance.Total != 35 || balance.Earned != 35 || balance.Spent != 0 {
		test.Fatalf("unexpected balance: %+v", balance)
	}
	// Most recent first: the bonus was appended after the main entry.
	if balance.Transactions[0].Source != SourceAchievementBonus {
		test.Fatalf("expected newest-first ordering, got %+v", balance.Transactions[0])
	}
}

func TestProcessPurchaseEarningsZeroCoinCartDoesNotPersist(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	service := mustNewService(test, store, newManualClock())

	result, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{
		tierItem(catalog.ImpactHigh, 4),
	})
	if err != nil {
		test.Fatalf("process earnings: %v", err)
	}
	if result.TotalEarned != 0 || len(result.Transactions) != 0 {
		test.Fatalf("expected empty result, got %+v", result)
	}
	if _, found := store.documents[StorageKey]; found {
		test.Fatalf("zero-coin purchase must not write the balance document")
	}
}

func TestSpendCoinsGuards(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	service := mustNewService(test, store, newManualClock())

	if err := service.SpendCoins(context.Background(), 0, "discount"); !errors.Is(err, ErrInvalidAmount) {
		test.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := service.SpendCoins(context.Background(), 10, "discount"); !errors.Is(err, ErrInsufficientCoins) {
		test.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}
	if _, found := store.documents[StorageKey]; found {
		test.Fatalf("failed spends must not persist")
	}
}

func TestSpendCoinsExactBalance(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	service := mustNewService(test, store, newManualClock())

	if _, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{tierItem(catalog.ImpactLow, 1)}); err != nil {
		test.Fatalf("process earnings: %v", err)
	}
	if err := service.SpendCoins(context.Background(), 35, "Checkout discount"); err != nil {
		test.Fatalf("spend: %v", err)
	}

	balance, err := service.Balance(context.Background())
	if err != nil {
		test.Fatalf("balance: %v", err)
	}
	if balance.Total != 0 || balance.Earned != 35 || balance.Spent != 35 {
		test.Fatalf("unexpected balance after exact spend: %+v", balance)
	}
	if balance.Transactions[0].Type != TransactionSpent || balance.Transactions[0].Source != SourceCheckoutDiscount {
		test.Fatalf("unexpected spend transaction: %+v", balance.Transactions[0])
	}
	if err := service.SpendCoins(context.Background(), 1, "discount"); !errors.Is(err, ErrInsufficientCoins) {
		test.Fatalf("expected ErrInsufficientCoins on empty balance, got %v", err)
	}
}

func TestTransactionHistoryCap(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	clock := newManualClock()
	service := mustNewService(test, store, clock)

	for purchase := 0; purchase < maxTransactionHistory+10; purchase++ {
		clock.advance(time.Minute)
		if _, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{tierItem(catalog.ImpactMedium, 1)}); err != nil {
			test.Fatalf("process earnings: %v", err)
		}
	}

	balance, err := service.Balance(context.Background())
	if err != nil {
		test.Fatalf("balance: %v", err)
	}
	if len(balance.Transactions) != maxTransactionHistory {
		test.Fatalf("expected history capped at %d, got %d", maxTransactionHistory, len(balance.Transactions))
	}
	// Eviction drops the oldest entries only; totals keep the full sum.
	if balance.Earned != (maxTransactionHistory+10)*5 {
		test.Fatalf("eviction must not change totals, got %d", balance.Earned)
	}
	if !balance.Transactions[0].Timestamp.After(balance.Transactions[len(balance.Transactions)-1].Timestamp) {
		test.Fatalf("expected newest-first ordering")
	}
}

func TestBalanceTotalInvariantRederivedOnLoad(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	tampered := CoinBalance{Total: 9999, Earned: 50, Spent: 20}
	document, err := json.Marshal(tampered)
	if err != nil {
		test.Fatalf("marshal: %v", err)
	}
	store.documents[StorageKey] = document
	service := mustNewService(test, store, newManualClock())

	balance, err := service.Balance(context.Background())
	if err != nil {
		test.Fatalf("balance: %v", err)
	}
	if balance.Total != 30 {
		test.Fatalf("total must be re-derived as earned-spent, got %d", balance.Total)
	}
}

func TestLoadBalanceFailsClosed(test *testing.T) {
	test.Parallel()
	for name, document := range map[string][]byte{
		"malformed":      []byte("{broken"),
		"negativeEarned": []byte(`{"earned":-5,"spent":0}`),
	} {
		store := newStubStore()
		store.documents[StorageKey] = document
		service := mustNewService(test, store, newManualClock())

		balance, err := service.Balance(context.Background())
		if err != nil {
			test.Fatalf("%s: balance: %v", name, err)
		}
		if balance.Total != 0 || balance.Earned != 0 || balance.Spent != 0 || len(balance.Transactions) != 0 {
			test.Fatalf("%s: expected zero balance, got %+v", name, balance)
		}
	}
}

func TestTransactionIDShape(test *testing.T) {
	test.Parallel()
	clock := newManualClock()
	service := mustNewService(test, newStubStore(), clock)

	result, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{tierItem(catalog.ImpactLow, 1)})
	if err != nil {
		test.Fatalf("process earnings: %v", err)
	}
	prefix := fmt.Sprintf("%d-", clock.at.UnixMilli())
	for _, transaction := range result.Transactions {
		if len(transaction.ID) != len(prefix)+8 || transaction.ID[:len(prefix)] != prefix {
			test.Fatalf("unexpected transaction id %q", transaction.ID)
		}
	}
}

func TestOperationLoggerRecordsEarnAndSpend(test *testing.T) {
	test.Parallel()
	logger := &recordingLogger{}
	service := mustNewService(test, newStubStore(), newManualClock(), WithOperationLogger(logger))

	if _, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{tierItem(catalog.ImpactLow, 1)}); err != nil {
		test.Fatalf("process earnings: %v", err)
	}
	if err := service.SpendCoins(context.Background(), 200, "discount"); !errors.Is(err, ErrInsufficientCoins) {
		test.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}
	if len(logger.entries) != 2 {
		test.Fatalf("expected two log entries, got %d", len(logger.entries))
	}
	earn, spend := logger.entries[0], logger.entries[1]
	if earn.Operation != operationEarn || earn.Status != operationStatusOK || earn.Amount != 35 || earn.BonusCoins != 25 {
		test.Fatalf("unexpected earn entry: %+v", earn)
	}
	if spend.Operation != operationSpend || spend.Status != operationStatusError || !errors.Is(spend.Error, ErrInsufficientCoins) {
		test.Fatalf("unexpected spend entry: %+v", spend)
	}
}

type recordingLogger struct {
	entries []OperationLog
}

func (logger *recordingLogger) LogOperation(_ context.Context, entry OperationLog) {
	logger.entries = append(logger.entries, entry)
}
