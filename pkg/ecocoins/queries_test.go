package ecocoins

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EvergreenMarketLab/ecorewards/pkg/catalog"
)

func TestCoinsValue(test *testing.T) {
	test.Parallel()
	cases := []struct {
		coins int
		value float64
	}{
		{coins: 0, value: 0},
		{coins: 100, value: 1},
		{coins: 35, value: 0.35},
		{coins: 1234, value: 12.34},
	}
	for _, entry := range cases {
		if value := CoinsValue(entry.coins); value != entry.value {
			test.Fatalf("CoinsValue(%d) = %v, expected %v", entry.coins, value, entry.value)
		}
	}
}

func TestRequiredCoinsForDiscount(test *testing.T) {
	test.Parallel()
	if coins := RequiredCoinsForDiscount(1); coins != 100 {
		test.Fatalf("expected 100 coins per dollar, got %d", coins)
	}
	if coins := RequiredCoinsForDiscount(0.501); coins != 51 {
		test.Fatalf("fractional cents round up, got %d", coins)
	}
	if coins := RequiredCoinsForDiscount(0); coins != 0 {
		test.Fatalf("expected zero coins for zero discount, got %d", coins)
	}
}

func TestRecentTransactions(test *testing.T) {
	test.Parallel()
	clock := newManualClock()
	service := mustNewService(test, newStubStore(), clock)

	for purchase := 0; purchase < 5; purchase++ {
		clock.advance(time.Minute)
		if _, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{tierItem(catalog.ImpactMedium, 1)}); err != nil {
			test.Fatalf("process earnings: %v", err)
		}
	}

	recent, err := service.RecentTransactions(context.Background(), 3)
	if err != nil {
		test.Fatalf("recent transactions: %v", err)
	}
	if len(recent) != 3 {
		test.Fatalf("expected 3 entries, got %d", len(recent))
	}
	if !recent[0].Timestamp.After(recent[2].Timestamp) {
		test.Fatalf("expected newest-first ordering")
	}

	all, err := service.RecentTransactions(context.Background(), 50)
	if err != nil {
		test.Fatalf("recent transactions: %v", err)
	}
	if len(all) != 5 {
		test.Fatalf("limit beyond history returns everything, got %d", len(all))
	}

	if _, err := service.RecentTransactions(context.Background(), 0); !errors.Is(err, ErrInvalidLimit) {
		test.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestTodayAndWeeklyEarnings(test *testing.T) {
	test.Parallel()
	clock := newManualClock()
	service := mustNewService(test, newStubStore(), clock)

	// Ten days ago: outside both windows.
	clock.at = clock.at.AddDate(0, 0, -10)
	if _, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{tierItem(catalog.ImpactMedium, 1)}); err != nil {
		test.Fatalf("process earnings: %v", err)
	}
	// Three days ago: inside the week, outside today.
	clock.at = clock.at.AddDate(0, 0, 7)
	if _, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{tierItem(catalog.ImpactMedium, 2)}); err != nil {
		test.Fatalf("process earnings: %v", err)
	}
	// Back to the present day.
	clock.at = clock.at.AddDate(0, 0, 3)
	if _, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{tierItem(catalog.ImpactLow, 1)}); err != nil {
		test.Fatalf("process earnings: %v", err)
	}

	today, err := service.TodayEarnings(context.Background())
	if err != nil {
		test.Fatalf("today earnings: %v", err)
	}
	if today != 35 {
		test.Fatalf("expected today's 10+25 coins, got %d", today)
	}

	weekly, err := service.WeeklyEarnings(context.Background())
	if err != nil {
		test.Fatalf("weekly earnings: %v", err)
	}
	if weekly != 45 {
		test.Fatalf("expected 10+35 coins inside the week, got %d", weekly)
	}
}

func TestEarningsExcludeSpends(test *testing.T) {
	test.Parallel()
	service := mustNewService(test, newStubStore(), newManualClock())

	if _, err := service.ProcessPurchaseEarnings(context.Background(), []catalog.CartItem{tierItem(catalog.ImpactLow, 2)}); err != nil {
		test.Fatalf("process earnings: %v", err)
	}
	if err := service.SpendCoins(context.Background(), 30, "discount"); err != nil {
		test.Fatalf("spend: %v", err)
	}

	today, err := service.TodayEarnings(context.Background())
	if err != nil {
		test.Fatalf("today earnings: %v", err)
	}
	if today != 45 {
		test.Fatalf("spends must not reduce earnings totals, got %d", today)
	}
}
