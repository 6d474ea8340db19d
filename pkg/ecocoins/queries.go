package ecocoins

import (
	"context"
	"fmt"
	"math"
	"time"
)

// CoinsValue converts a coin amount to its dollar value at the fixed rate,
// rounded to cents.
func CoinsValue(coins int) float64 {
	return math.Round(float64(coins)/CoinToDollarRate*100) / 100
}

// RequiredCoinsForDiscount returns the coins needed to cover a dollar
// discount, rounded up.
func RequiredCoinsForDiscount(dollars float64) int {
	return int(math.Ceil(dollars * CoinToDollarRate))
}

// RecentTransactions returns the newest `limit` ledger entries,
// most-recent-first.
func (service *Service) RecentTransactions(ctx context.Context, limit int) ([]CoinTransaction, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: must be greater than zero", ErrInvalidLimit)
	}
	balance, err := service.loadBalance(ctx)
	if err != nil {
		return nil, err
	}
	if limit > len(balance.Transactions) {
		limit = len(balance.Transactions)
	}
	return balance.Transactions[:limit], nil
}

// TodayEarnings sums earned coins recorded since the start of the current
// calendar day.
func (service *Service) TodayEarnings(ctx context.Context) (int, error) {
	now := service.nowFn()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return service.earningsSince(ctx, startOfDay)
}

// WeeklyEarnings sums earned coins recorded in the trailing seven days.
func (service *Service) WeeklyEarnings(ctx context.Context) (int, error) {
	return service.earningsSince(ctx, service.nowFn().AddDate(0, 0, -7))
}

func (service *Service) earningsSince(ctx context.Context, cutoff time.Time) (int, error) {
	balance, err := service.loadBalance(ctx)
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, transaction := range balance.Transactions {
		if transaction.Type == TransactionEarned && !transaction.Timestamp.Before(cutoff) {
			sum += transaction.Amount
		}
	}
	return sum, nil
}
