package main

import (
	"context"

	"github.com/EvergreenMarketLab/ecorewards/pkg/ecocoins"
	"github.com/EvergreenMarketLab/ecorewards/pkg/rewards"
	"go.uber.org/zap"
)

// zapRewardsLogger forwards rewards operation logs to zap.
type zapRewardsLogger struct {
	logger *zap.Logger
}

func (adapter *zapRewardsLogger) LogOperation(_ context.Context, entry rewards.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
		zap.Int("points_earned", entry.PointsEarned),
		zap.Int("points_spent", entry.PointsSpent),
		zap.Int("achievements_unlocked", entry.AchievementsUnlocked),
	}
	if entry.RewardID != "" {
		fields = append(fields, zap.String("reward_id", entry.RewardID))
	}
	if entry.RedemptionID != "" {
		fields = append(fields, zap.String("redemption_id", entry.RedemptionID))
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
		adapter.logger.Warn("rewards operation", fields...)
		return
	}
	adapter.logger.Info("rewards operation", fields...)
}

// zapCoinsLogger forwards coin operation logs to zap.
type zapCoinsLogger struct {
	logger *zap.Logger
}

func (adapter *zapCoinsLogger) LogOperation(_ context.Context, entry ecocoins.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
		zap.Int("amount", entry.Amount),
		zap.Int("bonus_coins", entry.BonusCoins),
		zap.Int("transactions", entry.Transactions),
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
		adapter.logger.Warn("coin operation", fields...)
		return
	}
	adapter.logger.Info("coin operation", fields...)
}
