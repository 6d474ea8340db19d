package rewards

import (
	"context"
	"errors"
	"testing"

	"github.com/EvergreenMarketLab/ecorewards/pkg/catalog"
)

type recordingLogger struct {
	entries []OperationLog
}

func (logger *recordingLogger) LogOperation(_ context.Context, entry OperationLog) {
	logger.entries = append(logger.entries, entry)
}

func TestOperationLoggerReceivesPurchaseOutcome(test *testing.T) {
	test.Parallel()
	logger := &recordingLogger{}
	service := mustNewService(test, newStubStore(), WithOperationLogger(logger))

	if _, err := service.ProcessPurchase(context.Background(), []catalog.CartItem{lowCarbonVerifiedItem(20, 2, 1)}); err != nil {
		test.Fatalf("process purchase: %v", err)
	}
	if len(logger.entries) != 1 {
		test.Fatalf("expected one log entry, got %d", len(logger.entries))
	}
	entry := logger.entries[0]
	if entry.Operation != operationProcessPurchase || entry.Status != operationStatusOK {
		test.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.PointsEarned != 305 || entry.AchievementsUnlocked != 3 {
		test.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestOperationLoggerReceivesFailures(test *testing.T) {
	test.Parallel()
	logger := &recordingLogger{}
	store := newStubStore()
	store.loadErr = errors.New("backend down")
	service := mustNewService(test, store, WithOperationLogger(logger))

	if _, err := service.ProcessPurchase(context.Background(), []catalog.CartItem{lowCarbonVerifiedItem(20, 2, 1)}); err == nil {
		test.Fatalf("expected load failure to surface")
	}
	if len(logger.entries) != 1 {
		test.Fatalf("expected one log entry, got %d", len(logger.entries))
	}
	entry := logger.entries[0]
	if entry.Status != operationStatusError || entry.Error == nil {
		test.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestOperationLoggerRecordsRedemption(test *testing.T) {
	test.Parallel()
	logger := &recordingLogger{}
	service := mustNewService(test, newStubStore(), WithOperationLogger(logger))

	if _, err := service.ProcessPurchase(context.Background(), []catalog.CartItem{lowCarbonVerifiedItem(20, 2, 1)}); err != nil {
		test.Fatalf("process purchase: %v", err)
	}
	if _, err := service.RedeemReward(context.Background(), "discount_5"); err != nil {
		test.Fatalf("redeem: %v", err)
	}
	entry := logger.entries[len(logger.entries)-1]
	if entry.Operation != operationRedeemReward || entry.RewardID != "discount_5" {
		test.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.PointsSpent != 100 || entry.RedemptionID == "" {
		test.Fatalf("unexpected entry: %+v", entry)
	}
}
