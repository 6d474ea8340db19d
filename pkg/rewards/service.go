package rewards

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/EvergreenMarketLab/ecorewards/pkg/catalog"
	"github.com/google/uuid"
)

// Service contains the rewards domain logic over a DocumentStore.
type Service struct {
	store        DocumentStore
	nowFn        func() time.Time
	streakPolicy StreakPolicy
	logger       OperationLogger
}

// NewService wires a Service. The default streak policy increments on every
// purchase; pass WithStreakPolicy(CalendarDayStreak{}) for the day-boundary rule.
func NewService(store DocumentStore, now func() time.Time, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{store: store, nowFn: now, streakPolicy: EveryPurchaseStreak{}}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// Profile loads the rewards profile, creating a fresh one on first use and
// re-initializing the achievement catalog when the stored document lacks one.
func (service *Service) Profile(ctx context.Context) (UserRewards, error) {
	return service.loadProfile(ctx)
}

// ProcessPurchase applies a checkout to the profile: accrues points and
// counters, advances the streak, re-derives the level, and unlocks any
// achievements whose targets the updated counters reach. An empty item list is
// a no-op that returns a zero result.
func (service *Service) ProcessPurchase(ctx context.Context, items []catalog.CartItem) (PurchaseResult, error) {
	if len(items) == 0 {
		return PurchaseResult{NewAchievements: []Achievement{}}, nil
	}
	profile, err := service.loadProfile(ctx)
	if err != nil {
		return PurchaseResult{}, service.logPurchase(ctx, PurchaseResult{}, err)
	}

	now := service.nowFn()
	summary := catalog.Summarize(items)
	pointsEarned := purchasePoints(summary)

	profile.TotalPoints += pointsEarned
	profile.TotalCarbonSaved += summary.CarbonSaved
	profile.LowCarbonPurchases += summary.LowCarbonItems
	profile.VerifiedPurchases += summary.VerifiedItems
	profile.TotalPurchases += summary.TotalSpent

	streak := service.streakPolicy.Advance(StreakState{
		Current:        profile.CurrentStreak,
		Longest:        profile.LongestStreak,
		LastPurchaseAt: profile.LastPurchaseAt,
	}, now)
	profile.CurrentStreak = streak.Current
	profile.LongestStreak = streak.Longest
	profile.LastPurchaseAt = streak.LastPurchaseAt

	profile.Level = LevelForPoints(profile.TotalPoints)

	newlyUnlocked := evaluateAchievements(&profile, now)
	achievementPoints := 0
	for _, achievement := range newlyUnlocked {
		achievementPoints += achievement.Points
	}
	profile.TotalPoints += achievementPoints
	profile.Level = LevelForPoints(profile.TotalPoints)

	if err := service.saveProfile(ctx, profile); err != nil {
		return PurchaseResult{}, service.logPurchase(ctx, PurchaseResult{}, err)
	}
	result := PurchaseResult{
		PointsEarned:    pointsEarned + achievementPoints,
		NewAchievements: newlyUnlocked,
	}
	_ = service.logPurchase(ctx, result, nil)
	return result, nil
}

// RedeemReward exchanges points for a catalog reward. It fails with
// ErrUnknownReward or ErrInsufficientPoints and leaves the profile unchanged;
// redemption never re-evaluates achievements.
func (service *Service) RedeemReward(ctx context.Context, rewardID string) (RedeemedReward, error) {
	trimmedID := strings.TrimSpace(rewardID)
	if trimmedID == "" {
		return RedeemedReward{}, service.logRedeem(ctx, rewardID, RedeemedReward{}, fmt.Errorf("%w: empty value", ErrInvalidRewardID))
	}
	profile, err := service.loadProfile(ctx)
	if err != nil {
		return RedeemedReward{}, service.logRedeem(ctx, trimmedID, RedeemedReward{}, err)
	}
	reward, found := findReward(profile.AvailableRewards, trimmedID)
	if !found {
		return RedeemedReward{}, service.logRedeem(ctx, trimmedID, RedeemedReward{}, ErrUnknownReward)
	}
	if profile.TotalPoints < reward.PointsCost {
		return RedeemedReward{}, service.logRedeem(ctx, trimmedID, RedeemedReward{}, ErrInsufficientPoints)
	}

	redemption := RedeemedReward{
		Reward:       reward,
		RedemptionID: uuid.NewString(),
		RedeemedAt:   service.nowFn(),
	}
	profile.TotalPoints -= reward.PointsCost
	profile.RedeemedRewards = append(profile.RedeemedRewards, redemption)
	if err := service.saveProfile(ctx, profile); err != nil {
		return RedeemedReward{}, service.logRedeem(ctx, trimmedID, RedeemedReward{}, err)
	}
	_ = service.logRedeem(ctx, trimmedID, redemption, nil)
	return redemption, nil
}

// MarkRewardUsed flips a redeemed reward's used flag, a one-way transition the
// surrounding fulfillment flow exercises when a reward is actually consumed.
func (service *Service) MarkRewardUsed(ctx context.Context, redemptionID string) error {
	trimmedID := strings.TrimSpace(redemptionID)
	if trimmedID == "" {
		return service.logMarkUsed(ctx, redemptionID, fmt.Errorf("%w: empty value", ErrInvalidRedemptionID))
	}
	profile, err := service.loadProfile(ctx)
	if err != nil {
		return service.logMarkUsed(ctx, trimmedID, err)
	}
	for index := range profile.RedeemedRewards {
		if profile.RedeemedRewards[index].RedemptionID != trimmedID {
			continue
		}
		if profile.RedeemedRewards[index].Used {
			return service.logMarkUsed(ctx, trimmedID, ErrRewardAlreadyUsed)
		}
		usedAt := service.nowFn()
		profile.RedeemedRewards[index].Used = true
		profile.RedeemedRewards[index].UsedAt = &usedAt
		if err := service.saveProfile(ctx, profile); err != nil {
			return service.logMarkUsed(ctx, trimmedID, err)
		}
		return service.logMarkUsed(ctx, trimmedID, nil)
	}
	return service.logMarkUsed(ctx, trimmedID, ErrUnknownRedemption)
}

// purchasePoints computes the points a purchase earns before achievements:
// two per dollar, flat bonuses per low-carbon and verified line item, and the
// perfect-cart bonus when every item is low carbon.
func purchasePoints(summary catalog.PurchaseSummary) int {
	points := int(math.Floor(summary.TotalSpent * pointsPerDollar))
	points += summary.LowCarbonItems * lowCarbonItemBonus
	points += summary.VerifiedItems * verifiedItemBonus
	if summary.AllLowCarbon {
		points += perfectCartPointsBonus
	}
	return points
}

// evaluateAchievements recomputes every locked achievement's progress from the
// profile counters and unlocks those whose progress reached target. Unlocked
// achievements are frozen; re-evaluating them is a no-op.
func evaluateAchievements(profile *UserRewards, now time.Time) []Achievement {
	newlyUnlocked := []Achievement{}
	for index := range profile.Achievements {
		achievement := &profile.Achievements[index]
		if achievement.Unlocked {
			continue
		}
		achievement.Requirement.Current = counterValue(*profile, achievement.Requirement.Type)
		if achievement.Requirement.Current >= achievement.Requirement.Target {
			unlockedAt := now
			achievement.Unlocked = true
			achievement.UnlockedAt = &unlockedAt
			newlyUnlocked = append(newlyUnlocked, *achievement)
		}
	}
	return newlyUnlocked
}

func counterValue(profile UserRewards, requirement RequirementType) float64 {
	switch requirement {
	case RequirementCarbonSaved:
		return profile.TotalCarbonSaved
	case RequirementLowCarbonPurchases:
		return float64(profile.LowCarbonPurchases)
	case RequirementVerifiedPurchases:
		return float64(profile.VerifiedPurchases)
	case RequirementTotalPurchases:
		return profile.TotalPurchases
	case RequirementStreakDays:
		return float64(profile.CurrentStreak)
	}
	return 0
}

func findReward(rewards []Reward, rewardID string) (Reward, bool) {
	for _, reward := range rewards {
		if reward.ID == rewardID {
			return reward, true
		}
	}
	return Reward{}, false
}

// loadProfile reads the persisted profile. A missing document yields a fresh
// profile; an unparsable one fails closed to a fresh profile; a document with
// a missing or empty achievement list is healed from the static templates.
func (service *Service) loadProfile(ctx context.Context) (UserRewards, error) {
	document, found, err := service.store.Load(ctx, StorageKey)
	if err != nil {
		return UserRewards{}, err
	}
	if !found {
		return service.initialProfile(), nil
	}
	var profile UserRewards
	if unmarshalErr := json.Unmarshal(document, &profile); unmarshalErr != nil {
		return service.initialProfile(), nil
	}
	if len(profile.Achievements) == 0 {
		profile.Achievements = InitialAchievements()
	}
	if len(profile.AvailableRewards) == 0 {
		profile.AvailableRewards = RewardCatalog(service.nowFn())
	}
	if profile.RedeemedRewards == nil {
		profile.RedeemedRewards = []RedeemedReward{}
	}
	// Level is derived from points; never trust the stored copy.
	profile.Level = LevelForPoints(profile.TotalPoints)
	return profile, nil
}

func (service *Service) initialProfile() UserRewards {
	return UserRewards{
		Level:            1,
		Achievements:     InitialAchievements(),
		AvailableRewards: RewardCatalog(service.nowFn()),
		RedeemedRewards:  []RedeemedReward{},
	}
}

func (service *Service) saveProfile(ctx context.Context, profile UserRewards) error {
	document, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return service.store.Save(ctx, StorageKey, document)
}

func (service *Service) logPurchase(ctx context.Context, result PurchaseResult, err error) error {
	service.logOperation(ctx, OperationLog{
		Operation:            operationProcessPurchase,
		PointsEarned:         result.PointsEarned,
		AchievementsUnlocked: len(result.NewAchievements),
		Error:                err,
	})
	return err
}

func (service *Service) logRedeem(ctx context.Context, rewardID string, redemption RedeemedReward, err error) error {
	service.logOperation(ctx, OperationLog{
		Operation:    operationRedeemReward,
		RewardID:     rewardID,
		RedemptionID: redemption.RedemptionID,
		PointsSpent:  redemption.PointsCost,
		Error:        err,
	})
	return err
}

func (service *Service) logMarkUsed(ctx context.Context, redemptionID string, err error) error {
	service.logOperation(ctx, OperationLog{
		Operation:    operationMarkRewardUsed,
		RedemptionID: redemptionID,
		Error:        err,
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
