package rewards

import (
	"context"
	"time"
)

// RequirementType names the profile counter an achievement tracks.
type RequirementType string

const (
	RequirementCarbonSaved        RequirementType = "carbon_saved"
	RequirementLowCarbonPurchases RequirementType = "low_carbon_purchases"
	RequirementStreakDays         RequirementType = "streak_days"
	RequirementTotalPurchases     RequirementType = "total_purchases"
	RequirementVerifiedPurchases  RequirementType = "verified_purchases"
)

// AchievementCategory groups achievements for presentation.
type AchievementCategory string

const (
	CategoryCarbon     AchievementCategory = "carbon"
	CategoryPurchases  AchievementCategory = "purchases"
	CategoryStreaks    AchievementCategory = "streaks"
	CategoryMilestones AchievementCategory = "milestones"
)

// Rarity ranks how hard an achievement is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Requirement tracks progress toward an achievement target. Current is a pure
// projection of the profile counter named by Type; it is recomputed on every
// evaluation and frozen once the achievement unlocks.
type Requirement struct {
	Type    RequirementType `json:"type"`
	Target  float64         `json:"target"`
	Current float64         `json:"current"`
}

// Achievement is one entry of the fixed achievement catalog. Unlocked is a
// one-way transition; UnlockedAt is stamped exactly once, at the transition.
type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	Points      int                 `json:"points"`
	Requirement Requirement         `json:"requirement"`
	Unlocked    bool                `json:"unlocked"`
	UnlockedAt  *time.Time          `json:"unlockedAt,omitempty"`
	Rarity      Rarity              `json:"rarity"`
}

// RewardType enumerates what a catalog reward grants.
type RewardType string

const (
	RewardDiscount        RewardType = "discount"
	RewardFreeShipping    RewardType = "free_shipping"
	RewardCarbonOffset    RewardType = "carbon_offset"
	RewardExclusiveAccess RewardType = "exclusive_access"
)

// Reward is a static catalog entry redeemable for points.
type Reward struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PointsCost  int        `json:"pointsCost"`
	Type        RewardType `json:"type"`
	Value       float64    `json:"value"`
	Available   bool       `json:"available"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// RedeemedReward is a catalog reward copied at redemption time. Used flips
// true at most once, through MarkRewardUsed.
type RedeemedReward struct {
	Reward
	RedemptionID string     `json:"redemptionId"`
	RedeemedAt   time.Time  `json:"redeemedAt"`
	Used         bool       `json:"used"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
}

// LevelInfo is one tier of the static level table.
type LevelInfo struct {
	Level          int      `json:"level"`
	Title          string   `json:"title"`
	PointsRequired int      `json:"pointsRequired"`
	Benefits       []string `json:"benefits"`
	Color          string   `json:"color"`
}

// UserRewards is the singleton rewards profile for one shopper. Counters are
// monotonic non-decreasing; TotalPoints decreases only through redemption.
type UserRewards struct {
	TotalPoints        int              `json:"totalPoints"`
	Level              int              `json:"level"`
	CurrentStreak      int              `json:"currentStreak"`
	LongestStreak      int              `json:"longestStreak"`
	TotalCarbonSaved   float64          `json:"totalCarbonSaved"`
	LowCarbonPurchases int              `json:"lowCarbonPurchases"`
	VerifiedPurchases  int              `json:"verifiedPurchases"`
	TotalPurchases     float64          `json:"totalPurchases"`
	LastPurchaseAt     *time.Time       `json:"lastPurchaseAt,omitempty"`
	Achievements       []Achievement    `json:"achievements"`
	AvailableRewards   []Reward         `json:"availableRewards"`
	RedeemedRewards    []RedeemedReward `json:"redeemedRewards"`
}

// PurchaseResult reports the outcome of a processed purchase.
type PurchaseResult struct {
	PointsEarned    int
	NewAchievements []Achievement
}

// DocumentStore is the persistence contract used by Service: a blocking
// read/write of whole JSON documents keyed by name.
type DocumentStore interface {
	Load(ctx context.Context, key string) (document []byte, found bool, err error)
	Save(ctx context.Context, key string, document []byte) error
}
