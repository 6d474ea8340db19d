package rewards

import "time"

// rewardCatalogValidity bounds the early-access pass from the moment the
// catalog is initialized into a profile.
const rewardCatalogValidity = 30 * 24 * time.Hour

type achievementTemplate struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Category    AchievementCategory
	Points      int
	Rarity      Rarity
	Requirement Requirement
}

// achievementTemplates is the fixed achievement catalog. Order is the
// presentation order; evaluation outcome does not depend on it.
var achievementTemplates = []achievementTemplate{
	{
		ID:          "first_low_carbon",
		Title:       "Eco Warrior",
		Description: "Purchase your first low-carbon product",
		Icon:        "🌱",
		Category:    CategoryCarbon,
		Points:      50,
		Rarity:      RarityCommon,
		Requirement: Requirement{Type: RequirementLowCarbonPurchases, Target: 1},
	},
	{
		ID:          "carbon_saver_10",
		Title:       "Carbon Conscious",
		Description: "Save 10kg of CO₂ through sustainable choices",
		Icon:        "🌍",
		Category:    CategoryCarbon,
		Points:      100,
		Rarity:      RarityCommon,
		Requirement: Requirement{Type: RequirementCarbonSaved, Target: 10},
	},
	{
		ID:          "carbon_saver_50",
		Title:       "Planet Protector",
		Description: "Save 50kg of CO₂ through sustainable choices",
		Icon:        "🛡️",
		Category:    CategoryCarbon,
		Points:      250,
		Rarity:      RarityRare,
		Requirement: Requirement{Type: RequirementCarbonSaved, Target: 50},
	},
	{
		ID:          "carbon_saver_100",
		Title:       "Climate Champion",
		Description: "Save 100kg of CO₂ through sustainable choices",
		Icon:        "🏆",
		Category:    CategoryCarbon,
		Points:      500,
		Rarity:      RarityEpic,
		Requirement: Requirement{Type: RequirementCarbonSaved, Target: 100},
	},
	{
		ID:          "verified_shopper",
		Title:       "Trust Builder",
		Description: "Purchase 5 products with verified carbon data",
		Icon:        "✅",
		Category:    CategoryPurchases,
		Points:      75,
		Rarity:      RarityCommon,
		Requirement: Requirement{Type: RequirementVerifiedPurchases, Target: 5},
	},
	{
		ID:          "sustainable_spender",
		Title:       "Green Investor",
		Description: "Spend $500 on sustainable products",
		Icon:        "💚",
		Category:    CategoryPurchases,
		Points:      200,
		Rarity:      RarityRare,
		Requirement: Requirement{Type: RequirementTotalPurchases, Target: 500},
	},
	{
		ID:          "week_streak",
		Title:       "Consistency King",
		Description: "Make sustainable purchases for 7 days straight",
		Icon:        "🔥",
		Category:    CategoryStreaks,
		Points:      150,
		Rarity:      RarityRare,
		Requirement: Requirement{Type: RequirementStreakDays, Target: 7},
	},
	{
		ID:          "month_streak",
		Title:       "Habit Master",
		Description: "Make sustainable purchases for 30 days straight",
		Icon:        "⚡",
		Category:    CategoryStreaks,
		Points:      400,
		Rarity:      RarityEpic,
		Requirement: Requirement{Type: RequirementStreakDays, Target: 30},
	},
	{
		ID:          "first_purchase",
		Title:       "Welcome Aboard",
		Description: "Make your first sustainable purchase",
		Icon:        "🎉",
		Category:    CategoryMilestones,
		Points:      25,
		Rarity:      RarityCommon,
		Requirement: Requirement{Type: RequirementTotalPurchases, Target: 1},
	},
	{
		ID:          "level_5",
		Title:       "Rising Star",
		Description: "Reach level 5 in the rewards program",
		Icon:        "⭐",
		Category:    CategoryMilestones,
		Points:      300,
		Rarity:      RarityRare,
		Requirement: Requirement{Type: RequirementTotalPurchases, Target: 1000},
	},
	{
		ID:          "perfect_cart",
		Title:       "Zero Waste Hero",
		Description: "Complete a purchase with only low-carbon products",
		Icon:        "🎯",
		Category:    CategoryCarbon,
		Points:      100,
		Rarity:      RarityRare,
		Requirement: Requirement{Type: RequirementLowCarbonPurchases, Target: 1},
	},
}

// levelTable is the static level ladder, sorted ascending by points. The
// first entry requires zero points so every profile qualifies for level 1.
var levelTable = []LevelInfo{
	{
		Level:          1,
		Title:          "Eco Newcomer",
		PointsRequired: 0,
		Benefits:       []string{"Welcome bonus", "Basic rewards access"},
		Color:          "text-gray-600",
	},
	{
		Level:          2,
		Title:          "Green Explorer",
		PointsRequired: 100,
		Benefits:       []string{"5% bonus points", "Early access to sales"},
		Color:          "text-green-600",
	},
	{
		Level:          3,
		Title:          "Sustainability Advocate",
		PointsRequired: 300,
		Benefits:       []string{"10% bonus points", "Free carbon offsetting"},
		Color:          "text-blue-600",
	},
	{
		Level:          4,
		Title:          "Climate Guardian",
		PointsRequired: 600,
		Benefits:       []string{"15% bonus points", "Exclusive products"},
		Color:          "text-purple-600",
	},
	{
		Level:          5,
		Title:          "Planet Champion",
		PointsRequired: 1000,
		Benefits:       []string{"20% bonus points", "VIP customer support"},
		Color:          "text-yellow-600",
	},
}

// InitialAchievements builds the full achievement catalog in its locked state.
func InitialAchievements() []Achievement {
	achievements := make([]Achievement, 0, len(achievementTemplates))
	for _, template := range achievementTemplates {
		achievements = append(achievements, Achievement{
			ID:          template.ID,
			Title:       template.Title,
			Description: template.Description,
			Icon:        template.Icon,
			Category:    template.Category,
			Points:      template.Points,
			Requirement: template.Requirement,
			Rarity:      template.Rarity,
		})
	}
	return achievements
}

// RewardCatalog builds the static reward catalog. The early-access pass
// expires thirty days after the catalog is issued.
func RewardCatalog(issuedAt time.Time) []Reward {
	earlyAccessExpiry := issuedAt.Add(rewardCatalogValidity)
	return []Reward{
		{
			ID:          "discount_5",
			Title:       "5% Off Next Purchase",
			Description: "Get 5% off your next order of sustainable products",
			PointsCost:  100,
			Type:        RewardDiscount,
			Value:       5,
			Available:   true,
		},
		{
			ID:          "discount_10",
			Title:       "10% Off Next Purchase",
			Description: "Get 10% off your next order of sustainable products",
			PointsCost:  200,
			Type:        RewardDiscount,
			Value:       10,
			Available:   true,
		},
		{
			ID:          "free_shipping",
			Title:       "Free Shipping",
			Description: "Free shipping on your next order",
			PointsCost:  150,
			Type:        RewardFreeShipping,
			Value:       0,
			Available:   true,
		},
		{
			ID:          "carbon_offset_10",
			Title:       "10kg Carbon Offset",
			Description: "We'll offset 10kg of CO₂ on your behalf",
			PointsCost:  250,
			Type:        RewardCarbonOffset,
			Value:       10,
			Available:   true,
		},
		{
			ID:          "carbon_offset_25",
			Title:       "25kg Carbon Offset",
			Description: "We'll offset 25kg of CO₂ on your behalf",
			PointsCost:  500,
			Type:        RewardCarbonOffset,
			Value:       25,
			Available:   true,
		},
		{
			ID:          "early_access",
			Title:       "Early Access Pass",
			Description: "Get early access to new sustainable product launches",
			PointsCost:  300,
			Type:        RewardExclusiveAccess,
			Value:       0,
			Available:   true,
			ExpiresAt:   &earlyAccessExpiry,
		},
	}
}
