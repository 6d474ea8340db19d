package rewards

const (
	// StorageKey names the persisted rewards profile document.
	StorageKey = "user-rewards"

	operationProcessPurchase = "process_purchase"
	operationRedeemReward    = "redeem_reward"
	operationMarkRewardUsed  = "mark_reward_used"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	pointsPerDollar        = 2
	lowCarbonItemBonus     = 25
	verifiedItemBonus      = 15
	perfectCartPointsBonus = 50
)
