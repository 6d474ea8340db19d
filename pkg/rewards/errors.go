package rewards

import "errors"

// Domain-level error values returned by the rewards service.
var (
	ErrUnknownReward        = errors.New("unknown reward")
	ErrInsufficientPoints   = errors.New("insufficient points")
	ErrUnknownRedemption    = errors.New("unknown redemption")
	ErrRewardAlreadyUsed    = errors.New("reward already used")
	ErrInvalidRewardID      = errors.New("invalid reward id")
	ErrInvalidRedemptionID  = errors.New("invalid redemption id")
	ErrInvalidServiceConfig = errors.New("invalid service config")
)
