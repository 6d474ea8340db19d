package rewards

import "context"

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// OperationLogger records domain-level events emitted by Service operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes a state-changing rewards operation.
type OperationLog struct {
	Operation            string
	RewardID             string
	RedemptionID         string
	PointsEarned         int
	PointsSpent          int
	AchievementsUnlocked int
	Status               string
	Error                error
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) ServiceOption {
	return func(service *Service) {
		service.logger = logger
	}
}

// WithStreakPolicy overrides the default purchase-streak rule.
func WithStreakPolicy(policy StreakPolicy) ServiceOption {
	return func(service *Service) {
		if policy != nil {
			service.streakPolicy = policy
		}
	}
}
