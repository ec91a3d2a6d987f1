package interfaces

import (
	"context"

	"notes_e2e/domain/entities"
)

// ActionGuard defines the interface for checks before a mutating action touches the page
type ActionGuard interface {
	// IsDestructiveAction checks if an action removes or resets data in the system under test
	IsDestructiveAction(ctx context.Context, action entities.Action) bool

	// GetActionRiskLevel returns the risk level of an action
	GetActionRiskLevel(ctx context.Context, action entities.Action) entities.RiskLevel

	// Check returns entities.ErrDestructiveBlocked when the action must not run
	Check(ctx context.Context, action entities.Action) error
}
