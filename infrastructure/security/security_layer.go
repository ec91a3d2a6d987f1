package security

import (
	"context"
	"fmt"
	"strings"

	"notes_e2e/domain/entities"
	"notes_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

var destructiveKeywords = []string{
	"delete", "remove", "trash",
	"clear", "reset",
}

// SecurityLayer classifies actions before they reach the page and blocks
// destructive ones when the run is read-only.
type SecurityLayer struct {
	logger   logrus.FieldLogger
	readOnly bool
}

// NewSecurityLayer - creates the guard. With readOnly set, Check refuses destructive actions.
func NewSecurityLayer(logger logrus.FieldLogger, readOnly bool) *SecurityLayer {
	return &SecurityLayer{
		logger:   logger,
		readOnly: readOnly,
	}
}

// IsDestructiveAction - reports whether a click looks like it deletes or resets data
func (s *SecurityLayer) IsDestructiveAction(ctx context.Context, action entities.Action) bool {
	if action.Type != entities.ActionClick {
		return false
	}
	return mentions(action, destructiveKeywords)
}

// GetActionRiskLevel - returns how irreversible the action is
func (s *SecurityLayer) GetActionRiskLevel(ctx context.Context, action entities.Action) entities.RiskLevel {
	if s.IsDestructiveAction(ctx, action) {
		return entities.RiskHigh
	}

	switch action.Type {
	case entities.ActionNavigate, entities.ActionRead:
		return entities.RiskLow
	case entities.ActionFill, entities.ActionClear, entities.ActionSelect, entities.ActionClick:
		return entities.RiskMedium
	}

	return entities.RiskLow
}

// Check - logs high-risk actions and blocks destructive ones in read-only mode
func (s *SecurityLayer) Check(ctx context.Context, action entities.Action) error {
	risk := s.GetActionRiskLevel(ctx, action)
	if risk != entities.RiskHigh {
		return nil
	}

	fields := logrus.Fields{
		"action":    action.Type,
		"target":    action.Target,
		"candidate": action.Candidate,
		"risk":      risk,
	}
	if s.readOnly {
		s.logger.WithFields(fields).Warn("Blocked destructive action in read-only mode")
		return fmt.Errorf("%w: %s %s", entities.ErrDestructiveBlocked, action.Type, action.Target)
	}

	s.logger.WithFields(fields).Warn("Performing destructive action")
	return nil
}

func mentions(action entities.Action, keywords []string) bool {
	lowerTarget := strings.ToLower(action.Target)
	lowerCandidate := strings.ToLower(action.Candidate)

	for _, keyword := range keywords {
		if strings.Contains(lowerTarget, keyword) || strings.Contains(lowerCandidate, keyword) {
			return true
		}
	}
	return false
}

// Ensure SecurityLayer implements ActionGuard interface
var _ interfaces.ActionGuard = (*SecurityLayer)(nil)
