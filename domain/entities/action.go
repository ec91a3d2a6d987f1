package entities

// ActionType represents the kind of interaction a primitive performs
type ActionType string

const (
	ActionNavigate ActionType = "navigate"
	ActionClick    ActionType = "click"
	ActionFill     ActionType = "fill"
	ActionClear    ActionType = "clear"
	ActionSelect   ActionType = "select"
	ActionRead     ActionType = "read"
)

// Mutates reports whether the action changes state in the system under test
func (a ActionType) Mutates() bool {
	switch a {
	case ActionClick, ActionFill, ActionClear, ActionSelect:
		return true
	default:
		return false
	}
}

// Action represents a single interaction about to be performed on a resolved element
type Action struct {
	Type      ActionType `json:"type"`
	Target    string     `json:"target"`
	Candidate string     `json:"candidate,omitempty"`
	Value     string     `json:"value,omitempty"`
	URL       string     `json:"url,omitempty"`
}

// RiskLevel classifies how irreversible an action is
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)
