package entities

// PageInfo is the selector audit of one page: where it was loaded and how each of its targets resolved
type PageInfo struct {
	Page    string         `json:"page"`
	URL     string         `json:"url"`
	Title   string         `json:"title"`
	Targets []TargetStatus `json:"targets"`
	Err     string         `json:"error,omitempty"`
}

// TargetStatus is the audit outcome for one LogicalTarget
type TargetStatus struct {
	Target    string `json:"target"`
	Resolved  bool   `json:"resolved"`
	Index     int    `json:"index"`     // position of the winning candidate, -1 when unresolved
	Candidate string `json:"candidate"` // description of the winning candidate
	Fallback  bool   `json:"fallback"`  // a candidate other than the first one won
	Transient bool   `json:"transient"`
}

// Broken reports whether the target should have resolved and did not
func (s TargetStatus) Broken() bool {
	return !s.Resolved && !s.Transient
}
