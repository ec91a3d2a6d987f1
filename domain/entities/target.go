package entities

import "fmt"

// LogicalTarget is a named UI concept with an ordered list of ways to find it.
// Earlier candidates are preferred. The list is fixed at construction.
type LogicalTarget struct {
	name       string
	candidates []LocatorCandidate
	transient  bool
}

// TargetOption configures a LogicalTarget at construction
type TargetOption func(*LogicalTarget)

// Transient marks targets that may be absent on a freshly loaded page, such as
// alerts, dialogs and the controls of a list item.
func Transient() TargetOption {
	return func(t *LogicalTarget) { t.transient = true }
}

// NewTarget builds a LogicalTarget. It fails when the candidate list is empty
// or a candidate is malformed.
func NewTarget(name string, candidates []LocatorCandidate, opts ...TargetOption) (LogicalTarget, error) {
	if name == "" {
		return LogicalTarget{}, fmt.Errorf("target name is required")
	}
	if len(candidates) == 0 {
		return LogicalTarget{}, fmt.Errorf("target %s: at least one locator candidate is required", name)
	}
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return LogicalTarget{}, fmt.Errorf("target %s: candidate %d: %w", name, i, err)
		}
	}

	t := LogicalTarget{
		name:       name,
		candidates: append([]LocatorCandidate(nil), candidates...),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t, nil
}

// MustTarget is NewTarget for static tables; it panics on a malformed table.
func MustTarget(name string, candidates []LocatorCandidate, opts ...TargetOption) LogicalTarget {
	t, err := NewTarget(name, candidates, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the target's identifier
func (t LogicalTarget) Name() string {
	return t.name
}

// Candidates returns a copy of the candidates in preference order
func (t LogicalTarget) Candidates() []LocatorCandidate {
	return append([]LocatorCandidate(nil), t.candidates...)
}

// Len returns the number of candidates
func (t LogicalTarget) Len() int {
	return len(t.candidates)
}

// IsTransient reports whether the target may legitimately be absent
func (t LogicalTarget) IsTransient() bool {
	return t.transient
}

// IsZero reports whether t was never built with NewTarget
func (t LogicalTarget) IsZero() bool {
	return t.name == "" && len(t.candidates) == 0
}

func (t LogicalTarget) String() string {
	return t.name
}
