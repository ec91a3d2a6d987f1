package entities

import (
	"fmt"
	"time"
)

// Timeouts are the duration budgets of the interaction layer
type Timeouts struct {
	// Probe bounds existence and visibility checks
	Probe time.Duration
	// Action bounds required interactions and reads that wait for an effect
	Action time.Duration
	// Navigation bounds page loads
	Navigation time.Duration
	// Composite bounds a whole page-object action such as Login
	Composite time.Duration
	// Poll is the pause between resolver sweeps and URL checks
	Poll time.Duration
}

// DefaultTimeouts returns the budgets used when nothing is configured
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Probe:      1500 * time.Millisecond,
		Action:     5 * time.Second,
		Navigation: 25 * time.Second,
		Composite:  30 * time.Second,
		Poll:       100 * time.Millisecond,
	}
}

// Validate checks that every budget is positive and that probing is shorter than acting
func (t Timeouts) Validate() error {
	for name, d := range map[string]time.Duration{
		"probe":      t.Probe,
		"action":     t.Action,
		"navigation": t.Navigation,
		"composite":  t.Composite,
		"poll":       t.Poll,
	} {
		if d <= 0 {
			return fmt.Errorf("%s timeout must be positive, got %s", name, d)
		}
	}
	if t.Probe > t.Action {
		return fmt.Errorf("probe timeout %s must not exceed action timeout %s", t.Probe, t.Action)
	}
	if t.Poll > t.Probe {
		return fmt.Errorf("poll interval %s must not exceed probe timeout %s", t.Poll, t.Probe)
	}
	return nil
}
