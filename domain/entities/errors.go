package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDestructiveBlocked is returned when the action guard refuses a destructive action
var ErrDestructiveBlocked = errors.New("destructive action blocked")

// ElementNotFoundError means no candidate of a required target resolved in time
type ElementNotFoundError struct {
	Target  string
	Tried   []string
	Timeout time.Duration
}

func (e *ElementNotFoundError) Error() string {
	msg := fmt.Sprintf("element %s not found after %s", e.Target, e.Timeout)
	if len(e.Tried) > 0 {
		msg += fmt.Sprintf(" (tried %s)", strings.Join(e.Tried, ", "))
	}
	return msg
}

// NotInteractableError means the target resolved but cannot take the action
type NotInteractableError struct {
	Target string
	Action ActionType
	Reason string
	Err    error
}

func (e *NotInteractableError) Error() string {
	msg := fmt.Sprintf("element %s cannot %s", e.Target, e.Action)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotInteractableError) Unwrap() error {
	return e.Err
}

// NavigationTimeoutError means the expected URL never appeared
type NavigationTimeoutError struct {
	Pattern string
	LastURL string
	Timeout time.Duration
}

func (e *NavigationTimeoutError) Error() string {
	return fmt.Sprintf("url did not match %s within %s (last url %q)", e.Pattern, e.Timeout, e.LastURL)
}

// ActionTimeoutError means a composite action ran out of its budget
type ActionTimeoutError struct {
	Action  string
	Step    string
	Timeout time.Duration
	Err     error
}

func (e *ActionTimeoutError) Error() string {
	return fmt.Sprintf("action %s timed out after %s at step %s: %v", e.Action, e.Timeout, e.Step, e.Err)
}

func (e *ActionTimeoutError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an ElementNotFoundError
func IsNotFound(err error) bool {
	var nf *ElementNotFoundError
	return errors.As(err, &nf)
}
