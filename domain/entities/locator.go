package entities

import (
	"fmt"
	"regexp"
	"strings"
)

// Strategy is the way a LocatorCandidate finds nodes in the DOM
type Strategy int

const (
	// StrategyAttribute matches a CSS selector built on stable attributes (data-testid, href, name)
	StrategyAttribute Strategy = iota
	// StrategyRole matches an ARIA role with an accessible name
	StrategyRole
	// StrategyText matches visible text, literally or by regular expression
	StrategyText
	// StrategyStructural matches a CSS selector built on layout or class names
	StrategyStructural
)

func (s Strategy) String() string {
	switch s {
	case StrategyAttribute:
		return "attribute"
	case StrategyRole:
		return "role"
	case StrategyText:
		return "text"
	case StrategyStructural:
		return "structural"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// LocatorCandidate is one concrete way of finding a LogicalTarget.
// It is a value: copying it is safe and it never changes after construction.
type LocatorCandidate struct {
	Strategy Strategy

	// Selector is the CSS selector for attribute and structural candidates
	Selector string

	// Role is the ARIA role for role candidates
	Role string

	// Text is the accessible name (role), the visible text (text) or a
	// contained-text filter (attribute, structural)
	Text string

	// Pattern replaces Text when the match is a regular expression
	Pattern *regexp.Regexp

	// Exact turns substring, case-insensitive text matching into whole-string matching
	Exact bool
}

// ByAttr locates nodes by a CSS selector on stable attributes
func ByAttr(selector string) LocatorCandidate {
	return LocatorCandidate{Strategy: StrategyAttribute, Selector: selector}
}

// ByRole locates nodes by ARIA role and accessible name
func ByRole(role, name string) LocatorCandidate {
	return LocatorCandidate{Strategy: StrategyRole, Role: role, Text: name}
}

// ByText locates nodes by their visible text
func ByText(text string) LocatorCandidate {
	return LocatorCandidate{Strategy: StrategyText, Text: text}
}

// ByTextMatch locates nodes whose visible text matches re
func ByTextMatch(re *regexp.Regexp) LocatorCandidate {
	return LocatorCandidate{Strategy: StrategyText, Pattern: re}
}

// ByStructure locates nodes by a structural CSS selector
func ByStructure(selector string) LocatorCandidate {
	return LocatorCandidate{Strategy: StrategyStructural, Selector: selector}
}

// HasText narrows a CSS candidate to nodes containing text
func (c LocatorCandidate) HasText(text string) LocatorCandidate {
	c.Text = text
	c.Pattern = nil
	return c
}

// ExactMatch returns a copy that requires whole-string text matching
func (c LocatorCandidate) ExactMatch() LocatorCandidate {
	c.Exact = true
	return c
}

// TextFilter returns the text constraint as the driver should apply it: a
// *regexp.Regexp, a string, or nil when there is none.
func (c LocatorCandidate) TextFilter() any {
	if c.Pattern != nil {
		return c.Pattern
	}
	if c.Text != "" {
		return c.Text
	}
	return nil
}

// MatchesText applies the candidate's text constraint to s the way browser
// engines do: trimmed, case-insensitive substring unless Exact.
func (c LocatorCandidate) MatchesText(s string) bool {
	s = strings.Join(strings.Fields(s), " ")
	if c.Pattern != nil {
		return c.Pattern.MatchString(s)
	}
	if c.Text == "" {
		return true
	}
	if c.Exact {
		return s == c.Text
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(c.Text))
}

// Validate reports whether the candidate carries the pattern its strategy needs
func (c LocatorCandidate) Validate() error {
	switch c.Strategy {
	case StrategyAttribute, StrategyStructural:
		if strings.TrimSpace(c.Selector) == "" {
			return fmt.Errorf("%s candidate requires a selector", c.Strategy)
		}
	case StrategyRole:
		if strings.TrimSpace(c.Role) == "" {
			return fmt.Errorf("role candidate requires a role")
		}
	case StrategyText:
		if c.Text == "" && c.Pattern == nil {
			return fmt.Errorf("text candidate requires text or a pattern")
		}
	default:
		return fmt.Errorf("unknown strategy %d", int(c.Strategy))
	}
	return nil
}

func (c LocatorCandidate) String() string {
	var b strings.Builder
	b.WriteString(c.Strategy.String())
	b.WriteString(":")
	switch c.Strategy {
	case StrategyRole:
		b.WriteString(c.Role)
	case StrategyText:
	default:
		b.WriteString(c.Selector)
	}
	switch {
	case c.Pattern != nil:
		fmt.Fprintf(&b, "[/%s/]", c.Pattern.String())
	case c.Text != "" && c.Strategy == StrategyText:
		fmt.Fprintf(&b, "%q", c.Text)
	case c.Text != "":
		fmt.Fprintf(&b, "[%q]", c.Text)
	}
	return b.String()
}
