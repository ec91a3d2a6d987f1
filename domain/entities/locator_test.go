package entities

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorCandidate_MatchesText(t *testing.T) {
	tests := []struct {
		name      string
		candidate LocatorCandidate
		text      string
		want      bool
	}{
		{"substring ignores case", ByText("log in"), "Please LOG IN here", true},
		{"whitespace is folded", ByText("Add Note"), "  + Add \n\t Note ", true},
		{"missing text", ByText("Logout"), "Login", false},
		{"exact needs the whole string", ByRole("button", "No").ExactMatch(), "Add Note", false},
		{"exact after folding", ByRole("button", "No").ExactMatch(), "  No ", true},
		{"exact is case sensitive", ByRole("button", "No").ExactMatch(), "no", false},
		{"pattern wins over text", ByTextMatch(regexp.MustCompile(`(?i)create.*account`)), "Create an account", true},
		{"pattern miss", ByTextMatch(regexp.MustCompile(`^Register$`)), "Register now", false},
		{"no constraint matches anything", ByAttr(`[data-testid="x"]`), "whatever", true},
		{"has text narrows css", ByStructure(`[class*="note-card"]`).HasText("groceries"), "Test Groceries", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.candidate.MatchesText(tt.text))
		})
	}
}

func TestLocatorCandidate_HasTextDropsPattern(t *testing.T) {
	c := ByTextMatch(regexp.MustCompile(`x`)).HasText("y")

	assert.Nil(t, c.Pattern)
	assert.Equal(t, "y", c.TextFilter())
}

func TestLocatorCandidate_Validate(t *testing.T) {
	tests := []struct {
		name      string
		candidate LocatorCandidate
		wantErr   string
	}{
		{"attribute", ByAttr(`[data-testid="login-email"]`), ""},
		{"structural", ByStructure(`form button`), ""},
		{"role", ByRole("button", ""), ""},
		{"text", ByText("Login"), ""},
		{"text pattern", ByTextMatch(regexp.MustCompile(`.`)), ""},
		{"blank selector", ByAttr("  "), "requires a selector"},
		{"blank role", ByRole("", "Login"), "requires a role"},
		{"empty text", ByText(""), "requires text or a pattern"},
		{"unknown strategy", LocatorCandidate{Strategy: Strategy(9), Selector: "a"}, "unknown strategy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.candidate.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocatorCandidate_String(t *testing.T) {
	assert.Equal(t, `attribute:[data-testid="a"]`, ByAttr(`[data-testid="a"]`).String())
	assert.Equal(t, `role:button["Login"]`, ByRole("button", "Login").String())
	assert.Equal(t, `text:"Login"`, ByText("Login").String())
	assert.Equal(t, `text:[/^a$/]`, ByTextMatch(regexp.MustCompile(`^a$`)).String())
	assert.Equal(t, `structural:div["b"]`, ByStructure("div").HasText("b").String())
}

func TestNewTarget(t *testing.T) {
	_, err := NewTarget("Empty", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one locator candidate")

	_, err = NewTarget("", []LocatorCandidate{ByText("a")})
	require.Error(t, err)

	_, err = NewTarget("Bad", []LocatorCandidate{ByText("a"), ByAttr("")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate 1")

	target, err := NewTarget("Alert", []LocatorCandidate{ByAttr(`[role="alert"]`)}, Transient())
	require.NoError(t, err)
	assert.Equal(t, "Alert", target.Name())
	assert.Equal(t, 1, target.Len())
	assert.True(t, target.IsTransient())
	assert.False(t, target.IsZero())
	assert.True(t, LogicalTarget{}.IsZero())
}

func TestMustTarget_PanicsOnEmptyTable(t *testing.T) {
	assert.Panics(t, func() { MustTarget("Empty", []LocatorCandidate{}) })
}

func TestLogicalTarget_IsImmutable(t *testing.T) {
	table := []LocatorCandidate{ByAttr(`[data-testid="first"]`), ByText("Second")}
	target := MustTarget("Button", table)

	// Neither the construction table nor a returned copy reaches the target
	table[0] = ByText("changed")
	got := target.Candidates()
	got[1] = ByText("changed too")

	assert.Equal(t, []LocatorCandidate{ByAttr(`[data-testid="first"]`), ByText("Second")}, target.Candidates())
}
