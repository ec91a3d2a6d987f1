package audit

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes_e2e/application/interaction"
	"notes_e2e/application/pages"
	"notes_e2e/domain/entities"
	"notes_e2e/infrastructure/browser/memory"
	"notes_e2e/infrastructure/security"
)

const baseURL = "https://notes.test/notes/app"

func newPrimitives(page *memory.Page) *interaction.Primitives {
	logger, _ := test.NewNullLogger()
	timeouts := entities.Timeouts{
		Probe:      30 * time.Millisecond,
		Action:     60 * time.Millisecond,
		Navigation: 300 * time.Millisecond,
		Composite:  time.Second,
		Poll:       5 * time.Millisecond,
	}
	return interaction.New(page, security.NewSecurityLayer(logger, false), timeouts, logger)
}

func byTarget(info entities.PageInfo) map[string]entities.TargetStatus {
	m := make(map[string]entities.TargetStatus, len(info.Targets))
	for _, s := range info.Targets {
		m[s.Target] = s
	}
	return m
}

func TestAudit_ReportsWinningCandidates(t *testing.T) {
	page := memory.NewPage().Route(baseURL+pages.PathForgotPassword, func(p *memory.Page) {
		p.SetTitle("Forgot password")
		p.Add(
			&memory.Element{ID: "email", Selectors: []string{`input[type="email"]`}},
			&memory.Element{ID: "submit", Selectors: []string{`[data-testid="forgot-password-submit"]`}, Role: "button", Text: "Retrieve password"},
		)
	})
	prims := newPrimitives(page)

	info := NewAuditor(prims).Audit(context.Background(), "forgot-password", pages.NewForgotPasswordPage(prims, baseURL))

	require.Empty(t, info.Err)
	assert.Equal(t, baseURL+pages.PathForgotPassword, info.URL)
	assert.Equal(t, "Forgot password", info.Title)

	status := byTarget(info)
	require.Len(t, status, 3)

	email := status["ForgotPasswordEmail"]
	assert.True(t, email.Resolved)
	assert.Equal(t, 2, email.Index)
	assert.True(t, email.Fallback)
	assert.Equal(t, `attribute:input[type="email"]`, email.Candidate)

	submit := status["ForgotPasswordSubmit"]
	assert.True(t, submit.Resolved)
	assert.False(t, submit.Fallback)

	message := status["ForgotPasswordMessage"]
	assert.False(t, message.Resolved)
	assert.Equal(t, -1, message.Index)
	assert.False(t, message.Broken(), "feedback regions may be absent")

	assert.False(t, Broken([]entities.PageInfo{info}))
}

func TestAudit_MissingTargetIsBroken(t *testing.T) {
	page := memory.NewPage().Route(baseURL+pages.PathForgotPassword, func(p *memory.Page) {
		p.Add(&memory.Element{ID: "email", Selectors: []string{`[data-testid="forgot-password-email"]`}})
	})
	prims := newPrimitives(page)

	info := NewAuditor(prims).Audit(context.Background(), "forgot-password", pages.NewForgotPasswordPage(prims, baseURL))

	assert.True(t, byTarget(info)["ForgotPasswordSubmit"].Broken())
	assert.True(t, Broken([]entities.PageInfo{info}))
}

func TestAudit_RedirectedPageIsNotBroken(t *testing.T) {
	page := memory.NewPage().Route(baseURL+pages.PathDashboard, func(p *memory.Page) {
		p.SetURL(baseURL + pages.PathLogin)
	})
	prims := newPrimitives(page)

	info := NewAuditor(prims).Audit(context.Background(), "dashboard", pages.NewDashboardPage(prims, baseURL))

	assert.Contains(t, info.Err, "redirected")
	assert.Empty(t, info.Targets)
	assert.False(t, Broken([]entities.PageInfo{info}))
}

func TestAudit_LateClientRedirectIsNotBroken(t *testing.T) {
	page := memory.NewPage().Route(baseURL+pages.PathDashboard, func(p *memory.Page) {
		// The guarded page renders its shell before the router sends the visitor to login
		p.Add(&memory.Element{ID: "search", Selectors: []string{`[data-testid="search-input"]`}})
		p.SetURLAfter(baseURL+pages.PathLogin, 10*time.Millisecond)
	})
	prims := newPrimitives(page)

	info := NewAuditor(prims).Audit(context.Background(), "dashboard", pages.NewDashboardPage(prims, baseURL))

	assert.Equal(t, "redirected away from /dashboard", info.Err)
	assert.Equal(t, baseURL+pages.PathLogin, info.URL)
	assert.Empty(t, info.Targets)
	assert.False(t, Broken([]entities.PageInfo{info}))
}
