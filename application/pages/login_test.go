package pages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"notes_e2e/application/interaction"
	"notes_e2e/domain/entities"
	"notes_e2e/infrastructure/browser/memory"
	"notes_e2e/infrastructure/security"
)

const baseURL = "https://notes.test/notes/app"

func fastTimeouts() entities.Timeouts {
	return entities.Timeouts{
		Probe:      60 * time.Millisecond,
		Action:     150 * time.Millisecond,
		Navigation: 300 * time.Millisecond,
		Composite:  time.Second,
		Poll:       5 * time.Millisecond,
	}
}

func newPrimitives(page *memory.Page, timeouts entities.Timeouts, readOnly bool) *interaction.Primitives {
	logger, _ := test.NewNullLogger()
	return interaction.New(page, security.NewSecurityLayer(logger, readOnly), timeouts, logger)
}

// loginForm is the login page of the notes app. Submitting with both fields
// set goes to the dashboard; otherwise an alert appears and the URL stays.
func loginForm(withPassword bool) func(*memory.Page) {
	return func(p *memory.Page) {
		p.SetTitle("Notes React Application for Automation Testing Practice")
		p.Add(&memory.Element{ID: "email", Selectors: []string{`[data-testid="login-email"]`, `input[type="email"]`}})
		if withPassword {
			p.Add(&memory.Element{ID: "password", Selectors: []string{`[data-testid="login-password"]`, `input[type="password"]`}})
		}
		p.Add(
			&memory.Element{
				ID:        "login",
				Selectors: []string{`[data-testid="login-submit"]`},
				Role:      "button",
				Text:      "Login",
				OnClick: func(p *memory.Page) {
					email, _ := p.Find("email")
					password, ok := p.Find("password")
					if email.Value != "" && ok && password.Value != "" {
						p.SetURL(baseURL + PathDashboard)
						return
					}
					p.Add(&memory.Element{
						ID:        "error",
						Selectors: []string{`[class*="alert"]`},
						Role:      "alert",
						Text:      "Password is required",
					})
				},
			},
			&memory.Element{ID: "forgot", Selectors: []string{`[href*="forgot-password"]`}, Role: "link", Text: "Forgot your password?"},
			&memory.Element{ID: "register", Selectors: []string{`[href*="register"]`}, Role: "link", Text: "Create a free account!"},
			&memory.Element{ID: "google", Selectors: []string{`[href*="google"]`}, Role: "link", Text: "Login with Google"},
			&memory.Element{ID: "linkedin", Selectors: []string{`[href*="linkedin"]`}, Role: "link", Text: "Login with LinkedIn"},
		)
	}
}

func openLogin(t *testing.T, withPassword bool, timeouts entities.Timeouts) (*LoginPage, *memory.Page) {
	t.Helper()
	page := memory.NewPage().Route(baseURL+PathLogin, loginForm(withPassword))
	login := NewLoginPage(newPrimitives(page, timeouts, false), baseURL)
	require.NoError(t, login.Open(context.Background()))
	return login, page
}

func TestLogin_RunsStepsInOrder(t *testing.T) {
	login, page := openLogin(t, true, fastTimeouts())

	require.NoError(t, login.Login(context.Background(), "user@test.com", "secret123"))

	assert.Equal(t, []string{
		"navigate:" + baseURL + PathLogin,
		"fill:email=user@test.com",
		"fill:password=secret123",
		"click:login",
	}, page.Journal())
	assert.True(t, NewDashboardPage(login.Primitives, baseURL).IsAt(context.Background()))
}

func TestLogin_StopsAtFirstFailingStep(t *testing.T) {
	login, page := openLogin(t, false, fastTimeouts())

	err := login.Login(context.Background(), "user@test.com", "secret123")

	require.Error(t, err)
	assert.True(t, entities.IsNotFound(err))
	assert.Contains(t, err.Error(), "enter password")
	assert.Equal(t, []string{
		"navigate:" + baseURL + PathLogin,
		"fill:email=user@test.com",
	}, page.Journal(), "nothing after the failing step runs")
}

func TestLogin_CompositeBudgetExpires(t *testing.T) {
	timeouts := fastTimeouts()
	timeouts.Composite = 80 * time.Millisecond
	timeouts.Action = 500 * time.Millisecond
	login, page := openLogin(t, false, timeouts)

	err := login.Login(context.Background(), "user@test.com", "secret123")

	var timeout *entities.ActionTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "login", timeout.Action)
	assert.Equal(t, "enter password", timeout.Step)
	assert.Equal(t, 80*time.Millisecond, timeout.Timeout)
	assert.NotContains(t, page.Journal(), "click:login")
}

func TestLogin_CallerCancellationIsNotATimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	timeouts := fastTimeouts()
	timeouts.Action = time.Second
	login, page := openLogin(t, false, timeouts)

	ctx, cancel := context.WithCancel(context.Background())
	stop := time.AfterFunc(30*time.Millisecond, cancel)
	defer stop.Stop()

	err := login.Login(ctx, "user@test.com", "secret123")

	require.ErrorIs(t, err, context.Canceled)
	var timeout *entities.ActionTimeoutError
	assert.False(t, errors.As(err, &timeout))
	assert.NotContains(t, page.Journal(), "click:login")
}

func TestLogin_EmptyPasswordShowsErrorAndStays(t *testing.T) {
	login, _ := openLogin(t, true, fastTimeouts())
	ctx := context.Background()

	require.NoError(t, login.Login(ctx, "user@test.com", ""))

	assert.NotEmpty(t, login.ErrorMessage(ctx))
	assert.True(t, login.IsAt(ctx))
}

func TestLoginPage_VisibilityChecks(t *testing.T) {
	login, _ := openLogin(t, true, fastTimeouts())
	ctx := context.Background()

	assert.True(t, login.IsEmailInputVisible(ctx))
	assert.True(t, login.IsPasswordInputVisible(ctx))
	assert.True(t, login.IsLoginButtonVisible(ctx))
	assert.True(t, login.IsForgotPasswordLinkVisible(ctx))
	assert.True(t, login.IsGoogleLoginVisible(ctx))
	assert.True(t, login.IsLinkedInLoginVisible(ctx))
	assert.Empty(t, login.ErrorMessage(ctx), "no error before submitting")
}

func TestLoginPage_ForgivingReadsOnEmptyPage(t *testing.T) {
	defer goleak.VerifyNone(t)

	login := NewLoginPage(newPrimitives(memory.NewPage(), fastTimeouts(), false), baseURL)
	ctx := context.Background()

	assert.Empty(t, login.ErrorMessage(ctx))
	assert.Empty(t, login.AlertMessage(ctx))
	assert.Empty(t, login.EmailInputValue(ctx))
	assert.Empty(t, login.PasswordInputValue(ctx))
	assert.False(t, login.IsEmailInputVisible(ctx))
	assert.False(t, login.IsAt(ctx))
}

func TestLoginPage_InputValues(t *testing.T) {
	login, _ := openLogin(t, true, fastTimeouts())
	ctx := context.Background()

	require.NoError(t, login.EnterEmail(ctx, "user@test.com"))
	require.NoError(t, login.EnterPassword(ctx, "secret123"))

	assert.Equal(t, "user@test.com", login.EmailInputValue(ctx))
	assert.Equal(t, "secret123", login.PasswordInputValue(ctx))
}

func TestLoginPage_TargetsAreDistinct(t *testing.T) {
	p := newPrimitives(memory.NewPage(), fastTimeouts(), false)
	tables := map[string][]entities.LogicalTarget{
		"login":           NewLoginPage(p, baseURL).Targets(),
		"register":        NewRegisterPage(p, baseURL).Targets(),
		"dashboard":       NewDashboardPage(p, baseURL).Targets(),
		"forgot-password": NewForgotPasswordPage(p, baseURL).Targets(),
	}

	for page, targets := range tables {
		seen := make(map[string]bool)
		for _, target := range targets {
			assert.False(t, target.IsZero(), "%s has an unset target", page)
			assert.False(t, seen[target.Name()], "%s lists %s twice", page, target.Name())
			seen[target.Name()] = true
		}
	}
}
