package pages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes_e2e/infrastructure/browser/memory"
)

func registerForm(p *memory.Page) {
	field := func(id, testID string) *memory.Element {
		return &memory.Element{ID: id, Selectors: []string{`[data-testid="` + testID + `"]`}}
	}
	p.Add(
		field("email", "register-email"),
		field("name", "register-name"),
		field("password", "register-password"),
		field("confirm", "register-confirm-password"),
		&memory.Element{
			ID:        "register",
			Selectors: []string{`[data-testid="register-submit"]`},
			Role:      "button",
			Text:      "Register",
			OnClick: func(p *memory.Page) {
				password, _ := p.Find("password")
				confirm, _ := p.Find("confirm")
				if password.Value != confirm.Value {
					p.Add(&memory.Element{ID: "error", Selectors: []string{`[class*="alert-danger"]`}, Text: "Passwords don't match!"})
					return
				}
				p.Add(&memory.Element{ID: "success", Selectors: []string{`[class*="alert-success"]`}, Text: "User account created successfully"})
			},
		},
		&memory.Element{ID: "login-link", Selectors: []string{`[href*="login"]`}, Role: "link", Text: "Log in here!"},
	)
}

func openRegister(t *testing.T) (*RegisterPage, *memory.Page) {
	t.Helper()
	page := memory.NewPage().Route(baseURL+PathRegister, registerForm)
	register := NewRegisterPage(newPrimitives(page, fastTimeouts(), false), baseURL)
	require.NoError(t, register.Open(context.Background()))
	return register, page
}

func TestRegister_MismatchedPasswordsShowError(t *testing.T) {
	register, _ := openRegister(t)
	ctx := context.Background()

	require.NoError(t, register.Register(ctx, "new@test.com", "New User", "Password123", "Different456"))

	assert.Contains(t, register.ErrorMessage(ctx), "match")
	assert.Empty(t, register.SuccessMessage(ctx))
}

func TestRegister_EmptyConfirmRepeatsPassword(t *testing.T) {
	register, page := openRegister(t)
	ctx := context.Background()

	require.NoError(t, register.Register(ctx, "new@test.com", "New User", "Password123", ""))

	assert.Equal(t, []string{
		"navigate:" + baseURL + PathRegister,
		"fill:email=new@test.com",
		"fill:name=New User",
		"fill:password=Password123",
		"fill:confirm=Password123",
		"click:register",
	}, page.Journal())
	assert.Equal(t, "User account created successfully", register.SuccessMessage(ctx))
}

func TestRegister_ClearFields(t *testing.T) {
	register, _ := openRegister(t)
	ctx := context.Background()

	require.NoError(t, register.EnterEmail(ctx, "new@test.com"))
	require.NoError(t, register.EnterName(ctx, "New User"))
	require.Equal(t, "new@test.com", register.EmailInputValue(ctx))

	require.NoError(t, register.ClearEmailField(ctx))
	require.NoError(t, register.ClearNameField(ctx))
	require.NoError(t, register.ClearPasswordField(ctx))
	require.NoError(t, register.ClearConfirmPasswordField(ctx))

	assert.Empty(t, register.EmailInputValue(ctx))
	assert.Empty(t, register.NameInputValue(ctx))
}

func TestRegisterPage_VisibilityChecks(t *testing.T) {
	register, _ := openRegister(t)
	ctx := context.Background()

	assert.True(t, register.IsEmailInputVisible(ctx))
	assert.True(t, register.IsNameInputVisible(ctx))
	assert.True(t, register.IsPasswordInputVisible(ctx))
	assert.True(t, register.IsConfirmPasswordInputVisible(ctx))
	assert.True(t, register.IsRegisterButtonVisible(ctx))
	assert.False(t, register.IsGoogleRegisterVisible(ctx))
	assert.False(t, register.IsLinkedInRegisterVisible(ctx))
}

func TestRegister_LoginLink(t *testing.T) {
	register, page := openRegister(t)

	require.NoError(t, register.ClickLoginLink(context.Background()))

	assert.Contains(t, page.Journal(), "click:login-link")
}
