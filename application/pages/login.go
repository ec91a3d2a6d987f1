package pages

import (
	"context"
	"regexp"

	"notes_e2e/application/interaction"
	"notes_e2e/domain/entities"
)

// LoginPage is the sign-in form
type LoginPage struct {
	Base

	email          entities.LogicalTarget
	password       entities.LogicalTarget
	loginButton    entities.LogicalTarget
	forgotPassword entities.LogicalTarget
	registerLink   entities.LogicalTarget
	googleLogin    entities.LogicalTarget
	linkedInLogin  entities.LogicalTarget
	errorMessage   entities.LogicalTarget
}

// NewLoginPage creates the login page under baseURL
func NewLoginPage(p *interaction.Primitives, baseURL string) *LoginPage {
	return &LoginPage{
		Base: NewBase(p, baseURL, PathLogin),

		email: entities.MustTarget("LoginEmail", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="login-email"]`),
			entities.ByAttr(`input#email`),
			entities.ByAttr(`input[type="email"]`),
			entities.ByRole("textbox", "Email"),
		}),
		password: entities.MustTarget("LoginPassword", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="login-password"]`),
			entities.ByAttr(`input#password`),
			entities.ByAttr(`input[type="password"]`),
		}),
		loginButton: entities.MustTarget("LoginButton", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="login-submit"]`),
			entities.ByRole("button", "Login"),
			entities.ByStructure(`form button[type="submit"]`),
		}),
		forgotPassword: entities.MustTarget("ForgotPasswordLink", []entities.LocatorCandidate{
			entities.ByAttr(`[href*="forgot-password"]`),
			entities.ByRole("link", "Forgot password"),
			entities.ByText("Forgot your password"),
		}),
		registerLink: entities.MustTarget("RegisterLink", []entities.LocatorCandidate{
			entities.ByAttr(`[href*="register"]`),
			entities.ByTextMatch(regexp.MustCompile(`(?i)create.*account|register`)),
		}),
		googleLogin: entities.MustTarget("GoogleLogin", []entities.LocatorCandidate{
			entities.ByAttr(`[href*="google"]`),
			entities.ByRole("button", "Google"),
		}),
		linkedInLogin: entities.MustTarget("LinkedInLogin", []entities.LocatorCandidate{
			entities.ByAttr(`[href*="linkedin"]`),
			entities.ByRole("button", "LinkedIn"),
		}),
		errorMessage: entities.MustTarget("LoginError", []entities.LocatorCandidate{
			entities.ByText("Incorrect email address or password"),
			entities.ByTextMatch(regexp.MustCompile(`(?i)required|invalid|incorrect`)),
			entities.ByStructure(`[class*="alert"]`),
			entities.ByAttr(`[role="alert"]`),
		}, entities.Transient()),
	}
}

// Targets returns the page's target table in display order
func (l *LoginPage) Targets() []entities.LogicalTarget {
	return []entities.LogicalTarget{
		l.email, l.password, l.loginButton, l.forgotPassword,
		l.registerLink, l.googleLogin, l.linkedInLogin, l.errorMessage,
	}
}

// EnterEmail types into the email field
func (l *LoginPage) EnterEmail(ctx context.Context, email string) error {
	return l.Fill(ctx, l.email, email)
}

// EnterPassword types into the password field
func (l *LoginPage) EnterPassword(ctx context.Context, password string) error {
	return l.Fill(ctx, l.password, password)
}

// ClickLogin submits the form
func (l *LoginPage) ClickLogin(ctx context.Context) error {
	return l.Click(ctx, l.loginButton)
}

// Login fills both fields and submits. Empty values are typed as they are so
// validation errors can be observed.
func (l *LoginPage) Login(ctx context.Context, email, password string) error {
	return l.run(ctx, "login",
		step{"enter email", fill(l.Primitives, l.email, email)},
		step{"enter password", fill(l.Primitives, l.password, password)},
		step{"click login", click(l.Primitives, l.loginButton)},
	)
}

// ClickForgotPassword follows the password reset link
func (l *LoginPage) ClickForgotPassword(ctx context.Context) error {
	return l.Click(ctx, l.forgotPassword)
}

// ClickRegisterLink follows the link to the registration form
func (l *LoginPage) ClickRegisterLink(ctx context.Context) error {
	return l.Click(ctx, l.registerLink)
}

// ClickGoogleLogin starts the Google sign-in flow
func (l *LoginPage) ClickGoogleLogin(ctx context.Context) error {
	return l.Click(ctx, l.googleLogin)
}

// ErrorMessage returns the login error text, or "" when none is shown
func (l *LoginPage) ErrorMessage(ctx context.Context) string {
	text, _ := l.ReadText(ctx, l.errorMessage, interaction.WithTimeout(l.Timeouts().Action))
	return text
}

func (l *LoginPage) IsEmailInputVisible(ctx context.Context) bool {
	return l.IsVisible(ctx, l.email)
}

func (l *LoginPage) IsPasswordInputVisible(ctx context.Context) bool {
	return l.IsVisible(ctx, l.password)
}

func (l *LoginPage) IsLoginButtonVisible(ctx context.Context) bool {
	return l.IsVisible(ctx, l.loginButton)
}

func (l *LoginPage) IsForgotPasswordLinkVisible(ctx context.Context) bool {
	return l.IsVisible(ctx, l.forgotPassword)
}

func (l *LoginPage) IsGoogleLoginVisible(ctx context.Context) bool {
	return l.IsVisible(ctx, l.googleLogin)
}

func (l *LoginPage) IsLinkedInLoginVisible(ctx context.Context) bool {
	return l.IsVisible(ctx, l.linkedInLogin)
}

// EmailInputValue returns what the email field holds, "" when absent
func (l *LoginPage) EmailInputValue(ctx context.Context) string {
	v, _ := l.InputValue(ctx, l.email)
	return v
}

// PasswordInputValue returns what the password field holds, "" when absent
func (l *LoginPage) PasswordInputValue(ctx context.Context) string {
	v, _ := l.InputValue(ctx, l.password)
	return v
}
