package pages

import (
	"context"
	"regexp"

	"notes_e2e/application/interaction"
	"notes_e2e/domain/entities"
)

// RegisterPage is the account creation form
type RegisterPage struct {
	Base

	email            entities.LogicalTarget
	name             entities.LogicalTarget
	password         entities.LogicalTarget
	confirmPassword  entities.LogicalTarget
	registerButton   entities.LogicalTarget
	googleRegister   entities.LogicalTarget
	linkedInRegister entities.LogicalTarget
	loginLink        entities.LogicalTarget
	errorMessage     entities.LogicalTarget
	successMessage   entities.LogicalTarget
}

// NewRegisterPage creates the register page under baseURL
func NewRegisterPage(p *interaction.Primitives, baseURL string) *RegisterPage {
	return &RegisterPage{
		Base: NewBase(p, baseURL, PathRegister),

		email: entities.MustTarget("RegisterEmail", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="register-email"]`),
			entities.ByAttr(`input#email`),
			entities.ByAttr(`input[type="email"]`),
		}),
		name: entities.MustTarget("RegisterName", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="register-name"]`),
			entities.ByAttr(`input#name`),
			entities.ByAttr(`input[name="name"]`),
		}),
		password: entities.MustTarget("RegisterPassword", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="register-password"]`),
			entities.ByAttr(`input#password`),
		}),
		confirmPassword: entities.MustTarget("RegisterConfirmPassword", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="register-confirm-password"]`),
			entities.ByAttr(`input#confirmPassword`),
		}),
		registerButton: entities.MustTarget("RegisterButton", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="register-submit"]`),
			entities.ByRole("button", "Register"),
			entities.ByStructure(`form button[type="submit"]`),
		}),
		googleRegister: entities.MustTarget("GoogleRegister", []entities.LocatorCandidate{
			entities.ByAttr(`[href*="google"]`),
			entities.ByRole("button", "Google"),
		}),
		linkedInRegister: entities.MustTarget("LinkedInRegister", []entities.LocatorCandidate{
			entities.ByAttr(`[href*="linkedin"]`),
			entities.ByRole("button", "LinkedIn"),
		}),
		loginLink: entities.MustTarget("LoginLink", []entities.LocatorCandidate{
			entities.ByAttr(`[href*="login"]`),
			entities.ByRole("link", "Log in"),
		}),
		errorMessage: entities.MustTarget("RegisterError", []entities.LocatorCandidate{
			entities.ByText("Passwords don't match"),
			entities.ByTextMatch(regexp.MustCompile(`(?i)match|required|already|invalid`)),
			entities.ByStructure(`[class*="alert-danger"]`),
			entities.ByAttr(`[role="alert"]`),
		}, entities.Transient()),
		successMessage: entities.MustTarget("RegisterSuccess", []entities.LocatorCandidate{
			entities.ByText("User account created successfully"),
			entities.ByStructure(`[class*="alert-success"]`),
			entities.ByAttr(`[role="status"]`),
		}, entities.Transient()),
	}
}

// Targets returns the page's target table in display order
func (r *RegisterPage) Targets() []entities.LogicalTarget {
	return []entities.LogicalTarget{
		r.email, r.name, r.password, r.confirmPassword, r.registerButton,
		r.googleRegister, r.linkedInRegister, r.loginLink,
		r.errorMessage, r.successMessage,
	}
}

func (r *RegisterPage) EnterEmail(ctx context.Context, email string) error {
	return r.Fill(ctx, r.email, email)
}

func (r *RegisterPage) EnterName(ctx context.Context, name string) error {
	return r.Fill(ctx, r.name, name)
}

func (r *RegisterPage) EnterPassword(ctx context.Context, password string) error {
	return r.Fill(ctx, r.password, password)
}

func (r *RegisterPage) EnterConfirmPassword(ctx context.Context, password string) error {
	return r.Fill(ctx, r.confirmPassword, password)
}

// ClickRegister submits the form
func (r *RegisterPage) ClickRegister(ctx context.Context) error {
	return r.Click(ctx, r.registerButton)
}

// Register fills the form and submits it. An empty confirm repeats password.
func (r *RegisterPage) Register(ctx context.Context, email, name, password, confirm string) error {
	if confirm == "" {
		confirm = password
	}
	return r.run(ctx, "register",
		step{"enter email", fill(r.Primitives, r.email, email)},
		step{"enter name", fill(r.Primitives, r.name, name)},
		step{"enter password", fill(r.Primitives, r.password, password)},
		step{"enter confirm password", fill(r.Primitives, r.confirmPassword, confirm)},
		step{"click register", click(r.Primitives, r.registerButton)},
	)
}

// ClickLoginLink follows the link back to the login form
func (r *RegisterPage) ClickLoginLink(ctx context.Context) error {
	return r.Click(ctx, r.loginLink)
}

// ErrorMessage returns the validation error text, or "" when none is shown
func (r *RegisterPage) ErrorMessage(ctx context.Context) string {
	text, _ := r.ReadText(ctx, r.errorMessage, interaction.WithTimeout(r.Timeouts().Action))
	return text
}

// SuccessMessage returns the confirmation text, or "" when none is shown
func (r *RegisterPage) SuccessMessage(ctx context.Context) string {
	text, _ := r.ReadText(ctx, r.successMessage, interaction.WithTimeout(r.Timeouts().Action))
	return text
}

func (r *RegisterPage) IsEmailInputVisible(ctx context.Context) bool {
	return r.IsVisible(ctx, r.email)
}

func (r *RegisterPage) IsNameInputVisible(ctx context.Context) bool {
	return r.IsVisible(ctx, r.name)
}

func (r *RegisterPage) IsPasswordInputVisible(ctx context.Context) bool {
	return r.IsVisible(ctx, r.password)
}

func (r *RegisterPage) IsConfirmPasswordInputVisible(ctx context.Context) bool {
	return r.IsVisible(ctx, r.confirmPassword)
}

func (r *RegisterPage) IsRegisterButtonVisible(ctx context.Context) bool {
	return r.IsVisible(ctx, r.registerButton)
}

func (r *RegisterPage) IsGoogleRegisterVisible(ctx context.Context) bool {
	return r.IsVisible(ctx, r.googleRegister)
}

func (r *RegisterPage) IsLinkedInRegisterVisible(ctx context.Context) bool {
	return r.IsVisible(ctx, r.linkedInRegister)
}

// EmailInputValue returns what the email field holds, "" when absent
func (r *RegisterPage) EmailInputValue(ctx context.Context) string {
	v, _ := r.InputValue(ctx, r.email)
	return v
}

// NameInputValue returns what the name field holds, "" when absent
func (r *RegisterPage) NameInputValue(ctx context.Context) string {
	v, _ := r.InputValue(ctx, r.name)
	return v
}

func (r *RegisterPage) ClearEmailField(ctx context.Context) error {
	return r.Clear(ctx, r.email)
}

func (r *RegisterPage) ClearNameField(ctx context.Context) error {
	return r.Clear(ctx, r.name)
}

func (r *RegisterPage) ClearPasswordField(ctx context.Context) error {
	return r.Clear(ctx, r.password)
}

func (r *RegisterPage) ClearConfirmPasswordField(ctx context.Context) error {
	return r.Clear(ctx, r.confirmPassword)
}
