package pages

import (
	"context"

	"notes_e2e/application/interaction"
	"notes_e2e/domain/entities"
)

// ForgotPasswordPage requests a password reset email
type ForgotPasswordPage struct {
	Base

	email   entities.LogicalTarget
	submit  entities.LogicalTarget
	message entities.LogicalTarget
}

// NewForgotPasswordPage creates the forgot password page under baseURL
func NewForgotPasswordPage(p *interaction.Primitives, baseURL string) *ForgotPasswordPage {
	return &ForgotPasswordPage{
		Base: NewBase(p, baseURL, PathForgotPassword),

		email: entities.MustTarget("ForgotPasswordEmail", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="forgot-password-email"]`),
			entities.ByAttr(`input#email`),
			entities.ByAttr(`input[type="email"]`),
		}),
		submit: entities.MustTarget("ForgotPasswordSubmit", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="forgot-password-submit"]`),
			entities.ByStructure(`form button[type="submit"]`),
			entities.ByRole("button", "Retrieve password"),
		}),
		message: entities.MustTarget("ForgotPasswordMessage", []entities.LocatorCandidate{
			entities.ByAttr(`[data-testid="alert-message"]`),
			entities.ByStructure(`[class*="alert"]`),
			entities.ByAttr(`[role="alert"]`),
		}, entities.Transient()),
	}
}

// Targets returns the page's target table in display order
func (f *ForgotPasswordPage) Targets() []entities.LogicalTarget {
	return []entities.LogicalTarget{f.email, f.submit, f.message}
}

func (f *ForgotPasswordPage) EnterEmail(ctx context.Context, email string) error {
	return f.Fill(ctx, f.email, email)
}

func (f *ForgotPasswordPage) ClickSubmit(ctx context.Context) error {
	return f.Click(ctx, f.submit)
}

// RequestReset submits email for a reset link
func (f *ForgotPasswordPage) RequestReset(ctx context.Context, email string) error {
	return f.run(ctx, "request reset",
		step{"enter email", fill(f.Primitives, f.email, email)},
		step{"click submit", click(f.Primitives, f.submit)},
	)
}

func (f *ForgotPasswordPage) IsEmailInputVisible(ctx context.Context) bool {
	return f.IsVisible(ctx, f.email)
}

// Message returns the confirmation or validation text, or ""
func (f *ForgotPasswordPage) Message(ctx context.Context) string {
	text, _ := f.ReadText(ctx, f.message, interaction.WithTimeout(f.Timeouts().Action))
	return text
}
