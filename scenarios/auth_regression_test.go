package scenarios

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes_e2e/application/pages"
)

func TestAuthRegression_1_1_RegisterWithExistingEmail(t *testing.T) {
	e := SetupEnv(t)
	if !e.Config.HasCredentials() {
		t.Skip("needs a registered account; set NOTES_E2E_EMAIL and NOTES_E2E_PASSWORD")
	}
	ctx := e.Context(t)
	_, register := openRegister(t, e, ctx)

	require.NoError(t, register.Register(ctx, e.Config.Email, "Existing User", validPassword, ""))

	msg := register.ErrorMessage(ctx)
	require.NotEmpty(t, msg, "no error for an already registered email")
	assert.Contains(t, strings.ToLower(msg), "already")
	stays(t, ctx, register, pages.PathRegister)
}

func TestAuthRegression_1_2_RegisterWithInvalidEmailFormat(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, register := openRegister(t, e, ctx)

	require.NoError(t, register.Register(ctx, "invalidemail", "Test User", validPassword, ""))

	stays(t, ctx, register, pages.PathRegister)
	assert.Equal(t, "invalidemail", register.EmailInputValue(ctx))
}

func TestAuthRegression_1_3_RegisterWithWeakPassword(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, register := openRegister(t, e, ctx)

	require.NoError(t, register.Register(ctx, UniqueEmail("weak"), "Test User", "123", ""))

	assert.NotEmpty(t, register.ErrorMessage(ctx), "no error for a three character password")
	stays(t, ctx, register, pages.PathRegister)
}

func TestAuthRegression_1_4_RegisterPreservesFieldsOnError(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, register := openRegister(t, e, ctx)

	email := UniqueEmail("preserve")
	name := "Test User"
	require.NoError(t, register.Register(ctx, email, name, "Password123!@", "DifferentPassword123!@"))
	require.NotEmpty(t, register.ErrorMessage(ctx))

	assert.Equal(t, email, register.EmailInputValue(ctx))
	assert.Equal(t, name, register.NameInputValue(ctx))
}

func TestAuthRegression_1_5_RegisterWithSpecialCharactersInName(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	tab, register := openRegister(t, e, ctx)

	require.NoError(t, register.Register(ctx, UniqueEmail("special"), "John O'Brien-Smith", validPassword, ""))

	// Accepted or rejected, the application has to say which
	login := e.Login(tab)
	require.Eventually(t, func() bool {
		return login.IsAt(ctx) || register.SuccessMessage(ctx) != "" || register.ErrorMessage(ctx) != ""
	}, settle, 250*time.Millisecond, "no feedback after registering")
}

func TestAuthRegression_1_6_LoginWithEmptyEmail(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, login := openLogin(t, e, ctx)

	require.NoError(t, login.EnterPassword(ctx, validPassword))
	require.NoError(t, login.ClickLogin(ctx))

	assert.NotEmpty(t, login.ErrorMessage(ctx))
	stays(t, ctx, login, pages.PathLogin)
}

func TestAuthRegression_1_7_LoginWithEmptyPassword(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, login := openLogin(t, e, ctx)

	require.NoError(t, login.Login(ctx, "user@test.com", ""))

	assert.NotEmpty(t, login.ErrorMessage(ctx))
	stays(t, ctx, login, pages.PathLogin)
}

func TestAuthRegression_1_8_LoginKeepsEmailOnError(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, login := openLogin(t, e, ctx)

	email := UniqueEmail("persist")
	require.NoError(t, login.Login(ctx, email, "WrongPassword123!@"))
	require.NotEmpty(t, login.ErrorMessage(ctx))

	assert.Equal(t, email, login.EmailInputValue(ctx))
}

func TestAuthRegression_1_9_LoginWithVeryLongEmail(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, login := openLogin(t, e, ctx)

	long := "verylongemailaddress123456789@verylongsubdomain123.verylongmaindomain.com"
	require.NoError(t, login.Login(ctx, long, validPassword))

	assert.NotEmpty(t, login.ErrorMessage(ctx))
	stays(t, ctx, login, pages.PathLogin)
}

func TestAuthRegression_1_10_LoginSubmissionSettles(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	tab, login := openLogin(t, e, ctx)

	require.NoError(t, login.Login(ctx, "test@test.com", validPassword))

	// A submission must end either signed in or with an error, never spinning
	dashboard := e.Dashboard(tab)
	require.Eventually(t, func() bool {
		return login.ErrorMessage(ctx) != "" || dashboard.IsAt(ctx)
	}, settle, 250*time.Millisecond, "login submission never settled")
}

func TestAuthRegression_1_11_NavigateFromLoginToRegister(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	tab, login := openLogin(t, e, ctx)

	require.NoError(t, login.ClickRegisterLink(ctx))
	assert.NoError(t, e.Register(tab).WaitUntilAt(ctx))
}

func TestAuthRegression_1_12_NavigateFromRegisterToLogin(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	tab, register := openRegister(t, e, ctx)

	require.NoError(t, register.ClickLoginLink(ctx))
	assert.NoError(t, e.Login(tab).WaitUntilAt(ctx))
}

func TestAuthRegression_1_13_ForgotPasswordLink(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	tab, login := openLogin(t, e, ctx)

	require.True(t, login.IsForgotPasswordLinkVisible(ctx))
	require.NoError(t, login.ClickForgotPassword(ctx))

	forgot := e.ForgotPassword(tab)
	require.NoError(t, forgot.WaitUntilAt(ctx))
	assert.True(t, forgot.IsEmailInputVisible(ctx))
}

func TestAuthRegression_1_14_SocialLoginButtonsVisible(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, login := openLogin(t, e, ctx)

	assert.True(t, login.IsGoogleLoginVisible(ctx), "google")
	assert.True(t, login.IsLinkedInLoginVisible(ctx), "linkedin")
}

func TestAuthRegression_1_15_SocialRegisterButtonsVisible(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, register := openRegister(t, e, ctx)

	assert.True(t, register.IsGoogleRegisterVisible(ctx), "google")
	assert.True(t, register.IsLinkedInRegisterVisible(ctx), "linkedin")
}

func TestAuthRegression_1_16_RegisterRejectsEmailWithoutAt(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, register := openRegister(t, e, ctx)

	require.NoError(t, register.Register(ctx, "testexample.com", "Test User", validPassword, ""))

	stays(t, ctx, register, pages.PathRegister)
	assert.Empty(t, register.SuccessMessage(ctx))
}

func TestAuthRegression_1_17_RegisterRejectsEmailWithSpaces(t *testing.T) {
	e := SetupEnv(t)
	ctx := e.Context(t)
	_, register := openRegister(t, e, ctx)

	require.NoError(t, register.Register(ctx, "test user@example.com", "Test User", validPassword, ""))

	stays(t, ctx, register, pages.PathRegister)
	assert.Empty(t, register.SuccessMessage(ctx))
}
