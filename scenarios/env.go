// Package scenarios holds the live end-to-end scenarios against the hosted
// notes application. They run only with NOTES_E2E_LIVE=true and never in
// -short mode. All scenarios share one browser; each gets its own context
// via SetupEnv(t).
package scenarios

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"notes_e2e/application/pages"
	"notes_e2e/application/session"
	"notes_e2e/domain/interfaces"
	"notes_e2e/infrastructure/browser"
	"notes_e2e/infrastructure/config"
	"notes_e2e/infrastructure/logging"
	"notes_e2e/infrastructure/security"
	"notes_e2e/infrastructure/storage"
)

// scenarioTimeout bounds one scenario from its first navigation to its last assertion
const scenarioTimeout = 3 * time.Minute

var (
	sharedMu      sync.Mutex
	sharedEnv     *Env
	sharedFactory interfaces.DriverFactory
)

// Env is what a scenario needs: configuration and a way to open browsing contexts
type Env struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Sessions *session.Manager

	artifactDir string
}

// SetupEnv returns the shared environment, starting the browser on first use.
// It skips the test when live scenarios are disabled.
func SetupEnv(t *testing.T) *Env {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping live scenario in short mode")
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedEnv != nil {
		return sharedEnv
	}

	cfg, err := config.FromEnvironment()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.Live {
		t.Skip("live scenarios are disabled; set NOTES_E2E_LIVE=true")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	factory, err := browser.NewFactory(cfg.BrowserOptions(), logger)
	if err != nil {
		t.Fatalf("Failed to start browser: %v", err)
	}

	artifactDir := os.Getenv("NOTES_E2E_ARTIFACT_DIR")
	if artifactDir == "" {
		artifactDir = filepath.Join(os.TempDir(), "notes_e2e")
	}

	sharedFactory = factory
	sharedEnv = &Env{
		Config: cfg,
		Logger: logger,
		Sessions: session.NewManager(
			factory,
			storage.NewBrowserState(cfg.StatePath),
			security.NewSecurityLayer(logger, cfg.ReadOnly),
			cfg.Timeouts,
			cfg.BaseURL,
			logger,
		),
		artifactDir: artifactDir,
	}
	return sharedEnv
}

// teardown releases the shared browser. TestMain calls it after all scenarios.
func teardown() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedFactory != nil {
		sharedFactory.Close()
		sharedFactory = nil
	}
	sharedEnv = nil
}

// Context returns the scenario's context, cancelled when the test ends
func (e *Env) Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), scenarioTimeout)
	t.Cleanup(cancel)
	return ctx
}

// Tab opens a signed-out browsing context that closes when the test ends
func (e *Env) Tab(t *testing.T, ctx context.Context) *session.Tab {
	t.Helper()
	tab, err := e.Sessions.Open(ctx)
	if err != nil {
		t.Fatalf("Failed to open browsing context: %v", err)
	}
	e.track(t, tab)
	return tab
}

// AuthenticatedTab opens a context signed in as the configured account. It
// skips the test when no account is configured.
func (e *Env) AuthenticatedTab(t *testing.T, ctx context.Context) *session.Tab {
	t.Helper()
	if !e.Config.HasCredentials() {
		t.Skip("no account configured; set NOTES_E2E_EMAIL and NOTES_E2E_PASSWORD")
	}
	tab, err := e.Sessions.OpenAuthenticated(ctx, e.Config.Email, e.Config.Password)
	if err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	e.track(t, tab)
	return tab
}

// track closes tab at the end of the test, saving a screenshot first when the test failed
func (e *Env) track(t *testing.T, tab *session.Tab) {
	t.Cleanup(func() {
		if t.Failed() {
			e.screenshot(t, tab)
		}
		if err := tab.Close(); err != nil {
			t.Logf("Failed to close browsing context: %v", err)
		}
	})
}

func (e *Env) screenshot(t *testing.T, tab *session.Tab) {
	ctx, cancel := context.WithTimeout(context.Background(), e.Config.Timeouts.Action)
	defer cancel()

	data, err := tab.Screenshot(ctx)
	if err != nil {
		t.Logf("Failed to take screenshot: %v", err)
		return
	}
	if err := os.MkdirAll(e.artifactDir, 0o755); err != nil {
		t.Logf("Failed to create artifact directory: %v", err)
		return
	}
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + ".png"
	path := filepath.Join(e.artifactDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Logf("Failed to save screenshot: %v", err)
		return
	}
	t.Logf("Screenshot saved to %s", path)
}

func (e *Env) Login(tab *session.Tab) *pages.LoginPage {
	return pages.NewLoginPage(tab.Primitives, e.Config.BaseURL)
}

func (e *Env) Register(tab *session.Tab) *pages.RegisterPage {
	return pages.NewRegisterPage(tab.Primitives, e.Config.BaseURL)
}

func (e *Env) Dashboard(tab *session.Tab) *pages.DashboardPage {
	return pages.NewDashboardPage(tab.Primitives, e.Config.BaseURL)
}

func (e *Env) ForgotPassword(tab *session.Tab) *pages.ForgotPasswordPage {
	return pages.NewForgotPasswordPage(tab.Primitives, e.Config.BaseURL)
}

// UniqueEmail returns an address no earlier run has registered
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@test.com", prefix, uuid.NewString()[:12])
}

// UniqueTitle returns a note title that identifies the run
func UniqueTitle(prefix string) string {
	return fmt.Sprintf("%s %s", prefix, uuid.NewString()[:8])
}
