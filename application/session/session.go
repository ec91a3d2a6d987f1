// Package session opens browsing contexts for the suite and keeps a signed-in
// session between them so dashboard work does not log in every time.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"notes_e2e/application/interaction"
	"notes_e2e/application/pages"
	"notes_e2e/domain/entities"
	"notes_e2e/domain/interfaces"
)

// ErrNotAuthenticated means the credentials did not lead to the dashboard
var ErrNotAuthenticated = errors.New("login did not reach the dashboard")

// Tab is one open browsing context with the primitives bound to it
type Tab struct {
	*interaction.Primitives
	Driver interfaces.Driver
}

// Close tears the browsing context down
func (t *Tab) Close() error {
	return t.Driver.Close()
}

// Manager opens Tabs from a DriverFactory
type Manager struct {
	factory  interfaces.DriverFactory
	store    interfaces.SessionStore
	guard    interfaces.ActionGuard
	timeouts entities.Timeouts
	baseURL  string
	logger   logrus.FieldLogger
}

// NewManager creates a Manager. store may be nil, in which case every
// authenticated tab logs in afresh.
func NewManager(factory interfaces.DriverFactory, store interfaces.SessionStore, guard interfaces.ActionGuard, timeouts entities.Timeouts, baseURL string, logger logrus.FieldLogger) *Manager {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Manager{
		factory:  factory,
		store:    store,
		guard:    guard,
		timeouts: timeouts,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// BaseURL returns the address pages are opened under
func (m *Manager) BaseURL() string {
	return m.baseURL
}

// Open returns a signed-out tab
func (m *Manager) Open(ctx context.Context) (*Tab, error) {
	return m.open(ctx, nil)
}

func (m *Manager) open(ctx context.Context, state []byte) (*Tab, error) {
	driver, err := m.factory.NewDriver(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to open browsing context: %w", err)
	}
	return &Tab{
		Primitives: interaction.New(driver, m.guard, m.timeouts, m.logger),
		Driver:     driver,
	}, nil
}

// OpenAuthenticated returns a tab signed in as email. A stored session is
// tried first; when it no longer reaches the dashboard it is discarded and
// the tab logs in through the login form, storing the new session.
func (m *Manager) OpenAuthenticated(ctx context.Context, email, password string) (*Tab, error) {
	if tab, ok := m.resume(ctx); ok {
		return tab, nil
	}

	tab, err := m.Open(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.login(ctx, tab, email, password); err != nil {
		tab.Close()
		return nil, err
	}
	m.save(ctx, tab)
	return tab, nil
}

// resume opens a tab from the stored session if it is still signed in
func (m *Manager) resume(ctx context.Context) (*Tab, bool) {
	if m.store == nil {
		return nil, false
	}
	state, err := m.store.LoadState()
	if err != nil {
		m.logger.WithField("error", err).Warn("Failed to load stored session")
		return nil, false
	}
	if state == nil {
		return nil, false
	}

	tab, err := m.open(ctx, state)
	if err != nil {
		m.logger.WithField("error", err).Warn("Failed to open stored session")
		return nil, false
	}

	dashboard := pages.NewDashboardPage(tab.Primitives, m.baseURL)
	if err := dashboard.Open(ctx); err == nil && dashboard.IsLoggedIn(ctx) {
		m.logger.Debug("Resumed stored session")
		return tab, true
	}

	m.logger.Info("Stored session expired, logging in again")
	tab.Close()
	if err := m.store.Clear(); err != nil {
		m.logger.WithField("error", err).Warn("Failed to clear stored session")
	}
	return nil, false
}

func (m *Manager) login(ctx context.Context, tab *Tab, email, password string) error {
	login := pages.NewLoginPage(tab.Primitives, m.baseURL)
	if err := login.Open(ctx); err != nil {
		return err
	}
	if err := login.Login(ctx, email, password); err != nil {
		return fmt.Errorf("failed to log in as %s: %w", email, err)
	}

	dashboard := pages.NewDashboardPage(tab.Primitives, m.baseURL)
	if !dashboard.IsLoggedIn(ctx) {
		if msg := login.ErrorMessage(ctx); msg != "" {
			return fmt.Errorf("%w: %s", ErrNotAuthenticated, msg)
		}
		return ErrNotAuthenticated
	}
	m.logger.WithField("email", email).Info("Logged in")
	return nil
}

// save exports the tab's session when the backend supports it
func (m *Manager) save(ctx context.Context, tab *Tab) {
	exporter, ok := tab.Driver.(interfaces.StateExporter)
	if !ok || m.store == nil {
		return
	}
	state, err := exporter.ExportState(ctx)
	if err != nil {
		m.logger.WithField("error", err).Warn("Failed to export session")
		return
	}
	if err := m.store.SaveState(state); err != nil {
		m.logger.WithField("error", err).Warn("Failed to store session")
	}
}
