package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"notes_e2e/domain/interfaces"
)

// LaunchOptions configures the browser behind a launcher
type LaunchOptions struct {
	Headless bool
	SlowMo   time.Duration
	// DefaultTimeout caps every Playwright call that is made without a context deadline
	DefaultTimeout time.Duration
}

// PlaywrightLauncher owns one Chromium process and opens an isolated
// browser context per driver.
type PlaywrightLauncher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    LaunchOptions
	logger  logrus.FieldLogger

	mu      sync.Mutex
	drivers []*playwrightDriver
}

// NewPlaywrightLauncher - starts Playwright and launches Chromium
func NewPlaywrightLauncher(opts LaunchOptions, logger logrus.FieldLogger) (*PlaywrightLauncher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-infobars",
			"--disable-notifications",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"headless": opts.Headless,
		"slow_mo":  opts.SlowMo,
	}).Info("Chromium launched")

	return &PlaywrightLauncher{
		pw:      pw,
		browser: browser,
		opts:    opts,
		logger:  logger,
	}, nil
}

// NewDriver - opens a fresh browser context with one page. A non-empty state
// is a session previously returned by ExportState.
func (l *PlaywrightLauncher) NewDriver(ctx context.Context, state []byte) (interfaces.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
	}

	if len(state) > 0 {
		var storageState playwright.StorageState
		if err := json.Unmarshal(state, &storageState); err != nil {
			return nil, fmt.Errorf("failed to decode browser state: %w", err)
		}
		contextOptions.StorageState = storageState.ToOptionalStorageState()
	}

	browserContext, err := l.browser.NewContext(contextOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	if l.opts.DefaultTimeout > 0 {
		page.SetDefaultTimeout(float64(l.opts.DefaultTimeout.Milliseconds()))
	}

	// Native confirm() dialogs would block every later call on the page
	page.OnDialog(func(dialog playwright.Dialog) {
		l.logger.WithField("message", dialog.Message()).Debug("Accepting dialog")
		dialog.Accept()
	})

	driver := &playwrightDriver{
		context: browserContext,
		page:    page,
		logger:  l.logger,
	}

	l.mu.Lock()
	l.drivers = append(l.drivers, driver)
	l.mu.Unlock()

	return driver, nil
}

// Close - closes every open context, the browser, and Playwright itself
func (l *PlaywrightLauncher) Close() error {
	l.mu.Lock()
	drivers := l.drivers
	l.drivers = nil
	l.mu.Unlock()

	var closeErr error
	for _, d := range drivers {
		if err := d.Close(); err != nil {
			closeErr = joinCloseErr(closeErr, err)
		}
	}

	if l.browser != nil {
		if err := l.browser.Close(); err != nil && !isClosedErr(err) {
			closeErr = joinCloseErr(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		l.browser = nil
	}

	if l.pw != nil {
		if err := l.pw.Stop(); err != nil {
			closeErr = joinCloseErr(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		l.pw = nil
	}

	return closeErr
}

func joinCloseErr(prev, err error) error {
	if prev == nil {
		return err
	}
	return fmt.Errorf("%v; %w", prev, err)
}

// isClosedErr reports whether err only says the target was already gone
func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

// timeoutMS converts what is left of ctx into a Playwright timeout. Without a
// deadline it returns nil and the page default applies.
func timeoutMS(ctx context.Context) *float64 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	ms := float64(time.Until(deadline).Milliseconds())
	if ms < 1 {
		ms = 1
	}
	return playwright.Float(ms)
}

var _ interfaces.DriverFactory = (*PlaywrightLauncher)(nil)
