package browser

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"notes_e2e/domain/interfaces"
)

const (
	BackendPlaywright = "playwright"
	BackendSelenium   = "selenium"
)

// Options selects and configures a backend
type Options struct {
	Backend    string
	Playwright LaunchOptions
	Selenium   SeleniumOptions
}

// NewFactory - starts the configured backend
func NewFactory(opts Options, logger logrus.FieldLogger) (interfaces.DriverFactory, error) {
	switch opts.Backend {
	case BackendPlaywright, "":
		return NewPlaywrightLauncher(opts.Playwright, logger)
	case BackendSelenium:
		return NewSeleniumLauncher(opts.Selenium, logger)
	default:
		return nil, fmt.Errorf("unknown browser backend %q", opts.Backend)
	}
}
