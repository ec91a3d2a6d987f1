// Package config gathers every setting of the suite from the environment
// (optionally seeded from a .env file), applies defaults and validates them.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"notes_e2e/domain/entities"
	"notes_e2e/infrastructure/browser"
	"notes_e2e/infrastructure/storage"
)

const DefaultBaseURL = "https://practice.expandtesting.com/notes/app"

// Config holds all suite configuration.
type Config struct {
	// System under test
	BaseURL  string
	Email    string
	Password string

	// Browser
	Backend      string
	Headless     bool
	SlowMo       time.Duration
	DriverPath   string // BROWSER_DRIVER_PATH, selenium only
	ChromeBinary string // CHROME_BINARY_PATH, selenium only
	SeleniumPort int

	Timeouts entities.Timeouts

	// Session reuse and safety
	StatePath string
	ReadOnly  bool

	// Live scenarios run only when set
	Live bool

	LogLevel  string
	LogFormat string
}

// ValidationError lists every configuration problem found at once.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// FromEnvironment loads .env when present and reads the process environment.
func FromEnvironment() (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()
	return Load(os.Getenv)
}

// Load reads configuration through getenv and validates it.
func Load(getenv func(string) string) (*Config, error) {
	env := reader{getenv: getenv}
	defaults := entities.DefaultTimeouts()

	cfg := &Config{
		BaseURL:      strings.TrimRight(env.string("NOTES_E2E_BASE_URL", DefaultBaseURL), "/"),
		Email:        env.string("NOTES_E2E_EMAIL", ""),
		Password:     env.raw("NOTES_E2E_PASSWORD"),
		Backend:      strings.ToLower(env.string("NOTES_E2E_BACKEND", browser.BackendPlaywright)),
		Headless:     env.bool("NOTES_E2E_HEADLESS", true),
		SlowMo:       env.duration("NOTES_E2E_SLOW_MO", 0),
		DriverPath:   env.string("BROWSER_DRIVER_PATH", ""),
		ChromeBinary: env.string("CHROME_BINARY_PATH", ""),
		SeleniumPort: env.int("NOTES_E2E_SELENIUM_PORT", 9515),
		Timeouts: entities.Timeouts{
			Probe:      env.duration("NOTES_E2E_PROBE_TIMEOUT", defaults.Probe),
			Action:     env.duration("NOTES_E2E_ACTION_TIMEOUT", defaults.Action),
			Navigation: env.duration("NOTES_E2E_NAVIGATION_TIMEOUT", defaults.Navigation),
			Composite:  env.duration("NOTES_E2E_COMPOSITE_TIMEOUT", defaults.Composite),
			Poll:       env.duration("NOTES_E2E_POLL_INTERVAL", defaults.Poll),
		},
		StatePath: env.string("NOTES_E2E_STATE_PATH", storage.DefaultStatePath()),
		ReadOnly:  env.bool("NOTES_E2E_READ_ONLY", false),
		Live:      env.bool("NOTES_E2E_LIVE", false),
		LogLevel:  strings.ToLower(env.string("NOTES_E2E_LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(env.string("NOTES_E2E_LOG_FORMAT", "text")),
	}

	errs := env.errs
	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return cfg, nil
}

func (c *Config) validate() []string {
	var errs []string

	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("NOTES_E2E_BASE_URL must be an absolute URL, got %q", c.BaseURL))
	}

	switch c.Backend {
	case browser.BackendPlaywright, browser.BackendSelenium:
	default:
		errs = append(errs, fmt.Sprintf("NOTES_E2E_BACKEND must be %q or %q, got %q", browser.BackendPlaywright, browser.BackendSelenium, c.Backend))
	}

	if err := c.Timeouts.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if (c.Email == "") != (c.Password == "") {
		errs = append(errs, "NOTES_E2E_EMAIL and NOTES_E2E_PASSWORD must be set together")
	}

	if c.SeleniumPort <= 0 || c.SeleniumPort > 65535 {
		errs = append(errs, fmt.Sprintf("NOTES_E2E_SELENIUM_PORT out of range: %d", c.SeleniumPort))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("NOTES_E2E_LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	return errs
}

// HasCredentials reports whether an existing account is configured
func (c *Config) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}

// BrowserOptions returns the backend settings for browser.NewFactory
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Backend: c.Backend,
		Playwright: browser.LaunchOptions{
			Headless:       c.Headless,
			SlowMo:         c.SlowMo,
			DefaultTimeout: c.Timeouts.Navigation,
		},
		Selenium: browser.SeleniumOptions{
			Headless:       c.Headless,
			Port:           c.SeleniumPort,
			DriverPath:     c.DriverPath,
			ChromeBinary:   c.ChromeBinary,
			RequestTimeout: c.Timeouts.Navigation,
		},
	}
}

// reader parses variables and collects parse failures instead of stopping at the first one
type reader struct {
	getenv func(string) string
	errs   []string
}

// raw returns the value exactly as set, for secrets where spaces are significant
func (r *reader) raw(key string) string {
	return r.getenv(key)
}

func (r *reader) string(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) bool(key string, def bool) bool {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s must be a boolean, got %q", key, v))
		return def
	}
	return b
}

func (r *reader) int(key string, def int) int {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s must be an integer, got %q", key, v))
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s must be a duration such as 1.5s, got %q", key, v))
		return def
	}
	return d
}
