package browser

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"notes_e2e/domain/entities"
	"notes_e2e/domain/interfaces"
)

// SeleniumOptions configures the ChromeDriver backend
type SeleniumOptions struct {
	Headless bool
	Port     int
	// DriverPath and ChromeBinary are discovered when empty
	DriverPath   string
	ChromeBinary string
	// RequestTimeout bounds every WebDriver HTTP round trip. The selenium
	// package keeps its HTTP client in a global, so a non-zero value applies
	// process-wide to every session. Zero leaves that client untouched.
	RequestTimeout time.Duration
}

// SeleniumLauncher runs one ChromeDriver service and opens a fresh WebDriver
// session, with its own throwaway profile, per driver.
type SeleniumLauncher struct {
	service *selenium.Service
	opts    SeleniumOptions
	logger  logrus.FieldLogger

	mu      sync.Mutex
	drivers []*seleniumDriver
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// setRequestTimeout - replaces the selenium package's shared HTTP client when d
// is positive and leaves it alone otherwise
func setRequestTimeout(d time.Duration) {
	if d > 0 {
		selenium.HTTPClient = &http.Client{Timeout: d}
	}
}

// NewSeleniumLauncher - starts the ChromeDriver service
func NewSeleniumLauncher(opts SeleniumOptions, logger logrus.FieldLogger) (*SeleniumLauncher, error) {
	if opts.Port == 0 {
		opts.Port = 9515
	}

	driverPath, err := findChromeDriver(opts.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	opts.ChromeBinary = findChromeBinary(opts.ChromeBinary)
	if opts.ChromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", opts.ChromeBinary)
	}

	setRequestTimeout(opts.RequestTimeout)

	service, err := selenium.NewChromeDriverService(driverPath, opts.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	return &SeleniumLauncher{
		service: service,
		opts:    opts,
		logger:  logger,
	}, nil
}

// NewDriver - opens a new WebDriver session. Selenium cannot import a
// Playwright session, so a non-empty state is ignored with a warning.
func (l *SeleniumLauncher) NewDriver(ctx context.Context, state []byte) (interfaces.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(state) > 0 {
		l.logger.Warn("Selenium backend ignores saved browser state; the session starts logged out")
	}

	userDataDir, err := os.MkdirTemp("", "notes_e2e-chrome-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create user data directory: %w", err)
	}

	args := []string{
		"--disable-blink-features=AutomationControlled",
		"--disable-dev-shm-usage",
		"--no-sandbox",
		"--window-size=1280,720",
		fmt.Sprintf("--user-data-dir=%s", userDataDir),
	}
	if l.opts.Headless {
		args = append(args, "--headless=new")
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}
	chromeCaps := chrome.Capabilities{Args: args}
	if l.opts.ChromeBinary != "" {
		chromeCaps.Path = l.opts.ChromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", l.opts.Port))
	if err != nil {
		os.RemoveAll(userDataDir)
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	// Query must answer with what is on the page now
	if err := wd.SetImplicitWaitTimeout(0); err != nil {
		l.logger.Warnf("Failed to disable implicit wait: %v", err)
	}

	driver := &seleniumDriver{wd: wd, userDataDir: userDataDir, logger: l.logger}

	l.mu.Lock()
	l.drivers = append(l.drivers, driver)
	l.mu.Unlock()

	return driver, nil
}

// Close - quits every session and stops ChromeDriver
func (l *SeleniumLauncher) Close() error {
	l.mu.Lock()
	drivers := l.drivers
	l.drivers = nil
	l.mu.Unlock()

	for _, d := range drivers {
		d.Close()
	}
	if l.service != nil {
		if err := l.service.Stop(); err != nil {
			return fmt.Errorf("failed to stop chromedriver: %w", err)
		}
		l.service = nil
	}
	return nil
}

// seleniumDriver is one WebDriver session
type seleniumDriver struct {
	wd          selenium.WebDriver
	userDataDir string
	logger      logrus.FieldLogger
	closeOnce   sync.Once
}

// Navigate - navigates browser to specified URL
func (s *seleniumDriver) Navigate(ctx context.Context, url string, opts interfaces.NavigateOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if opts.Timeout > 0 {
		if err := s.wd.SetPageLoadTimeout(opts.Timeout); err != nil {
			s.logger.Warnf("Failed to set page load timeout: %v", err)
		}
	}
	s.logger.Debugf("Navigating to: %s", url)
	return s.wd.Get(url)
}

// Query - finds the elements matching a candidate, in document order
func (s *seleniumDriver) Query(ctx context.Context, candidate entities.LocatorCandidate) ([]interfaces.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	by, value := seleniumSelector(candidate)
	elements, err := s.wd.FindElements(by, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", candidate, err)
	}

	kept, err := filterElements(ctx, candidate, elements)
	if err != nil {
		return nil, err
	}
	nodes := make([]interfaces.Node, 0, len(kept))
	for _, elem := range kept {
		nodes = append(nodes, &seleniumNode{wd: s.wd, elem: elem})
	}
	return nodes, nil
}

// filterElements drops the elements whose text fails the candidate's filter.
// Every element costs WebDriver round trips, so ctx is checked before each one.
func filterElements(ctx context.Context, candidate entities.LocatorCandidate, elements []selenium.WebElement) ([]selenium.WebElement, error) {
	kept := make([]selenium.WebElement, 0, len(elements))
	for _, elem := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if candidate.TextFilter() != nil {
			name, err := accessibleText(candidate, elem)
			if err != nil || !candidate.MatchesText(name) {
				continue
			}
		}
		kept = append(kept, elem)
	}
	return kept, nil
}

// accessibleText returns what the candidate's text filter is compared with:
// the accessible name for roles, the rendered text otherwise
func accessibleText(candidate entities.LocatorCandidate, elem selenium.WebElement) (string, error) {
	if candidate.Strategy == entities.StrategyRole {
		if label, err := elem.GetAttribute("aria-label"); err == nil && label != "" {
			return label, nil
		}
	}
	text, err := elem.Text()
	if err != nil {
		return "", err
	}
	if text == "" && candidate.Strategy == entities.StrategyRole {
		if value, err := elem.GetAttribute("value"); err == nil {
			return value, nil
		}
	}
	return text, nil
}

// roleSelectors maps ARIA roles to the native elements that carry them implicitly
var roleSelectors = map[string]string{
	"button":   `button, [role="button"], input[type="submit"], input[type="button"], input[type="reset"]`,
	"link":     `a[href], [role="link"]`,
	"textbox":  `input:not([type]), input[type="text"], input[type="email"], input[type="password"], input[type="search"], textarea, [role="textbox"]`,
	"checkbox": `input[type="checkbox"], [role="checkbox"]`,
	"combobox": `select, [role="combobox"]`,
	"dialog":   `dialog, [role="dialog"], [role="alertdialog"]`,
	"alert":    `[role="alert"]`,
	"heading":  `h1, h2, h3, h4, h5, h6, [role="heading"]`,
}

// seleniumSelector translates a candidate into a WebDriver locator. Text
// filters are applied afterwards on the returned elements.
func seleniumSelector(c entities.LocatorCandidate) (by, value string) {
	switch c.Strategy {
	case entities.StrategyRole:
		if css, ok := roleSelectors[c.Role]; ok {
			return selenium.ByCSSSelector, css
		}
		return selenium.ByCSSSelector, fmt.Sprintf(`[role=%q]`, c.Role)
	case entities.StrategyText:
		if c.Pattern == nil && !c.Exact {
			// Elements owning a text node that contains the text, case-insensitively
			lower := strings.ToLower(c.Text)
			return selenium.ByXPATH, fmt.Sprintf(
				`//body//*[text()[contains(translate(normalize-space(.), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), %s)]]`,
				xpathLiteral(lower))
		}
		return selenium.ByXPATH, `//body//*[text()[normalize-space(.) != '']]`
	default:
		return selenium.ByCSSSelector, c.Selector
	}
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(quoted, `, "'", `) + ")"
}

// CurrentURL - returns current page URL
func (s *seleniumDriver) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.wd.CurrentURL()
}

// Title - returns current page title
func (s *seleniumDriver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.wd.Title()
}

// Screenshot - takes screenshot of current page
func (s *seleniumDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.wd.Screenshot()
}

// Close - quits the session and removes its profile
func (s *seleniumDriver) Close() error {
	s.closeOnce.Do(func() {
		if err := s.wd.Quit(); err != nil {
			s.logger.Warnf("Failed to quit webdriver: %v", err)
		}
		os.RemoveAll(s.userDataDir)
	})
	return nil
}

// seleniumNode wraps one WebElement
type seleniumNode struct {
	wd   selenium.WebDriver
	elem selenium.WebElement
}

func (n *seleniumNode) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Scroll element into view using JavaScript for better reliability
	if _, err := n.wd.ExecuteScript(`arguments[0].scrollIntoView({block: 'center'});`, []interface{}{n.elem}); err != nil {
		n.elem.MoveTo(0, 0)
	}
	return n.elem.Click()
}

func (n *seleniumNode) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.elem.Clear(); err != nil {
		return fmt.Errorf("failed to clear element: %w", err)
	}
	if value == "" {
		return nil
	}
	return n.elem.SendKeys(value)
}

func (n *seleniumNode) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.elem.Clear()
}

func (n *seleniumNode) TextContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return n.elem.Text()
}

func (n *seleniumNode) InputValue(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	result, err := n.wd.ExecuteScript(`return arguments[0].value;`, []interface{}{n.elem})
	if err != nil {
		return "", err
	}
	value, _ := result.(string)
	return value, nil
}

func (n *seleniumNode) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return n.elem.IsDisplayed()
}

func (n *seleniumNode) IsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return n.elem.IsEnabled()
}

func (n *seleniumNode) IsEditable(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	result, err := n.wd.ExecuteScript(`return !arguments[0].disabled && !arguments[0].readOnly;`, []interface{}{n.elem})
	if err != nil {
		return false, err
	}
	editable, _ := result.(bool)
	return editable, nil
}

func (n *seleniumNode) SelectOption(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	options, err := n.elem.FindElements(selenium.ByCSSSelector, "option")
	if err != nil {
		return fmt.Errorf("failed to list options: %w", err)
	}
	for _, opt := range options {
		optValue, _ := opt.GetAttribute("value")
		label, _ := opt.Text()
		if optValue == value || strings.TrimSpace(label) == value {
			return opt.Click()
		}
	}
	return fmt.Errorf("no option %q", value)
}

var (
	_ interfaces.DriverFactory = (*SeleniumLauncher)(nil)
	_ interfaces.Driver        = (*seleniumDriver)(nil)
	_ interfaces.Node          = (*seleniumNode)(nil)
)
