package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"notes_e2e/domain/entities"
	"notes_e2e/domain/interfaces"
)

// playwrightDriver is one Playwright browser context with a single page
type playwrightDriver struct {
	context playwright.BrowserContext
	page    playwright.Page
	logger  logrus.FieldLogger

	closeOnce sync.Once
	closeErr  error
}

func waitUntil(w interfaces.WaitUntil) *playwright.WaitUntilState {
	switch w {
	case interfaces.WaitUntilLoad:
		return playwright.WaitUntilStateLoad
	case interfaces.WaitUntilNetworkIdle:
		return playwright.WaitUntilStateNetworkidle
	default:
		return playwright.WaitUntilStateDomcontentloaded
	}
}

// Navigate - navigates to the specified URL
func (d *playwrightDriver) Navigate(ctx context.Context, url string, opts interfaces.NavigateOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := timeoutMS(ctx)
	if opts.Timeout > 0 {
		timeout = playwright.Float(float64(opts.Timeout.Milliseconds()))
	}

	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: waitUntil(opts.WaitUntil),
		Timeout:   timeout,
	})
	return err
}

// locator builds the Playwright locator for a candidate
func (d *playwrightDriver) locator(c entities.LocatorCandidate) playwright.Locator {
	switch c.Strategy {
	case entities.StrategyRole:
		opts := playwright.PageGetByRoleOptions{}
		if name := c.TextFilter(); name != nil {
			opts.Name = name
		}
		if c.Exact {
			opts.Exact = playwright.Bool(true)
		}
		return d.page.GetByRole(playwright.AriaRole(c.Role), opts)
	case entities.StrategyText:
		opts := playwright.PageGetByTextOptions{}
		if c.Exact {
			opts.Exact = playwright.Bool(true)
		}
		return d.page.GetByText(c.TextFilter(), opts)
	default:
		loc := d.page.Locator(c.Selector)
		if text := c.TextFilter(); text != nil {
			loc = loc.Filter(playwright.LocatorFilterOptions{HasText: text})
		}
		return loc
	}
}

// Query - returns the nodes matching a candidate without waiting for them
func (d *playwrightDriver) Query(ctx context.Context, candidate entities.LocatorCandidate) ([]interfaces.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	locators, err := d.locator(candidate).All()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", candidate, err)
	}

	nodes := make([]interfaces.Node, len(locators))
	for i, loc := range locators {
		nodes[i] = &playwrightNode{loc: loc}
	}
	return nodes, nil
}

// CurrentURL - returns the location of the page
func (d *playwrightDriver) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.page.URL(), nil
}

// Title - returns the page title
func (d *playwrightDriver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.page.Title()
}

// Screenshot - takes a full-page screenshot
func (d *playwrightDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Timeout:  timeoutMS(ctx),
	})
}

// ExportState - returns cookies and local storage as JSON
func (d *playwrightDriver) ExportState(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, err := d.context.StorageState()
	if err != nil {
		return nil, fmt.Errorf("failed to export browser state: %w", err)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode browser state: %w", err)
	}
	return data, nil
}

// Close - closes the browser context
func (d *playwrightDriver) Close() error {
	d.closeOnce.Do(func() {
		if err := d.context.Close(); err != nil && !isClosedErr(err) {
			d.closeErr = fmt.Errorf("failed to close context: %w", err)
		}
	})
	return d.closeErr
}

// playwrightNode is one element of a Query result
type playwrightNode struct {
	loc playwright.Locator
}

func (n *playwrightNode) Click(ctx context.Context) error {
	return n.loc.Click(playwright.LocatorClickOptions{Timeout: timeoutMS(ctx)})
}

func (n *playwrightNode) Fill(ctx context.Context, value string) error {
	return n.loc.Fill(value, playwright.LocatorFillOptions{Timeout: timeoutMS(ctx)})
}

func (n *playwrightNode) Clear(ctx context.Context) error {
	return n.loc.Clear(playwright.LocatorClearOptions{Timeout: timeoutMS(ctx)})
}

func (n *playwrightNode) TextContent(ctx context.Context) (string, error) {
	return n.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: timeoutMS(ctx)})
}

func (n *playwrightNode) InputValue(ctx context.Context) (string, error) {
	return n.loc.InputValue(playwright.LocatorInputValueOptions{Timeout: timeoutMS(ctx)})
}

func (n *playwrightNode) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return n.loc.IsVisible()
}

func (n *playwrightNode) IsEnabled(ctx context.Context) (bool, error) {
	return n.loc.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: timeoutMS(ctx)})
}

func (n *playwrightNode) IsEditable(ctx context.Context) (bool, error) {
	return n.loc.IsEditable(playwright.LocatorIsEditableOptions{Timeout: timeoutMS(ctx)})
}

// SelectOption picks by value first and falls back to the option label
func (n *playwrightNode) SelectOption(ctx context.Context, value string) error {
	opts := playwright.LocatorSelectOptionOptions{Timeout: timeoutMS(ctx)}
	_, err := n.loc.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}}, opts)
	if err == nil {
		return nil
	}
	if _, labelErr := n.loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{value}}, opts); labelErr == nil {
		return nil
	}
	return err
}

var (
	_ interfaces.Driver        = (*playwrightDriver)(nil)
	_ interfaces.StateExporter = (*playwrightDriver)(nil)
	_ interfaces.Node          = (*playwrightNode)(nil)
)
