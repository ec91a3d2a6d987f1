// Package interaction holds the primitives page objects are built from. Required
// operations return typed errors; optional reads degrade to "" or false.
package interaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"notes_e2e/application/resolver"
	"notes_e2e/domain/entities"
	"notes_e2e/domain/interfaces"
)

// CallOption adjusts a single primitive call
type CallOption func(*callOptions)

type callOptions struct {
	timeout time.Duration
	set     bool
}

// WithTimeout overrides the default budget of one call
func WithTimeout(d time.Duration) CallOption {
	return func(o *callOptions) {
		o.timeout = d
		o.set = true
	}
}

func budget(def time.Duration, opts []CallOption) time.Duration {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.set && o.timeout >= 0 {
		return o.timeout
	}
	return def
}

// Primitives drives one browsing context through a Driver
type Primitives struct {
	driver   interfaces.Driver
	resolver *resolver.Resolver
	guard    interfaces.ActionGuard
	timeouts entities.Timeouts
	logger   logrus.FieldLogger
}

// New creates the primitives for driver. A nil guard allows every action.
func New(driver interfaces.Driver, guard interfaces.ActionGuard, timeouts entities.Timeouts, logger logrus.FieldLogger) *Primitives {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Primitives{
		driver: driver,
		resolver: resolver.New(driver,
			resolver.WithPollInterval(timeouts.Poll),
			resolver.WithLogger(logger),
		),
		guard:    guard,
		timeouts: timeouts,
		logger:   logger,
	}
}

// Timeouts returns the budgets the primitives were built with
func (p *Primitives) Timeouts() entities.Timeouts {
	return p.timeouts
}

// Logger returns the primitives' logger
func (p *Primitives) Logger() logrus.FieldLogger {
	return p.logger
}

// Navigate loads url and waits for DOMContentLoaded
func (p *Primitives) Navigate(ctx context.Context, url string, opts ...CallOption) error {
	timeout := budget(p.timeouts.Navigation, opts)
	nctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p.logger.WithField("url", url).Debug("Navigating")
	err := p.driver.Navigate(nctx, url, interfaces.NavigateOptions{
		WaitUntil: interfaces.WaitUntilDOMContentLoaded,
		Timeout:   timeout,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// CurrentURL returns the location of the page
func (p *Primitives) CurrentURL(ctx context.Context) (string, error) {
	url, err := p.driver.CurrentURL(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current URL: %w", err)
	}
	return url, nil
}

// Title returns the document title
func (p *Primitives) Title(ctx context.Context) (string, error) {
	title, err := p.driver.Title(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get page title: %w", err)
	}
	return title, nil
}

// Screenshot captures the page as PNG
func (p *Primitives) Screenshot(ctx context.Context) ([]byte, error) {
	data, err := p.driver.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return data, nil
}

// Fill replaces the value of an editable target
func (p *Primitives) Fill(ctx context.Context, target entities.LogicalTarget, value string, opts ...CallOption) error {
	return p.act(ctx, target, entities.Action{Type: entities.ActionFill, Value: value}, budget(p.timeouts.Action, opts),
		func(actx context.Context, n interfaces.Node) error { return n.Fill(actx, value) })
}

// Clear empties an editable target
func (p *Primitives) Clear(ctx context.Context, target entities.LogicalTarget, opts ...CallOption) error {
	return p.act(ctx, target, entities.Action{Type: entities.ActionClear}, budget(p.timeouts.Action, opts),
		func(actx context.Context, n interfaces.Node) error { return n.Clear(actx) })
}

// Click clicks an enabled target once. A failed click is never repeated.
func (p *Primitives) Click(ctx context.Context, target entities.LogicalTarget, opts ...CallOption) error {
	return p.act(ctx, target, entities.Action{Type: entities.ActionClick}, budget(p.timeouts.Action, opts),
		func(actx context.Context, n interfaces.Node) error { return n.Click(actx) })
}

// SelectOption picks value in a <select> target
func (p *Primitives) SelectOption(ctx context.Context, target entities.LogicalTarget, value string, opts ...CallOption) error {
	return p.act(ctx, target, entities.Action{Type: entities.ActionSelect, Value: value}, budget(p.timeouts.Action, opts),
		func(actx context.Context, n interfaces.Node) error { return n.SelectOption(actx, value) })
}

// act resolves target within timeout, passes the action through the guard,
// checks that the node accepts it, and then runs do exactly once.
func (p *Primitives) act(ctx context.Context, target entities.LogicalTarget, action entities.Action, timeout time.Duration, do func(context.Context, interfaces.Node) error) error {
	el, err := p.require(ctx, target, timeout)
	if err != nil {
		return err
	}

	action.Target = target.Name()
	action.Candidate = el.Candidate.String()
	if p.guard != nil {
		if err := p.guard.Check(ctx, action); err != nil {
			return fmt.Errorf("failed to %s %s: %w", action.Type, target.Name(), err)
		}
	}

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if reason := actionability(actx, el.Node, action.Type); reason != "" {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &entities.NotInteractableError{Target: target.Name(), Action: action.Type, Reason: reason}
	}

	if err := do(actx, el.Node); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &entities.NotInteractableError{Target: target.Name(), Action: action.Type, Err: err}
	}

	p.logger.WithFields(logrus.Fields{
		"target":    target.Name(),
		"candidate": action.Candidate,
		"action":    action.Type,
	}).Debug("Action performed")
	return nil
}

// actionability returns why node cannot take action, or "" when it can
func actionability(ctx context.Context, node interfaces.Node, action entities.ActionType) string {
	switch action {
	case entities.ActionFill, entities.ActionClear:
		editable, err := node.IsEditable(ctx)
		if err != nil {
			return "editability check failed: " + err.Error()
		}
		if !editable {
			return "element is not editable"
		}
	case entities.ActionClick, entities.ActionSelect:
		enabled, err := node.IsEnabled(ctx)
		if err != nil {
			return "enabled check failed: " + err.Error()
		}
		if !enabled {
			return "element is disabled"
		}
	}
	return ""
}

// require resolves target or fails with ElementNotFoundError
func (p *Primitives) require(ctx context.Context, target entities.LogicalTarget, timeout time.Duration) (resolver.ResolvedElement, error) {
	el, ok, err := p.resolver.Resolve(ctx, target, timeout)
	if err != nil {
		return resolver.ResolvedElement{}, err
	}
	if !ok {
		return resolver.ResolvedElement{}, notFound(target, timeout)
	}
	return el, nil
}

func notFound(target entities.LogicalTarget, timeout time.Duration) *entities.ElementNotFoundError {
	candidates := target.Candidates()
	tried := make([]string, len(candidates))
	for i, c := range candidates {
		tried[i] = c.String()
	}
	return &entities.ElementNotFoundError{Target: target.Name(), Tried: tried, Timeout: timeout}
}

// ReadText returns the trimmed text of the first candidate with non-blank
// text. It never fails: absence gives ok=false.
func (p *Primitives) ReadText(ctx context.Context, target entities.LogicalTarget, opts ...CallOption) (string, bool) {
	var text string
	hasText := func(ctx context.Context, n interfaces.Node) bool {
		t, err := n.TextContent(ctx)
		if err != nil {
			return false
		}
		text = strings.TrimSpace(t)
		return text != ""
	}

	_, ok, err := p.resolver.ResolveWhere(ctx, target, budget(p.timeouts.Probe, opts), hasText)
	if err != nil || !ok {
		return "", false
	}
	return text, true
}

// InputValue returns the current value of an input target, or ok=false when it is absent
func (p *Primitives) InputValue(ctx context.Context, target entities.LogicalTarget, opts ...CallOption) (string, bool) {
	timeout := budget(p.timeouts.Probe, opts)
	el, ok, err := p.resolver.Resolve(ctx, target, timeout)
	if err != nil || !ok {
		return "", false
	}

	vctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	value, err := el.Node.InputValue(vctx)
	if err != nil {
		return "", false
	}
	return value, true
}

// IsVisible probes target within the probe budget. It never fails.
func (p *Primitives) IsVisible(ctx context.Context, target entities.LogicalTarget, opts ...CallOption) bool {
	_, ok, err := p.resolver.Resolve(ctx, target, budget(p.timeouts.Probe, opts))
	return err == nil && ok
}

// Locate is the forgiving form of resolution: the resolved element, or ok=false
func (p *Primitives) Locate(ctx context.Context, target entities.LogicalTarget, opts ...CallOption) (resolver.ResolvedElement, bool) {
	el, ok, err := p.resolver.Resolve(ctx, target, budget(p.timeouts.Probe, opts))
	if err != nil {
		return resolver.ResolvedElement{}, false
	}
	return el, ok
}

// WaitForElement blocks until target resolves. A timeout of zero means the action budget.
func (p *Primitives) WaitForElement(ctx context.Context, target entities.LogicalTarget, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = p.timeouts.Action
	}
	_, err := p.require(ctx, target, timeout)
	return err
}

// WaitForURL polls the current location until it matches pattern. A timeout
// of zero means the navigation budget. The location is checked at least once.
func (p *Primitives) WaitForURL(ctx context.Context, pattern entities.URLPattern, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = p.timeouts.Navigation
	}
	deadline := time.Now().Add(timeout)

	var last string
	for {
		url, err := p.driver.CurrentURL(ctx)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			p.logger.WithField("error", err).Debug("Failed to read current URL")
		default:
			last = url
			if pattern.Match(url) {
				return nil
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &entities.NavigationTimeoutError{Pattern: pattern.String(), LastURL: last, Timeout: timeout}
		}
		if err := sleep(ctx, min(p.timeouts.Poll, remaining)); err != nil {
			return err
		}
	}
}

// Count returns the number of nodes matched by the first candidate of target
// that matches anything. It does not wait.
func (p *Primitives) Count(ctx context.Context, target entities.LogicalTarget, opts ...CallOption) int {
	nodes, _, err := p.resolver.Match(ctx, target, budget(p.timeouts.Probe, opts))
	if err != nil {
		return 0
	}
	return len(nodes)
}

// CountVisible is Count restricted to visible nodes
func (p *Primitives) CountVisible(ctx context.Context, target entities.LogicalTarget, opts ...CallOption) int {
	timeout := budget(p.timeouts.Probe, opts)
	nodes, _, err := p.resolver.Match(ctx, target, timeout)
	if err != nil {
		return 0
	}

	vctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	visible := 0
	for _, n := range nodes {
		if ok, err := n.IsVisible(vctx); err == nil && ok {
			visible++
		}
	}
	return visible
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
