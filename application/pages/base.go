// Package pages holds the page objects of the notes application. Each page
// embeds Base for navigation and the interaction primitives, fixes its target
// table at construction, and chains primitives into composite actions.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"notes_e2e/application/interaction"
	"notes_e2e/domain/entities"
)

const (
	PathLogin          = "/login"
	PathRegister       = "/register"
	PathDashboard      = "/dashboard"
	PathForgotPassword = "/forgot-password"
	PathProfile        = "/profile"
)

var alertMessage = entities.MustTarget("AlertMessage", []entities.LocatorCandidate{
	entities.ByAttr(`[role="alert"]`),
	entities.ByStructure(`[class*="alert"]`),
	entities.ByStructure(`[class*="message"]`),
	entities.ByStructure(`[class*="toast"]`),
}, entities.Transient())

// Base is the part every page shares: where the page lives and the primitives
// to drive it. It keeps no state between calls.
type Base struct {
	*interaction.Primitives
	baseURL string
	path    string
}

// NewBase binds a page at path under baseURL to p
func NewBase(p *interaction.Primitives, baseURL, path string) Base {
	return Base{
		Primitives: p,
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       path,
	}
}

// Path returns the page path relative to the base URL
func (b Base) Path() string {
	return b.path
}

// URL joins path to the base URL
func (b Base) URL(path string) string {
	return b.baseURL + path
}

// Open navigates to the page
func (b Base) Open(ctx context.Context) error {
	return b.Goto(ctx, b.path)
}

// Goto navigates to path under the base URL
func (b Base) Goto(ctx context.Context, path string) error {
	return b.Navigate(ctx, b.URL(path))
}

// Pattern matches the page's own location
func (b Base) Pattern() entities.URLPattern {
	return entities.PathPattern(b.path)
}

// IsAt reports whether the browser currently shows this page
func (b Base) IsAt(ctx context.Context) bool {
	url, err := b.CurrentURL(ctx)
	return err == nil && b.Pattern().Match(url)
}

// WaitUntilAt waits for the location to reach this page
func (b Base) WaitUntilAt(ctx context.Context) error {
	return b.WaitForURL(ctx, b.Pattern(), b.Timeouts().Action)
}

// AlertMessage returns the text of any alert, message or toast region
func (b Base) AlertMessage(ctx context.Context) string {
	text, _ := b.ReadText(ctx, alertMessage, interaction.WithTimeout(b.Timeouts().Action))
	return text
}

// step is one named part of a composite action
type step struct {
	name string
	do   func(ctx context.Context) error
}

// run executes steps in order under the composite budget. The first failing
// step aborts the action and nothing is retried. If the composite budget
// itself runs out the failure becomes an ActionTimeoutError.
func (b Base) run(ctx context.Context, action string, steps ...step) error {
	timeout := b.Timeouts().Composite
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger := b.Logger().WithField("action", action)
	for _, s := range steps {
		if err := cctx.Err(); err != nil {
			return b.expired(ctx, action, s.name, err)
		}

		logger.WithField("step", s.name).Debug("Running step")
		if err := s.do(cctx); err != nil {
			if cctx.Err() != nil {
				return b.expired(ctx, action, s.name, err)
			}
			logger.WithFields(logrus.Fields{
				"step":  s.name,
				"error": err,
			}).Debug("Step failed")
			return fmt.Errorf("%s: %s: %w", action, s.name, err)
		}
	}
	return nil
}

// expired separates the caller giving up from the composite budget running out
func (b Base) expired(ctx context.Context, action, stepName string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(err, ctxErr) {
			return err
		}
		return fmt.Errorf("%s: %s: %w", action, stepName, ctxErr)
	}
	return &entities.ActionTimeoutError{
		Action:  action,
		Step:    stepName,
		Timeout: b.Timeouts().Composite,
		Err:     err,
	}
}

func fill(p *interaction.Primitives, target entities.LogicalTarget, value string) func(context.Context) error {
	return func(ctx context.Context) error { return p.Fill(ctx, target, value) }
}

func click(p *interaction.Primitives, target entities.LogicalTarget) func(context.Context) error {
	return func(ctx context.Context) error { return p.Click(ctx, target) }
}
