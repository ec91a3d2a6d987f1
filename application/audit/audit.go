// Package audit checks which locator candidate of every page target resolves
// on the live application, so markup drift shows up before scenarios fail.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"notes_e2e/application/interaction"
	"notes_e2e/domain/entities"
)

// Page is the part of a page object the audit needs
type Page interface {
	Open(ctx context.Context) error
	IsAt(ctx context.Context) bool
	Path() string
	Targets() []entities.LogicalTarget
}

// Auditor resolves page targets through one set of primitives
type Auditor struct {
	prims  *interaction.Primitives
	logger logrus.FieldLogger
}

func NewAuditor(prims *interaction.Primitives) *Auditor {
	return &Auditor{prims: prims, logger: prims.Logger()}
}

// Audit opens page and resolves each of its targets. Targets that must be
// present get the action budget; transient ones only a probe. A page that
// fails to load, or leaves its path within the probe budget, is reported
// with Err and no targets.
func (a *Auditor) Audit(ctx context.Context, name string, page Page) entities.PageInfo {
	info := entities.PageInfo{Page: name}
	logger := a.logger.WithField("page", name)

	if err := page.Open(ctx); err != nil {
		info.Err = err.Error()
		logger.WithField("error", err).Warn("Failed to open page")
		return info
	}

	if !a.stays(ctx, page) {
		info.URL, _ = a.prims.CurrentURL(ctx)
		info.Err = fmt.Sprintf("redirected away from %s", page.Path())
		logger.WithField("url", info.URL).Warn("Page redirected")
		return info
	}
	info.URL, _ = a.prims.CurrentURL(ctx)
	info.Title, _ = a.prims.Title(ctx)

	timeouts := a.prims.Timeouts()
	for _, target := range page.Targets() {
		if ctx.Err() != nil {
			info.Err = ctx.Err().Error()
			return info
		}

		budget := timeouts.Action
		if target.IsTransient() {
			budget = timeouts.Probe
		}

		status := entities.TargetStatus{
			Target:    target.Name(),
			Index:     -1,
			Transient: target.IsTransient(),
		}
		if el, ok := a.prims.Locate(ctx, target, interaction.WithTimeout(budget)); ok {
			status.Resolved = true
			status.Index = el.Index
			status.Candidate = el.Candidate.String()
			status.Fallback = el.Fallback()
		}
		if status.Broken() {
			logger.WithField("target", target.Name()).Warn("No candidate resolved")
		}
		info.Targets = append(info.Targets, status)
	}
	return info
}

// stays reports whether page is still shown once Timeouts.Probe has passed. A
// signed-out visit renders a guarded page first and redirects client-side
// only after the load event, so one look right after Open is not enough.
func (a *Auditor) stays(ctx context.Context, page Page) bool {
	timeouts := a.prims.Timeouts()
	deadline := time.Now().Add(timeouts.Probe)
	for {
		if !page.IsAt(ctx) {
			return false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		timer := time.NewTimer(min(timeouts.Poll, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return page.IsAt(ctx)
		case <-timer.C:
		}
	}
}

// Broken reports whether any reachable page has a target that should have resolved and did not
func Broken(infos []entities.PageInfo) bool {
	for _, info := range infos {
		if info.Err != "" {
			continue
		}
		for _, t := range info.Targets {
			if t.Broken() {
				return true
			}
		}
	}
	return false
}
