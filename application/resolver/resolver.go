// Package resolver turns a LogicalTarget into one live node by trying its
// locator candidates in order until one yields a visible element.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"notes_e2e/domain/entities"
	"notes_e2e/domain/interfaces"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultMinSlice     = 200 * time.Millisecond
)

// ResolvedElement is the node a target resolved to. It belongs to the call
// that produced it and must not be kept past it.
type ResolvedElement struct {
	Target    string
	Candidate entities.LocatorCandidate
	Index     int
	Node      interfaces.Node
}

// Fallback reports whether a candidate other than the preferred one won
func (e ResolvedElement) Fallback() bool {
	return e.Index > 0
}

// Predicate is an extra acceptance check on a candidate's first visible node
type Predicate func(ctx context.Context, node interfaces.Node) bool

// Resolver resolves LogicalTargets against one Driver
type Resolver struct {
	driver   interfaces.Driver
	poll     time.Duration
	minSlice time.Duration
	logger   logrus.FieldLogger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithPollInterval sets the pause between sweeps
func WithPollInterval(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.poll = d
		}
	}
}

// WithMinSlice sets the smallest total budget one call gets, shared by its candidates
func WithMinSlice(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.minSlice = d
		}
	}
}

// WithLogger sets the logger used for resolution traces
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a resolver bound to driver
func New(driver interfaces.Driver, opts ...Option) *Resolver {
	discard := logrus.New()
	discard.SetLevel(logrus.PanicLevel)

	r := &Resolver{
		driver:   driver,
		poll:     defaultPollInterval,
		minSlice: defaultMinSlice,
		logger:   discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve sweeps target's candidates in declared order until one has a visible
// first node or timeout is spent. At least one sweep runs, so a zero timeout
// is a snapshot check. Running out of time is not an error: it returns
// ok=false and a nil error. A non-nil error means ctx was cancelled.
func (r *Resolver) Resolve(ctx context.Context, target entities.LogicalTarget, timeout time.Duration) (ResolvedElement, bool, error) {
	return r.ResolveWhere(ctx, target, timeout, nil)
}

// ResolveWhere is Resolve with an extra acceptance check. A candidate whose
// first visible node fails accept is ruled out for that sweep.
func (r *Resolver) ResolveWhere(ctx context.Context, target entities.LogicalTarget, timeout time.Duration, accept Predicate) (ResolvedElement, bool, error) {
	if target.Len() == 0 {
		return ResolvedElement{}, false, fmt.Errorf("target %q has no locator candidates", target.Name())
	}

	logger := r.logger.WithField("target", target.Name())
	candidates := target.Candidates()
	start := time.Now()
	deadline := start.Add(timeout)
	hard := r.hardDeadline(start, timeout)

	for sweep := 1; ; sweep++ {
		for i, candidate := range candidates {
			if err := ctx.Err(); err != nil {
				return ResolvedElement{}, false, err
			}

			budget := slice(hard, len(candidates)-i)
			if budget <= 0 {
				break
			}
			node, ok := r.probe(ctx, target, candidate, budget, accept)
			if ok {
				logger.WithFields(logrus.Fields{
					"candidate": candidate.String(),
					"index":     i,
					"sweep":     sweep,
				}).Debug("Target resolved")
				return ResolvedElement{
					Target:    target.Name(),
					Candidate: candidate,
					Index:     i,
					Node:      node,
				}, true, nil
			}
		}

		if err := ctx.Err(); err != nil {
			return ResolvedElement{}, false, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			logger.WithFields(logrus.Fields{
				"timeout": timeout,
				"sweeps":  sweep,
			}).Debug("Target not found")
			return ResolvedElement{}, false, nil
		}
		if err := sleep(ctx, min(r.poll, remaining)); err != nil {
			return ResolvedElement{}, false, err
		}
	}
}

// Match returns every node of the first candidate that matches anything, in
// document order, together with that candidate's index. It does not wait and
// does not look at visibility. No match gives a nil slice and index -1.
func (r *Resolver) Match(ctx context.Context, target entities.LogicalTarget, timeout time.Duration) ([]interfaces.Node, int, error) {
	hard := r.hardDeadline(time.Now(), timeout)
	candidates := target.Candidates()

	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, -1, err
		}

		budget := slice(hard, len(candidates)-i)
		if budget <= 0 {
			break
		}
		qctx, cancel := context.WithTimeout(ctx, budget)
		nodes, err := r.driver.Query(qctx, candidate)
		cancel()
		if err != nil {
			r.logQueryError(target, candidate, err)
			continue
		}
		if len(nodes) > 0 {
			return nodes, i, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, -1, err
	}
	return nil, -1, nil
}

// hardDeadline is when a call started at start must stop querying. Every call
// gets at least minSlice in total, so a zero timeout still sweeps each
// candidate once, and a call never overruns its timeout by more than minSlice.
func (r *Resolver) hardDeadline(start time.Time, timeout time.Duration) time.Time {
	return start.Add(max(timeout, r.minSlice))
}

// slice splits what is left until hard evenly over the candidates still to try
func slice(hard time.Time, left int) time.Duration {
	if left < 1 {
		left = 1
	}
	return time.Until(hard) / time.Duration(left)
}

func (r *Resolver) probe(ctx context.Context, target entities.LogicalTarget, candidate entities.LocatorCandidate, budget time.Duration, accept Predicate) (interfaces.Node, bool) {
	pctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	nodes, err := r.driver.Query(pctx, candidate)
	if err != nil {
		if ctx.Err() == nil {
			r.logQueryError(target, candidate, err)
		}
		return nil, false
	}
	if len(nodes) == 0 {
		return nil, false
	}

	first := nodes[0]
	visible, err := first.IsVisible(pctx)
	if err != nil || !visible {
		return nil, false
	}
	if accept != nil && !accept(pctx, first) {
		return nil, false
	}
	return first, true
}

func (r *Resolver) logQueryError(target entities.LogicalTarget, candidate entities.LocatorCandidate, err error) {
	r.logger.WithFields(logrus.Fields{
		"target":    target.Name(),
		"candidate": candidate.String(),
		"error":     err,
	}).Debug("Candidate query failed")
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
