package interfaces

import (
	"context"
	"time"

	"notes_e2e/domain/entities"
)

// WaitUntil is the load state a navigation waits for
type WaitUntil string

const (
	WaitUntilLoad             WaitUntil = "load"
	WaitUntilDOMContentLoaded WaitUntil = "domcontentloaded"
	WaitUntilNetworkIdle      WaitUntil = "networkidle"
)

// NavigateOptions controls a single navigation
type NavigateOptions struct {
	WaitUntil WaitUntil
	Timeout   time.Duration
}

// Driver is the browser-automation capability the interaction layer consumes.
// One Driver is bound to exactly one isolated browsing context. Every call
// honors ctx and returns once ctx is done.
type Driver interface {
	// Navigate loads url in the current page
	Navigate(ctx context.Context, url string, opts NavigateOptions) error

	// Query returns the nodes matching candidate in document order, possibly none.
	// It never waits for nodes to appear.
	Query(ctx context.Context, candidate entities.LocatorCandidate) ([]Node, error)

	// CurrentURL returns the location of the current page
	CurrentURL(ctx context.Context) (string, error)

	// Title returns the current page title
	Title(ctx context.Context) (string, error)

	// Screenshot captures the current page as PNG
	Screenshot(ctx context.Context) ([]byte, error)

	// Close tears down the browsing context
	Close() error
}

// Node is a handle to one DOM node captured by Query. It may go stale when the page re-renders.
type Node interface {
	Click(ctx context.Context) error

	// Fill replaces the node's value with value
	Fill(ctx context.Context, value string) error

	Clear(ctx context.Context) error
	TextContent(ctx context.Context) (string, error)
	InputValue(ctx context.Context) (string, error)
	IsVisible(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsEditable(ctx context.Context) (bool, error)

	// SelectOption picks the option of a <select> by value or label
	SelectOption(ctx context.Context, value string) error
}

// StateExporter is implemented by drivers that can export their session
// (cookies, local storage) for later contexts.
type StateExporter interface {
	ExportState(ctx context.Context) ([]byte, error)
}

// DriverFactory opens isolated browsing contexts
type DriverFactory interface {
	// NewDriver opens a fresh context. A non-empty state seeds it with a previously exported session.
	NewDriver(ctx context.Context, state []byte) (Driver, error)

	// Close releases the browser behind the factory
	Close() error
}
