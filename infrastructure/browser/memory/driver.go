// Package memory is an in-memory Driver: a flat list of elements in document
// order that answer to the locator candidates they declare. Unit tests use it
// to exercise the resolver, the primitives and the page objects without a browser.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"notes_e2e/domain/entities"
	"notes_e2e/domain/interfaces"
)

// ErrStale is returned by a Node whose element left the page
var ErrStale = errors.New("element is detached from the page")

// Element is one node of the in-memory page
type Element struct {
	ID string

	// Selectors are the CSS selectors this element answers to, compared verbatim
	Selectors []string

	Role string
	// Name is the accessible name; Text is used when empty
	Name  string
	Text  string
	Value string

	Hidden   bool
	Disabled bool
	ReadOnly bool
	Options  []string

	// AppearAfter delays the element's presence relative to the last navigation
	AppearAfter time.Duration

	// OnClick runs after a successful click, without the page lock held
	OnClick func(p *Page)
}

// Page is an in-memory browsing context. It implements interfaces.Driver.
type Page struct {
	mu         sync.Mutex
	url        string
	title      string
	elements   []*Element
	loadedAt   time.Time
	routes     map[string]func(*Page)
	journal    []string
	hangs      map[string]bool
	queryDelay time.Duration
	queryErr   map[string]error
	queries    int
	closed     bool
	session    []byte

	pendingURL string
	pendingAt  time.Time
}

// NewPage returns an empty page at about:blank
func NewPage() *Page {
	return &Page{
		url:      "about:blank",
		loadedAt: time.Now(),
		routes:   make(map[string]func(*Page)),
		hangs:    make(map[string]bool),
		queryErr: make(map[string]error),
	}
}

// Route registers the loader run when Navigate reaches url
func (p *Page) Route(url string, load func(*Page)) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes[url] = load
	return p
}

// Add appends elements in document order
func (p *Page) Add(elements ...*Element) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements = append(p.elements, elements...)
	return p
}

// Remove detaches the element with id
func (p *Page) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, el := range p.elements {
		if el.ID == id {
			p.elements = append(p.elements[:i:i], p.elements[i+1:]...)
			return
		}
	}
}

// Find returns the attached element with id
func (p *Page) Find(id string) (*Element, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findLocked(id)
}

func (p *Page) findLocked(id string) (*Element, bool) {
	for _, el := range p.elements {
		if el.ID == id {
			return el, true
		}
	}
	return nil, false
}

// Update mutates the element with id under the page lock
func (p *Page) Update(id string, fn func(*Element)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.findLocked(id)
	if ok {
		fn(el)
	}
	return ok
}

// SetURL changes the location without loading a route, as a client-side router does
func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	p.pendingURL = ""
}

// SetURLAfter changes the location once d has elapsed
func (p *Page) SetURLAfter(url string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingURL = url
	p.pendingAt = time.Now().Add(d)
}

// SetTitle sets the document title
func (p *Page) SetTitle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
}

// Hang makes queries for candidate block until their context is done
func (p *Page) Hang(candidate entities.LocatorCandidate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hangs[candidate.String()] = true
}

// FailQuery makes queries for candidate return err
func (p *Page) FailQuery(candidate entities.LocatorCandidate, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queryErr[candidate.String()] = err
}

// SetQueryDelay simulates driver latency on every query
func (p *Page) SetQueryDelay(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queryDelay = d
}

// Journal returns the mutating calls and navigations in the order they happened
func (p *Page) Journal() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.journal...)
}

// Queries returns how many Query calls reached the page
func (p *Page) Queries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries
}

// SetSession sets what ExportState returns
func (p *Page) SetSession(state []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = append([]byte(nil), state...)
}

// ExportState returns the session set with SetSession. It implements interfaces.StateExporter.
func (p *Page) ExportState(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil, fmt.Errorf("no session to export")
	}
	return append([]byte(nil), p.session...), nil
}

// Closed reports whether Close was called
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Page) record(format string, args ...any) {
	p.journal = append(p.journal, fmt.Sprintf(format, args...))
}

// Navigate replaces the page content with the route registered for url
func (p *Page) Navigate(ctx context.Context, url string, opts interfaces.NavigateOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("page is closed")
	}
	p.record("navigate:%s", url)
	p.url = url
	p.pendingURL = ""
	p.title = ""
	p.elements = nil
	p.loadedAt = time.Now()
	load := p.routes[url]
	p.mu.Unlock()

	if load != nil {
		load(p)
	}
	return nil
}

// Query returns the present elements matching candidate in document order
func (p *Page) Query(ctx context.Context, candidate entities.LocatorCandidate) ([]interfaces.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := candidate.String()
	p.mu.Lock()
	hang := p.hangs[key]
	delay := p.queryDelay
	failure := p.queryErr[key]
	p.mu.Unlock()

	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if failure != nil {
		return nil, failure
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, fmt.Errorf("page is closed")
	}
	p.queries++

	var nodes []interfaces.Node
	for _, el := range p.elements {
		if !p.presentLocked(el) || !matches(el, candidate) {
			continue
		}
		nodes = append(nodes, &node{page: p, el: el})
	}
	return nodes, nil
}

func (p *Page) presentLocked(el *Element) bool {
	return el.AppearAfter <= 0 || time.Since(p.loadedAt) >= el.AppearAfter
}

func matches(el *Element, c entities.LocatorCandidate) bool {
	switch c.Strategy {
	case entities.StrategyAttribute, entities.StrategyStructural:
		for _, s := range el.Selectors {
			if s == c.Selector {
				return c.MatchesText(el.Text)
			}
		}
		return false
	case entities.StrategyRole:
		if el.Role != c.Role {
			return false
		}
		name := el.Name
		if name == "" {
			name = el.Text
		}
		return c.MatchesText(name)
	case entities.StrategyText:
		return el.Text != "" && c.MatchesText(el.Text)
	default:
		return false
	}
}

// CurrentURL returns the location
func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pendingURL != "" && !time.Now().Before(p.pendingAt) {
		p.url = p.pendingURL
		p.pendingURL = ""
	}
	return p.url, nil
}

// Title returns the document title
func (p *Page) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, nil
}

// Screenshot returns a placeholder image
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte("\x89PNG memory"), nil
}

// Close marks the page closed
func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

var _ interfaces.Driver = (*Page)(nil)
