package memory

import (
	"context"
	"fmt"
	"sync"

	"notes_e2e/domain/interfaces"
)

// Factory hands out Pages built by a caller-supplied function. It implements
// interfaces.DriverFactory.
type Factory struct {
	mu     sync.Mutex
	build  func(state []byte) *Page
	opened []*Page
	states [][]byte
	closed bool
}

// NewFactory creates a Factory. build receives the seed state passed to NewDriver.
func NewFactory(build func(state []byte) *Page) *Factory {
	return &Factory{build: build}
}

// NewDriver builds a new Page
func (f *Factory) NewDriver(ctx context.Context, state []byte) (interfaces.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, fmt.Errorf("factory is closed")
	}
	page := f.build(state)
	f.opened = append(f.opened, page)
	f.states = append(f.states, state)
	return page, nil
}

// Opened returns every Page built so far
func (f *Factory) Opened() []*Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Page(nil), f.opened...)
}

// Seeds returns the state each NewDriver call received, in order
func (f *Factory) Seeds() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.states...)
}

// Close closes the factory and every Page it built
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for _, p := range f.opened {
		p.Close()
	}
	return nil
}
