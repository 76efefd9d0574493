package catalog

import (
	"context"
	"sync"

	"go-staff-permissions/internal/model"
	"go-staff-permissions/internal/remote"
)

// Pager is a pull-based iterator over catalog pages. The consumer calls Next
// whenever it needs more items; the merged catalog grows with each page.
type Pager struct {
	loader *Loader

	mu         sync.Mutex
	items      []model.Permission
	current    int
	last       int
	inFlight   bool
	closed     bool
	generation uint64
}

func NewPager(loader *Loader) *Pager {
	// last starts at 1 so that the first Next requests page 1.
	return &Pager{loader: loader, last: 1}
}

// Items returns the merged catalog in arrival order. The slice is never
// written to after it is returned.
func (p *Pager) Items() []model.Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items
}

// HasMore reports whether pages beyond the loaded ones exist.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current < p.last
}

// Loading reports whether a page fetch is outstanding.
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// CurrentPage is the number of the last page merged, 0 before the first.
func (p *Pager) CurrentPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Next fetches and merges the following page. It returns false without
// fetching when every page is loaded or a fetch is already running. A failed
// fetch leaves the catalog as it was.
func (p *Pager) Next(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false, remote.ErrStaleOperation
	}
	if p.current >= p.last || p.inFlight {
		p.mu.Unlock()
		return false, nil
	}
	n := p.current + 1
	gen := p.generation
	p.inFlight = true
	p.mu.Unlock()

	page, err := p.loader.LoadPage(ctx, n)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return false, remote.ErrStaleOperation
	}
	p.inFlight = false
	if err != nil {
		return false, err
	}

	p.items = Merge(p.items, page.Items)
	p.current = n
	p.last = page.LastPage
	return true, nil
}

// LoadAll keeps calling Next until the last page is merged.
func (p *Pager) LoadAll(ctx context.Context) error {
	for p.HasMore() {
		loaded, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if !loaded {
			// another caller owns the running fetch
			return nil
		}
	}
	return nil
}

// Close invalidates outstanding fetches; their results are dropped and
// later calls to Next fail with remote.ErrStaleOperation.
func (p *Pager) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.generation++
	p.inFlight = false
}
