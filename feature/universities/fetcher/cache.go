package fetcher

import (
	"context"
	"strconv"
	"sync"
	"time"

	"unilist/feature/universities/models"

	"golang.org/x/sync/singleflight"
)

// flightTimeout bounds an upstream fetch shared by several callers. The
// flight runs detached from any single caller's context.
const flightTimeout = time.Minute

// cachedPage is a fetched page and the time it was stored.
type cachedPage struct {
	page  *models.PageResponse
	built time.Time
}

// CachedFetcher keeps successfully fetched pages for a TTL and collapses
// concurrent fetches of the same page into one upstream request. Failures
// are never cached.
type CachedFetcher struct {
	next Fetcher
	ttl  time.Duration
	now  func() time.Time

	mu    sync.RWMutex
	pages map[int]cachedPage
	sf    singleflight.Group
}

// NewCachedFetcher wraps next with a TTL page cache.
func NewCachedFetcher(next Fetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		next:  next,
		ttl:   ttl,
		now:   time.Now,
		pages: make(map[int]cachedPage),
	}
}

func (c *CachedFetcher) lookup(page int) (*models.PageResponse, bool) {
	c.mu.RLock()
	entry, ok := c.pages[page]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.built) > c.ttl {
		return nil, false
	}
	return entry.page, true
}

// Fetch returns the cached page or fetches it once. Cancelling ctx only
// abandons this caller's wait; callers sharing the flight still get the page.
func (c *CachedFetcher) Fetch(ctx context.Context, page int) (*models.PageResponse, error) {
	if p, ok := c.lookup(page); ok {
		return p, nil
	}

	flight := c.sf.DoChan(strconv.Itoa(page), func() (interface{}, error) {
		// Double-check after winning the flight.
		if p, ok := c.lookup(page); ok {
			return p, nil
		}

		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		p, err := c.next.Fetch(fctx, page)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.pages[page] = cachedPage{page: p, built: c.now()}
		c.mu.Unlock()
		return p, nil
	})

	select {
	case <-ctx.Done():
		return nil, classifyTransport(page, ctx.Err())
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.PageResponse), nil
	}
}

// Invalidate drops every cached page.
func (c *CachedFetcher) Invalidate() {
	c.mu.Lock()
	c.pages = make(map[int]cachedPage)
	c.mu.Unlock()
}
