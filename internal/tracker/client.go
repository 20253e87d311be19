// Package tracker is the data-access layer: per-entity queries, mutations
// and live subscriptions over a storage.Provider, scoped to one user's
// namespace.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/routinelog/internal/storage"
)

// Client wraps an injected provider. The provider is opened by Connect and
// released by Close; every subscription still active at Close is cancelled.
type Client struct {
	store storage.Provider
	now   func() time.Time

	mu        sync.Mutex
	connected bool
	subs      map[*Subscription]struct{}
}

type Option func(*Client)

// WithClock overrides the clock used for relative date ranges.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(store storage.Provider, opts ...Option) *Client {
	c := &Client{
		store: store,
		now:   time.Now,
		subs:  make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect loads the provider. Calling it on a connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}
	if err := c.store.Load(ctx); err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	c.connected = true
	return nil
}

// Close cancels all subscriptions and closes the provider.
func (c *Client) Close() error {
	c.mu.Lock()
	subs := make([]*Subscription, 0, len(c.subs))
	for s := range c.subs {
		subs = append(subs, s)
	}
	wasConnected := c.connected
	c.connected = false
	c.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
		<-s.Done()
	}
	if !wasConnected {
		return nil
	}
	return c.store.Close()
}

// Store returns the underlying provider.
func (c *Client) Store() storage.Provider {
	return c.store
}

func (c *Client) track(s *Subscription) {
	c.mu.Lock()
	c.subs[s] = struct{}{}
	c.mu.Unlock()
}

func (c *Client) untrack(s *Subscription) {
	c.mu.Lock()
	delete(c.subs, s)
	c.mu.Unlock()
}

// ActiveSubscriptions reports how many subscriptions are still delivering.
func (c *Client) ActiveSubscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}
