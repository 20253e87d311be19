package tracker

import (
	"context"
	"sync"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/logger"
	"github.com/julianstephens/routinelog/internal/storage"
)

// Subscription is a live query. Its callback receives the full result set
// once after registration and again after every change to the watched
// collection. Callbacks of one subscription never run concurrently.
type Subscription struct {
	once   sync.Once
	cancel context.CancelFunc
	detach func()
	done   chan struct{}

	// mu is held for the whole of each callback.
	mu     sync.Mutex
	closed bool
}

// Unsubscribe stops delivery: once it returns no callback is running and
// none will start. It waits for a callback already in progress, so a
// callback must not call it; cancel the subscription's context instead.
// Writes issued elsewhere are not aborted. Calling it more than once is a
// no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.detach()
		s.cancel()
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
	})
}

// deliver runs callback unless the subscription has been closed.
func (s *Subscription) deliver(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	fn()
	return true
}

// Done is closed once the subscription has delivered its last snapshot.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// watch runs fetch after registration and after each change to collection
// in userID's namespace, handing results to callback. Changes that arrive
// while a fetch is running are coalesced into one re-run. Fetch errors are
// logged and the snapshot is skipped. The subscription also ends when ctx
// is cancelled.
func watch[T any](ctx context.Context, c *Client, userID string, collection constants.Collection, fetch func(context.Context) (T, error), callback func(T)) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	pending := make(chan struct{}, 1)
	pending <- struct{}{}

	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	sub.detach = c.store.Feed().Listen(func(ch storage.Change) {
		if ch.UserID != userID || ch.Collection != collection {
			return
		}
		select {
		case pending <- struct{}{}:
		default:
		}
	})
	c.track(sub)

	go func() {
		defer close(sub.done)
		defer c.untrack(sub)
		defer sub.detach()

		for {
			select {
			case <-ctx.Done():
				return
			case <-pending:
			}

			result, err := fetch(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("Live query failed", "path", storage.CollectionPath(userID, collection), "error", err)
				}
				continue
			}
			if ctx.Err() != nil {
				return
			}
			if !sub.deliver(func() { callback(result) }) {
				return
			}
		}
	}()

	return sub
}
