package storage

import (
	"sync"

	"github.com/julianstephens/routinelog/internal/constants"
)

// Change announces that a collection of one user was written.
type Change struct {
	UserID     string
	Collection constants.Collection
}

// Path returns the collection path the change touched.
func (c Change) Path() string {
	return CollectionPath(c.UserID, c.Collection)
}

// Feed fans committed-write notifications out to listeners. Listeners are
// called synchronously from Publish and must not block.
type Feed struct {
	mu        sync.RWMutex
	listeners map[uint64]func(Change)
	next      uint64
}

func NewFeed() *Feed {
	return &Feed{listeners: make(map[uint64]func(Change))}
}

// Listen registers fn and returns a func that removes it. Removing twice is
// a no-op.
func (f *Feed) Listen(fn func(Change)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.listeners[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.listeners, id)
			f.mu.Unlock()
		})
	}
}

// Publish delivers changes to every listener.
func (f *Feed) Publish(changes ...Change) {
	f.mu.RLock()
	fns := make([]func(Change), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.RUnlock()

	for _, c := range changes {
		for _, fn := range fns {
			fn(c)
		}
	}
}

// Len reports the number of registered listeners.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.listeners)
}
