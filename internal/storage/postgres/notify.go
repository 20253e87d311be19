package postgres

import (
	"context"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/routinelog/internal/logger"
	"github.com/julianstephens/routinelog/internal/storage"
)

// ChangeChannel is the LISTEN/NOTIFY channel carrying collection paths.
const ChangeChannel = "routinelog_changes"

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
)

// notify announces committed writes to every listening process, this one
// included. Delivery is best effort.
func (s *Store) notify(ctx context.Context, changes ...storage.Change) {
	ctx = context.WithoutCancel(ctx)
	for _, c := range changes {
		if _, err := s.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", ChangeChannel, c.Path()); err != nil {
			logger.Warn("Failed to publish change", "path", c.Path(), "error", err)
		}
	}
}

func (s *Store) listen() error {
	if s.listener != nil {
		return nil
	}

	l := pq.NewListener(s.connStr, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("Change listener event", "event", ev, "error", err)
		}
	})
	if err := l.Listen(ChangeChannel); err != nil {
		l.Close()
		return fmt.Errorf("failed to listen on %s: %w", ChangeChannel, err)
	}

	s.listener = l
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.relay(l.Notify)
	return nil
}

func (s *Store) relay(notifications <-chan *pq.Notification) {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			// nil follows a reconnect; anything may have changed meanwhile
			// but there is no path to replay.
			if n == nil {
				continue
			}
			change, err := storage.ParseCollectionPath(n.Extra)
			if err != nil {
				logger.Warn("Ignoring malformed change notification", "payload", n.Extra, "error", err)
				continue
			}
			s.feed.Publish(change)
		}
	}
}
