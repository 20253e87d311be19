package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/storage"
	"github.com/julianstephens/routinelog/internal/storage/sqlite"
)

const testUser = "user-1"

func newTestClient(t *testing.T, opts ...Option) (*Client, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	client := New(store, opts...)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, store
}

func strPtr(s string) *string { return &s }

// batchRecorder records every CommitLogBatch call and can fail them.
type batchRecorder struct {
	storage.Provider

	mu      sync.Mutex
	sizes   []int
	failErr error
}

func (b *batchRecorder) CommitLogBatch(ctx context.Context, userID string, patches []models.LogPatch) error {
	b.mu.Lock()
	b.sizes = append(b.sizes, len(patches))
	failErr := b.failErr
	b.mu.Unlock()
	if failErr != nil {
		return failErr
	}
	return b.Provider.CommitLogBatch(ctx, userID, patches)
}

func (b *batchRecorder) batchSizes() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.sizes...)
}

var errUnavailable = errors.New("store unavailable")

// brokenReads fails every list query.
type brokenReads struct {
	storage.Provider
}

func (brokenReads) ListItems(context.Context, string, bool) ([]models.Item, error) {
	return nil, errUnavailable
}

func (brokenReads) ListLogs(context.Context, string, models.LogQuery) ([]models.Log, error) {
	return nil, errUnavailable
}

// receive waits for the next snapshot on ch.
func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	var zero T
	return zero
}

// receiveUntil drains snapshots until ok accepts one.
func receiveUntil[T any](t *testing.T, ch <-chan T, ok func(T) bool) T {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case v := <-ch:
			if ok(v) {
				return v
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching snapshot")
		}
	}
}
