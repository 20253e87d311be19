// Package clitest builds command contexts backed by a temporary SQLite store.
package clitest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/routinelog/internal/auth"
	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/storage/sqlite"
	"github.com/julianstephens/routinelog/internal/tracker"
)

// Now is the fixed clock of test contexts.
var Now = time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

// NewContext returns an initialized, connected, non-interactive context
// with nobody signed in.
func NewContext(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	now := func() time.Time { return Now }
	client := tracker.New(store, tracker.WithClock(now))
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return &cli.Context{
		Ctx:     context.Background(),
		Store:   store,
		Tracker: client,
		Auth: auth.NewService(store, client, &auth.MemoryTokens{}, "test-secret",
			auth.WithBcryptCost(bcrypt.MinCost),
			auth.WithClock(now),
		),
		Now: now,
	}
}

// SignIn registers username and leaves it signed in.
func SignIn(t *testing.T, ctx *cli.Context, username string) auth.User {
	t.Helper()
	user, err := ctx.Auth.Register(ctx.Ctx, username, "secret1")
	if err != nil {
		t.Fatalf("Register(%q) error = %v", username, err)
	}
	return user
}
