package testsupport

import (
	"context"
	"testing"

	"cuekit/internal/config"
	"cuekit/internal/history"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// BeginRun records a running entry for tests.
func BeginRun(t testing.TB, store *history.Store, cuePath string) *history.Run {
	t.Helper()

	run, err := store.Begin(context.Background(), history.Run{CuePath: cuePath, Format: "flac", Policy: "append"})
	if err != nil {
		t.Fatalf("store.Begin: %v", err)
	}
	return run
}
