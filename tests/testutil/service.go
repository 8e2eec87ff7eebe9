package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/nhle/dailytasks/internal/clock"
	"github.com/nhle/dailytasks/internal/store"
	"github.com/nhle/dailytasks/internal/tracker"
)

// TestUser is the identity used by tests that need only one user.
const TestUser = "8d0f6c3e-5a4b-4c1d-9e2f-1a2b3c4d5e6f"

// OtherUser owns tasks that TestUser must never see.
const OtherUser = "f1e2d3c4-b5a6-4978-8695-a4b3c2d1e0f9"

// NewTestService wires a tracker.Service to a fresh in-memory store with the
// clock pinned to day (YYYY-MM-DD). The store is returned for direct
// assertions against the ledger.
func NewTestService(t *testing.T, day string) (*tracker.Service, *store.SQLStore) {
	t.Helper()

	st := NewTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return tracker.NewService(st, clock.Fixed(clock.MustDate(day)), logger), st
}
