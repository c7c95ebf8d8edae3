package generation

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a generation cannot be found by id, or when an
// update matched no row because the caller does not own it or the row's state
// blocks the transition. Callers cannot distinguish the two on purpose:
// leaking which rows exist to non-owners is not acceptable.
var ErrNotFound = errors.New("generation not found")

// Repository defines the persistence port for generations.
//
// Every mutation is a single statement whose predicate encodes both the
// ownership check (where applicable) and the monotonic-forward status rule,
// relying on the store's per-statement atomicity rather than explicit locks.
type Repository interface {
	// Create persists a new pending generation and fills in ID and timestamps.
	Create(ctx context.Context, g *Generation) error

	// FindByID retrieves a generation by id.
	// Returns ErrNotFound if it does not exist.
	FindByID(ctx context.Context, id int64) (*Generation, error)

	// ListByOwner returns the owner's generations, newest first.
	// A limit <= 0 means no limit.
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*Generation, error)

	// Begin marks a generation processing and records the run id.
	// Only pending and processing rows match; a terminal row returns ErrNotFound.
	Begin(ctx context.Context, id int64, runID string) error

	// Complete marks a generation completed with its durable result URL and
	// clears any error message. A failed row never matches; re-completing an
	// already-completed row is a harmless idempotent write.
	Complete(ctx context.Context, id int64, resultURL string) error

	// Fail marks a generation failed with the given message and clears any
	// result URL. A completed row never matches.
	Fail(ctx context.Context, id int64, message string) error

	// FailOwned is Fail with the ownership check folded into the same
	// statement, for client-reported failures.
	FailOwned(ctx context.Context, id int64, ownerID, message string) error

	// Delete removes a generation owned by ownerID.
	// Returns ErrNotFound when the row is missing or owned by someone else.
	Delete(ctx context.Context, id int64, ownerID string) error
}
