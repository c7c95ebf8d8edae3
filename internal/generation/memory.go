package generation

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory implementation of Repository.
// It mirrors the Postgres repository's predicate semantics, including the
// terminal-state guards, so the lifecycle tests exercise the same rules.
// Used by the test suite and the no-database development mode.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*Generation
}

// NewMemoryRepository creates a new in-memory generation repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		rows:   make(map[int64]*Generation),
	}
}

// Create persists a new pending generation and assigns its id.
func (r *MemoryRepository) Create(_ context.Context, g *Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	g.ID = r.nextID
	r.nextID++
	g.Status = StatusPending
	g.CreatedAt = now
	g.UpdatedAt = now
	r.rows[g.ID] = g.Clone()
	return nil
}

// FindByID retrieves a generation by id.
func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*Generation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g.Clone(), nil
}

// ListByOwner returns the owner's generations, newest first.
func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string, limit int) ([]*Generation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Generation, 0)
	for _, g := range r.rows {
		if g.OwnerID == ownerID {
			result = append(result, g.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Begin marks a pending or processing generation as processing.
func (r *MemoryRepository) Begin(_ context.Context, id int64, runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.rows[id]
	if !ok || !CanTransition(g.Status, StatusProcessing) {
		return ErrNotFound
	}
	g.Status = StatusProcessing
	g.RunID = runID
	g.UpdatedAt = time.Now()
	return nil
}

// Complete marks a generation completed. Failed rows never match.
func (r *MemoryRepository) Complete(_ context.Context, id int64, resultURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.rows[id]
	if !ok || !CanTransition(g.Status, StatusCompleted) {
		return ErrNotFound
	}
	g.Status = StatusCompleted
	g.ResultURL = resultURL
	g.ErrorMessage = ""
	g.UpdatedAt = time.Now()
	return nil
}

// Fail marks a generation failed. Completed rows never match.
func (r *MemoryRepository) Fail(_ context.Context, id int64, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failLocked(id, message)
}

// FailOwned is Fail with the ownership check in the same critical section.
func (r *MemoryRepository) FailOwned(_ context.Context, id int64, ownerID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.rows[id]
	if !ok || g.OwnerID != ownerID {
		return ErrNotFound
	}
	return r.failLocked(id, message)
}

func (r *MemoryRepository) failLocked(id int64, message string) error {
	g, ok := r.rows[id]
	if !ok || !CanTransition(g.Status, StatusFailed) {
		return ErrNotFound
	}
	if message == "" {
		message = GenericFailureMessage
	}
	g.Status = StatusFailed
	g.ErrorMessage = message
	g.ResultURL = ""
	g.UpdatedAt = time.Now()
	return nil
}

// Delete removes a generation owned by ownerID.
func (r *MemoryRepository) Delete(_ context.Context, id int64, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.rows[id]
	if !ok || g.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}
