package submission

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory implementation of Repository.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*CharacterSubmission
}

// NewMemoryRepository creates a new in-memory submission repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		rows:   make(map[int64]*CharacterSubmission),
	}
}

// Create persists a new pending submission and assigns its id.
func (r *MemoryRepository) Create(_ context.Context, cs *CharacterSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cs.ID = r.nextID
	r.nextID++
	cs.Status = StatusPending
	cs.CreatedAt = now
	cs.UpdatedAt = now
	r.rows[cs.ID] = cs.Clone()
	return nil
}

// ListByStatus returns submissions with the given status, newest first.
func (r *MemoryRepository) ListByStatus(_ context.Context, status Status) ([]*CharacterSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*CharacterSubmission, 0)
	for _, cs := range r.rows {
		if cs.Status == status {
			result = append(result, cs.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// SetStatus moves a submission to the given moderation state.
func (r *MemoryRepository) SetStatus(_ context.Context, id int64, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cs, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	cs.Status = status
	cs.UpdatedAt = time.Now()
	return nil
}
