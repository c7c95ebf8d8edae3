package refimage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory implementation of Repository,
// backing tests and the no-database development mode.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*ReferenceImage
}

// NewMemoryRepository creates a new in-memory reference image repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		rows:   make(map[int64]*ReferenceImage),
	}
}

// Create persists a new reference image and assigns its id.
func (r *MemoryRepository) Create(_ context.Context, ri *ReferenceImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ri.ID = r.nextID
	r.nextID++
	ri.CreatedAt = time.Now()
	r.rows[ri.ID] = ri.Clone()
	return nil
}

// ListByOwner returns the owner's reference images, newest first.
func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]*ReferenceImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*ReferenceImage, 0)
	for _, ri := range r.rows {
		if ri.OwnerID == ownerID {
			result = append(result, ri.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// Update applies a partial update to an owned row.
func (r *MemoryRepository) Update(_ context.Context, id int64, ownerID string, u Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ri, ok := r.rows[id]
	if !ok || ri.OwnerID != ownerID {
		return ErrNotFound
	}
	if u.Name != nil {
		ri.Name = *u.Name
	}
	if u.Category != nil {
		ri.Category = *u.Category
	}
	return nil
}

// Delete removes an owned row.
func (r *MemoryRepository) Delete(_ context.Context, id int64, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ri, ok := r.rows[id]
	if !ok || ri.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}
