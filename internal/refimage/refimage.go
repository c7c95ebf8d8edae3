// Package refimage provides the ReferenceImage aggregate: user-saved custom
// character portraits usable as face-swap sources.
package refimage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a reference image cannot be found by id, or
// when a write matched no row because the caller does not own it.
var ErrNotFound = errors.New("reference image not found")

// ReferenceImage is a user-saved custom character.
type ReferenceImage struct {
	ID        int64
	OwnerID   string
	Name      string
	ImageURL  string
	Category  string // optional, "" means uncategorized
	CreatedAt time.Time
}

// Clone creates a copy for safe reads.
func (r *ReferenceImage) Clone() *ReferenceImage {
	c := *r
	return &c
}

// Update describes a partial update. Nil fields are left unchanged.
type Update struct {
	Name     *string
	Category *string
}

// Repository defines the persistence port for reference images.
// Ownership is re-verified inside every update and delete statement.
type Repository interface {
	// Create persists a new reference image and fills in ID and CreatedAt.
	Create(ctx context.Context, ri *ReferenceImage) error

	// ListByOwner returns the owner's reference images, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*ReferenceImage, error)

	// Update applies a partial update to a row owned by ownerID.
	// Returns ErrNotFound when the row is missing or owned by someone else.
	Update(ctx context.Context, id int64, ownerID string, u Update) error

	// Delete removes a row owned by ownerID.
	// Returns ErrNotFound when the row is missing or owned by someone else.
	Delete(ctx context.Context, id int64, ownerID string) error
}
