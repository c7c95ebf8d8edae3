package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidswap/vidswap-api/internal/refimage"
)

// Compile-time check that ReferenceImageRepository implements the port.
var _ refimage.Repository = (*ReferenceImageRepository)(nil)

// ReferenceImageRepository is the PostgreSQL implementation of refimage.Repository.
type ReferenceImageRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceImageRepository creates a new PostgreSQL reference image repository.
func NewReferenceImageRepository(pool *pgxpool.Pool) *ReferenceImageRepository {
	return &ReferenceImageRepository{pool: pool}
}

// Create inserts a new reference image and fills in the generated fields.
func (r *ReferenceImageRepository) Create(ctx context.Context, ri *refimage.ReferenceImage) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reference_images (owner_id, name, image_url, category)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at`,
		ri.OwnerID, ri.Name, ri.ImageURL, ri.Category,
	)
	if err := row.Scan(&ri.ID, &ri.CreatedAt); err != nil {
		return fmt.Errorf("insert reference image: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's reference images, newest first.
func (r *ReferenceImageRepository) ListByOwner(ctx context.Context, ownerID string) ([]*refimage.ReferenceImage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, name, image_url, COALESCE(category, ''), created_at
		FROM reference_images
		WHERE owner_id = $1
		ORDER BY id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reference images: %w", err)
	}
	defer rows.Close()

	result := make([]*refimage.ReferenceImage, 0)
	for rows.Next() {
		var ri refimage.ReferenceImage
		if err := rows.Scan(&ri.ID, &ri.OwnerID, &ri.Name, &ri.ImageURL, &ri.Category, &ri.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reference image: %w", err)
		}
		result = append(result, &ri)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reference images: %w", err)
	}
	return result, nil
}

// Update applies a partial update to an owned row. COALESCE keeps columns
// whose update field is nil.
func (r *ReferenceImageRepository) Update(ctx context.Context, id int64, ownerID string, u refimage.Update) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reference_images
		SET name = COALESCE($3, name), category = COALESCE($4, category)
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID, u.Name, u.Category,
	)
	if err != nil {
		return fmt.Errorf("update reference image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return refimage.ErrNotFound
	}
	return nil
}

// Delete removes an owned row.
func (r *ReferenceImageRepository) Delete(ctx context.Context, id int64, ownerID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM reference_images WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete reference image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return refimage.ErrNotFound
	}
	return nil
}
