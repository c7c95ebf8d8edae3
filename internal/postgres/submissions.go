package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidswap/vidswap-api/internal/submission"
)

// Compile-time check that SubmissionRepository implements the port.
var _ submission.Repository = (*SubmissionRepository)(nil)

// SubmissionRepository is the PostgreSQL implementation of submission.Repository.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new PostgreSQL submission repository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts a new pending submission and fills in the generated fields.
func (r *SubmissionRepository) Create(ctx context.Context, cs *submission.CharacterSubmission) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO character_submissions (image_url, suggested_name, suggested_category)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, status, created_at, updated_at`,
		cs.ImageURL, cs.SuggestedName, cs.SuggestedCategory,
	)
	if err := row.Scan(&cs.ID, &cs.Status, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// ListByStatus returns submissions with the given status, newest first.
func (r *SubmissionRepository) ListByStatus(ctx context.Context, status submission.Status) ([]*submission.CharacterSubmission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, image_url, suggested_name, COALESCE(suggested_category, ''),
		       status, created_at, updated_at
		FROM character_submissions
		WHERE status = $1
		ORDER BY id DESC`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	result := make([]*submission.CharacterSubmission, 0)
	for rows.Next() {
		var cs submission.CharacterSubmission
		err := rows.Scan(&cs.ID, &cs.ImageURL, &cs.SuggestedName, &cs.SuggestedCategory,
			&cs.Status, &cs.CreatedAt, &cs.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		result = append(result, &cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return result, nil
}

// SetStatus moves a submission to the given moderation state.
func (r *SubmissionRepository) SetStatus(ctx context.Context, id int64, status submission.Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE character_submissions
		SET status = $2, updated_at = now()
		WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return submission.ErrNotFound
	}
	return nil
}
