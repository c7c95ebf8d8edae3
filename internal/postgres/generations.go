package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidswap/vidswap-api/internal/generation"
)

// Compile-time check that GenerationRepository implements the port.
var _ generation.Repository = (*GenerationRepository)(nil)

// GenerationRepository is the PostgreSQL implementation of
// generation.Repository. The status guards live in the UPDATE predicates:
// a statement that matches zero rows reports ErrNotFound, which covers both
// "row missing", "not the owner" and "transition blocked by a terminal
// state" without a prior read.
type GenerationRepository struct {
	pool *pgxpool.Pool
}

// NewGenerationRepository creates a new PostgreSQL generation repository.
func NewGenerationRepository(pool *pgxpool.Pool) *GenerationRepository {
	return &GenerationRepository{pool: pool}
}

const generationColumns = `
	id, owner_id, status, character_name, character_image_url,
	source_aspect_ratio, output_aspect_ratio,
	COALESCE(run_id, ''), COALESCE(result_url, ''), COALESCE(error_message, ''),
	COALESCE(owner_email, ''), created_at, updated_at`

func scanGeneration(row pgx.Row) (*generation.Generation, error) {
	var g generation.Generation
	err := row.Scan(
		&g.ID, &g.OwnerID, &g.Status, &g.CharacterName, &g.CharacterImageURL,
		&g.SourceAspectRatio, &g.OutputAspectRatio,
		&g.RunID, &g.ResultURL, &g.ErrorMessage,
		&g.OwnerEmail, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, generation.ErrNotFound
		}
		return nil, fmt.Errorf("scan generation: %w", err)
	}
	return &g, nil
}

// Create inserts a new pending generation and fills in the generated fields.
func (r *GenerationRepository) Create(ctx context.Context, g *generation.Generation) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO generations
			(owner_id, character_name, character_image_url,
			 source_aspect_ratio, output_aspect_ratio, owner_email)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, status, created_at, updated_at`,
		g.OwnerID, g.CharacterName, g.CharacterImageURL,
		g.SourceAspectRatio, g.OutputAspectRatio, g.OwnerEmail,
	)
	if err := row.Scan(&g.ID, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// FindByID retrieves a generation by id.
func (r *GenerationRepository) FindByID(ctx context.Context, id int64) (*generation.Generation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+generationColumns+` FROM generations WHERE id = $1`, id)
	return scanGeneration(row)
}

// ListByOwner returns the owner's generations, newest first.
func (r *GenerationRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*generation.Generation, error) {
	query := `SELECT ` + generationColumns + `
		FROM generations WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	result := make([]*generation.Generation, 0)
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return result, nil
}

// Begin marks a pending or processing generation as processing.
func (r *GenerationRepository) Begin(ctx context.Context, id int64, runID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE generations
		SET status = 'processing', run_id = $2, updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'processing')`,
		id, runID,
	)
	if err != nil {
		return fmt.Errorf("begin generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return generation.ErrNotFound
	}
	return nil
}

// Complete marks a generation completed. A failed row never matches;
// re-completing an already-completed row is an idempotent rewrite.
func (r *GenerationRepository) Complete(ctx context.Context, id int64, resultURL string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE generations
		SET status = 'completed', result_url = $2, error_message = NULL, updated_at = now()
		WHERE id = $1 AND status <> 'failed'`,
		id, resultURL,
	)
	if err != nil {
		return fmt.Errorf("complete generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return generation.ErrNotFound
	}
	return nil
}

// Fail marks a generation failed. A completed row never matches.
func (r *GenerationRepository) Fail(ctx context.Context, id int64, message string) error {
	if message == "" {
		message = generation.GenericFailureMessage
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE generations
		SET status = 'failed', error_message = $2, result_url = NULL, updated_at = now()
		WHERE id = $1 AND status <> 'completed'`,
		id, message,
	)
	if err != nil {
		return fmt.Errorf("fail generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return generation.ErrNotFound
	}
	return nil
}

// FailOwned is Fail with the ownership check in the same statement.
func (r *GenerationRepository) FailOwned(ctx context.Context, id int64, ownerID, message string) error {
	if message == "" {
		message = generation.GenericFailureMessage
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE generations
		SET status = 'failed', error_message = $3, result_url = NULL, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND status <> 'completed'`,
		id, ownerID, message,
	)
	if err != nil {
		return fmt.Errorf("fail generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return generation.ErrNotFound
	}
	return nil
}

// Delete removes a generation owned by ownerID.
func (r *GenerationRepository) Delete(ctx context.Context, id int64, ownerID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM generations WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return generation.ErrNotFound
	}
	return nil
}
