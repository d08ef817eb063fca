package postgres

import (
	"context"
	"fmt"

	"temple-receipt-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// SequenceRepo implements ports.SequenceRepository over a daily_sequences
// table with a UNIQUE (category, date_bucket) constraint.
type SequenceRepo struct {
	pool Pool
}

// NewSequenceRepo creates a new SequenceRepo.
func NewSequenceRepo(pool Pool) *SequenceRepo {
	return &SequenceRepo{pool: pool}
}

// Next allocates the next sequence number for (category, dateBucket) inside
// the caller's transaction. The upsert reads, increments, and writes the
// counter in one statement, so concurrent allocators for the same key are
// serialized by the row lock and never observe the same value.
func (r *SequenceRepo) Next(ctx context.Context, tx pgx.Tx, category domain.Category, dateBucket string) (int64, error) {
	query := `INSERT INTO daily_sequences (category, date_bucket, last_sequence, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (category, date_bucket)
		DO UPDATE SET last_sequence = daily_sequences.last_sequence + 1, updated_at = NOW()
		RETURNING last_sequence`

	var seq int64
	if err := tx.QueryRow(ctx, query, category, dateBucket).Scan(&seq); err != nil {
		return 0, fmt.Errorf("allocate sequence %s/%s: %w", category, dateBucket, err)
	}
	return seq, nil
}
