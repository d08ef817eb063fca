package postgres

import (
	"context"
	"errors"
	"fmt"

	"temple-receipt-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// JobRepo implements ports.JobRepository.
type JobRepo struct {
	pool Pool
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(pool Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

// Create inserts a notification job.
func (r *JobRepo) Create(ctx context.Context, job *domain.NotificationJob) error {
	query := `INSERT INTO notification_jobs (id, receipt_code, channel, recipient, priority,
		attempts, status, external_id, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		job.ID, job.ReceiptCode, job.Channel, job.Recipient, job.Priority,
		job.Attempts, job.Status, job.ExternalID, job.LastError, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification job: %w", err)
	}
	return nil
}

// GetByExternalID resolves a job from the gateway's message identifier.
// Returns nil, nil when unknown (e.g., a callback for an admin copy sent
// before this process restarted).
func (r *JobRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.NotificationJob, error) {
	query := `SELECT id, receipt_code, channel, recipient, priority, attempts, status,
		external_id, last_error, created_at, updated_at
		FROM notification_jobs WHERE external_id = $1`

	job := &domain.NotificationJob{}
	err := r.pool.QueryRow(ctx, query, externalID).Scan(
		&job.ID, &job.ReceiptCode, &job.Channel, &job.Recipient, &job.Priority,
		&job.Attempts, &job.Status, &job.ExternalID, &job.LastError, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job by external id: %w", err)
	}
	return job, nil
}

// UpdateOutcome records a job's new status and gateway identifiers.
func (r *JobRepo) UpdateOutcome(ctx context.Context, id uuid.UUID, status domain.JobStatus, externalID, lastError string) error {
	query := `UPDATE notification_jobs
		SET status = $1, external_id = $2, last_error = $3, attempts = attempts + 1, updated_at = NOW()
		WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, status, externalID, lastError, id)
	if err != nil {
		return fmt.Errorf("update job outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification job not found: %s", id)
	}
	return nil
}
