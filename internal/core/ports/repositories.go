package ports

import (
	"context"
	"time"

	"temple-receipt-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SequenceRepository allocates daily receipt sequence numbers. Correctness
// under concurrent callers comes from the store's transactional isolation,
// not in-process locking: Next must never hand the same value to two callers
// for the same (category, date bucket).
type SequenceRepository interface {
	// Next allocates the next sequence inside the given transaction. It
	// creates the counter row at 1 when absent.
	Next(ctx context.Context, tx pgx.Tx, category domain.Category, dateBucket string) (int64, error)
}

// RecordRepository persists business records. Create runs inside the same
// transaction as sequence allocation so neither outlives the other.
type RecordRepository interface {
	Create(ctx context.Context, tx pgx.Tx, record *domain.Record) error
	GetByReceiptCode(ctx context.Context, code string) (*domain.Record, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RecordStatus) error
	List(ctx context.Context, params RecordListParams) ([]domain.Record, int64, error)
}

// RecordListParams holds filter + pagination for the admin listing.
type RecordListParams struct {
	Category *domain.Category
	Status   *domain.RecordStatus
	From     *int64 // Unix timestamp
	To       *int64 // Unix timestamp
	Page     int
	PageSize int
}

// JobRepository persists notification jobs so asynchronous delivery reports
// can be resolved back to them.
type JobRepository interface {
	Create(ctx context.Context, job *domain.NotificationJob) error
	GetByExternalID(ctx context.Context, externalID string) (*domain.NotificationJob, error)
	UpdateOutcome(ctx context.Context, id uuid.UUID, status domain.JobStatus, externalID, lastError string) error
}

// AuditRepository records explicitly-logged administrative actions.
type AuditRepository interface {
	Insert(ctx context.Context, entry *AuditEntry) error
}

// AuditEntry is one admin action worth keeping.
type AuditEntry struct {
	ID          uuid.UUID
	Actor       string
	Action      string
	ReceiptCode string
	Detail      string
	CreatedAt   time.Time
}

// DedupeStore detects replayed delivery callbacks. MarkSeen atomically
// records a key and reports whether it was new; replays return false.
type DedupeStore interface {
	MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
