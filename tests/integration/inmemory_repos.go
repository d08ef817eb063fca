package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Sequence Repo ---

type inMemorySequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newInMemorySequenceRepo() *inMemorySequenceRepo {
	return &inMemorySequenceRepo{counters: make(map[string]int64)}
}

func (r *inMemorySequenceRepo) Next(ctx context.Context, tx pgx.Tx, category domain.Category, dateBucket string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(category) + "|" + dateBucket
	r.counters[key]++
	return r.counters[key], nil
}

// --- In-Memory Record Repo ---

type inMemoryRecordRepo struct {
	mu      sync.RWMutex
	records map[string]*domain.Record // by receipt code
}

func newInMemoryRecordRepo() *inMemoryRecordRepo {
	return &inMemoryRecordRepo{records: make(map[string]*domain.Record)}
}

func (r *inMemoryRecordRepo) Create(ctx context.Context, tx pgx.Tx, record *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.Receipt.Code]; ok {
		return fmt.Errorf("receipt code already exists")
	}
	cp := *record
	r.records[record.Receipt.Code] = &cp
	return nil
}

func (r *inMemoryRecordRepo) GetByReceiptCode(ctx context.Context, code string) (*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[code]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *inMemoryRecordRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RecordStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			rec.Status = status
			return nil
		}
	}
	return fmt.Errorf("record not found")
}

func (r *inMemoryRecordRepo) List(ctx context.Context, params ports.RecordListParams) ([]domain.Record, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Record, 0, len(r.records))
	for _, rec := range r.records {
		if params.Category != nil && rec.Category != *params.Category {
			continue
		}
		if params.Status != nil && rec.Status != *params.Status {
			continue
		}
		if params.From != nil && rec.CreatedAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && rec.CreatedAt.Unix() > *params.To {
			continue
		}
		matched = append(matched, *rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Receipt.Code < matched[j].Receipt.Code
	})

	total := int64(len(matched))
	start := (params.Page - 1) * params.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// --- In-Memory Job Repo ---

type inMemoryJobRepo struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*domain.NotificationJob
}

func newInMemoryJobRepo() *inMemoryJobRepo {
	return &inMemoryJobRepo{jobs: make(map[uuid.UUID]*domain.NotificationJob)}
}

func (r *inMemoryJobRepo) Create(ctx context.Context, job *domain.NotificationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *inMemoryJobRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.NotificationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, j := range r.jobs {
		if j.ExternalID == externalID {
			cp := *j
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryJobRepo) UpdateOutcome(ctx context.Context, id uuid.UUID, status domain.JobStatus, externalID, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("job not found")
	}
	j.Status = status
	if externalID != "" {
		j.ExternalID = externalID
	}
	j.LastError = lastError
	return nil
}

func (r *inMemoryJobRepo) byReceiptCode(code string) []domain.NotificationJob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.NotificationJob
	for _, j := range r.jobs {
		if j.ReceiptCode == code {
			out = append(out, *j)
		}
	}
	return out
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []ports.AuditEntry
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Insert(ctx context.Context, entry *ports.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
