package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecordRepo implements ports.RecordRepository.
type RecordRepo struct {
	pool Pool
}

// NewRecordRepo creates a new RecordRepo.
func NewRecordRepo(pool Pool) *RecordRepo {
	return &RecordRepo{pool: pool}
}

const recordColumns = `id, receipt_code, category, date_bucket, sequence, amount_ps,
		payer_name, payer_phone, payer_email, service_name, payment_id, order_id,
		status, created_at, updated_at`

// Create inserts a new record within the given transaction. The caller
// allocates the receipt sequence in the same transaction so neither the
// counter bump nor the record outlives the other.
func (r *RecordRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.Record) error {
	query := `INSERT INTO records (id, receipt_code, category, date_bucket, sequence, amount_ps,
		payer_name, payer_phone, payer_email, service_name, payment_id, order_id,
		status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := tx.Exec(ctx, query,
		rec.ID, rec.Receipt.Code, rec.Category, rec.Receipt.DateBucket, rec.Receipt.Sequence,
		rec.AmountPs, rec.PayerName, rec.PayerPhone, rec.PayerEmail, rec.ServiceName,
		rec.PaymentID, rec.OrderID, rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// GetByReceiptCode fetches a record by its receipt code. Returns nil, nil
// when no record exists.
func (r *RecordRepo) GetByReceiptCode(ctx context.Context, code string) (*domain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE receipt_code = $1`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get record by receipt code: %w", err)
	}
	return rec, nil
}

// UpdateStatus sets a record's status.
func (r *RecordRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RecordStatus) error {
	query := `UPDATE records SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update record status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record not found: %s", id)
	}
	return nil
}

// List returns records matching the filter plus the unpaged total.
func (r *RecordRepo) List(ctx context.Context, params ports.RecordListParams) ([]domain.Record, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	idx := 1

	if params.Category != nil {
		where = append(where, fmt.Sprintf("category = $%d", idx))
		args = append(args, *params.Category)
		idx++
	}
	if params.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, *params.Status)
		idx++
	}
	if params.From != nil {
		where = append(where, fmt.Sprintf("created_at >= to_timestamp($%d)", idx))
		args = append(args, *params.From)
		idx++
	}
	if params.To != nil {
		where = append(where, fmt.Sprintf("created_at <= to_timestamp($%d)", idx))
		args = append(args, *params.To)
		idx++
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM records WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	listQuery := fmt.Sprintf(`SELECT %s FROM records WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		recordColumns, whereClause, idx, idx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate records: %w", err)
	}

	return records, total, nil
}

// scanRecord reads one record row, reassembling the embedded Receipt.
func scanRecord(row pgx.Row) (*domain.Record, error) {
	rec := &domain.Record{}
	err := row.Scan(
		&rec.ID, &rec.Receipt.Code, &rec.Category, &rec.Receipt.DateBucket, &rec.Receipt.Sequence,
		&rec.AmountPs, &rec.PayerName, &rec.PayerPhone, &rec.PayerEmail, &rec.ServiceName,
		&rec.PaymentID, &rec.OrderID, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Receipt.Category = rec.Category
	return rec, nil
}
