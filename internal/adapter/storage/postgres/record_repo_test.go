package postgres

import (
	"context"
	"testing"
	"time"

	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord() *domain.Record {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Record{
		ID:          uuid.New(),
		Receipt:     domain.NewReceipt(domain.CategoryDonation, "161024", 7),
		Category:    domain.CategoryDonation,
		AmountPs:    110000,
		PayerName:   "Ravi Kumar",
		PayerPhone:  "+919876543210",
		PayerEmail:  "ravi@example.com",
		ServiceName: "Annadana",
		PaymentID:   "pay_123",
		OrderID:     "order_456",
		Status:      domain.RecordStatusSuccess,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func recordColumnNames() []string {
	return []string{"id", "receipt_code", "category", "date_bucket", "sequence", "amount_ps",
		"payer_name", "payer_phone", "payer_email", "service_name", "payment_id", "order_id",
		"status", "created_at", "updated_at"}
}

func recordRow(rec *domain.Record) *pgxmock.Rows {
	return pgxmock.NewRows(recordColumnNames()).AddRow(
		rec.ID, rec.Receipt.Code, rec.Category, rec.Receipt.DateBucket, rec.Receipt.Sequence,
		rec.AmountPs, rec.PayerName, rec.PayerPhone, rec.PayerEmail, rec.ServiceName,
		rec.PaymentID, rec.OrderID, rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
}

func TestRecordRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRecordRepo(mock)
	rec := newTestRecord()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO records").
		WithArgs(
			rec.ID, rec.Receipt.Code, rec.Category, rec.Receipt.DateBucket, rec.Receipt.Sequence,
			rec.AmountPs, rec.PayerName, rec.PayerPhone, rec.PayerEmail, rec.ServiceName,
			rec.PaymentID, rec.OrderID, rec.Status, rec.CreatedAt, rec.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, rec)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepo_GetByReceiptCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRecordRepo(mock)
	rec := newTestRecord()

	mock.ExpectQuery("FROM records WHERE receipt_code").
		WithArgs(rec.Receipt.Code).
		WillReturnRows(recordRow(rec))

	result, err := repo.GetByReceiptCode(context.Background(), rec.Receipt.Code)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, rec.ID, result.ID)
	assert.Equal(t, rec.Receipt.Code, result.Receipt.Code)
	assert.Equal(t, rec.Category, result.Receipt.Category, "receipt category is rebuilt on scan")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepo_GetByReceiptCode_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRecordRepo(mock)

	mock.ExpectQuery("FROM records WHERE receipt_code").
		WithArgs("DN-161024-9999").
		WillReturnRows(pgxmock.NewRows(recordColumnNames()))

	result, err := repo.GetByReceiptCode(context.Background(), "DN-161024-9999")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRecordRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE records SET status").
		WithArgs(domain.RecordStatusCompleted, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateStatus(context.Background(), id, domain.RecordStatusCompleted)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRecordRepo(mock)

	mock.ExpectExec("UPDATE records SET status").
		WithArgs(domain.RecordStatusCompleted, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateStatus(context.Background(), uuid.New(), domain.RecordStatusCompleted)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepo_List_WithFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRecordRepo(mock)
	rec := newTestRecord()

	cat := domain.CategoryDonation
	status := domain.RecordStatusSuccess

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(cat, status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("FROM records WHERE .+ ORDER BY created_at").
		WithArgs(cat, status, 20, 0).
		WillReturnRows(recordRow(rec))

	records, total, err := repo.List(context.Background(), ports.RecordListParams{
		Category: &cat,
		Status:   &status,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, rec.Receipt.Code, records[0].Receipt.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
