package service

import (
	"context"
	"fmt"
	"time"

	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// RecordServiceImpl implements ports.RecordService.
type RecordServiceImpl struct {
	recordRepo ports.RecordRepository
	auditRepo  ports.AuditRepository
	log        zerolog.Logger
}

// NewRecordService creates a new RecordServiceImpl.
func NewRecordService(recordRepo ports.RecordRepository, auditRepo ports.AuditRepository, log zerolog.Logger) *RecordServiceImpl {
	return &RecordServiceImpl{
		recordRepo: recordRepo,
		auditRepo:  auditRepo,
		log:        log,
	}
}

// GetByReceiptCode resolves a receipt code to its record.
func (s *RecordServiceImpl) GetByReceiptCode(ctx context.Context, code string) (*domain.Record, error) {
	if !domain.ValidReceiptCode(code) {
		return nil, apperror.Validation(fmt.Sprintf("malformed receipt code %q", code))
	}

	record, err := s.recordRepo.GetByReceiptCode(ctx, code)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup receipt %s: %w", code, err))
	}
	if record == nil {
		return nil, apperror.ErrRecordNotFound()
	}
	return record, nil
}

// List returns records for the admin surface with sane pagination bounds.
func (s *RecordServiceImpl) List(ctx context.Context, params ports.RecordListParams) ([]domain.Record, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	records, total, err := s.recordRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list records: %w", err))
	}
	return records, total, nil
}

// OverrideStatus applies an admin status change. The status machine still
// applies: terminal records reject every move, and the change is audited.
func (s *RecordServiceImpl) OverrideStatus(ctx context.Context, actor, code string, next domain.RecordStatus, reason string) (*domain.Record, error) {
	record, err := s.GetByReceiptCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !record.Status.CanTransitionTo(next) {
		return nil, apperror.ErrInvalidTransition(string(record.Status), string(next))
	}

	if err := s.recordRepo.UpdateStatus(ctx, record.ID, next); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update status: %w", err))
	}

	entry := &ports.AuditEntry{
		ID:          uuid.New(),
		Actor:       actor,
		Action:      "status_override",
		ReceiptCode: code,
		Detail:      fmt.Sprintf("%s -> %s: %s", record.Status, next, reason),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		// the override already happened; losing the trail is log-worthy, not fatal
		s.log.Error().Err(err).Str("receipt_code", code).Str("actor", actor).
			Msg("audit entry for status override failed")
	}

	s.log.Info().
		Str("receipt_code", code).
		Str("actor", actor).
		Str("from", string(record.Status)).
		Str("to", string(next)).
		Msg("record status overridden")

	record.Status = next
	record.UpdatedAt = time.Now().UTC()
	return record, nil
}
