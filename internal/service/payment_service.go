package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// istZone is the temple's local time zone; receipt date buckets roll over at
// local midnight, not UTC.
var istZone = time.FixedZone("IST", 5*3600+30*60)

// ReceiptServiceImpl implements ports.PaymentProcessor. Sequence allocation
// and record persistence share one transaction: a receipt number is never
// observable without its record, and a crash leaks neither.
type ReceiptServiceImpl struct {
	seqRepo    ports.SequenceRepository
	recordRepo ports.RecordRepository
	transactor ports.DBTransactor
	certSvc    ports.CertificateService
	dispatcher ports.Dispatcher
	tasks      ports.TaskQueue
	log        zerolog.Logger

	now func() time.Time
}

// NewReceiptService creates a new ReceiptServiceImpl.
func NewReceiptService(
	seqRepo ports.SequenceRepository,
	recordRepo ports.RecordRepository,
	transactor ports.DBTransactor,
	certSvc ports.CertificateService,
	dispatcher ports.Dispatcher,
	tasks ports.TaskQueue,
	log zerolog.Logger,
) *ReceiptServiceImpl {
	return &ReceiptServiceImpl{
		seqRepo:    seqRepo,
		recordRepo: recordRepo,
		transactor: transactor,
		certSvc:    certSvc,
		dispatcher: dispatcher,
		tasks:      tasks,
		log:        log,
		now:        time.Now,
	}
}

// Process turns a verified payment event into a persisted, numbered record,
// then pushes certificate rendering and notification fan-out off the
// critical path. The caller gets the record as soon as it is durable.
func (s *ReceiptServiceImpl) Process(ctx context.Context, event *domain.PaymentEvent) (*domain.Record, error) {
	if event.AmountPs <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if event.Contact.Name == "" || event.Contact.Phone == "" || event.PaymentID == "" {
		return nil, apperror.ErrMissingPaymentFields()
	}
	if err := event.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	now := s.now().UTC()
	dateBucket := domain.DateBucket(now.In(istZone))

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	seq, err := s.seqRepo.Next(ctx, tx, event.Category, dateBucket)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("allocate sequence: %w", err))
	}

	receipt := domain.NewReceipt(event.Category, dateBucket, seq)
	record := &domain.Record{
		ID:          uuid.New(),
		Receipt:     receipt,
		Category:    event.Category,
		AmountPs:    event.AmountPs,
		PayerName:   event.Contact.Name,
		PayerPhone:  event.Contact.Phone,
		PayerEmail:  event.Contact.Email,
		ServiceName: event.ServiceName(),
		PaymentID:   event.PaymentID,
		OrderID:     event.OrderID,
		Status:      domain.InitialStatus(event.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.recordRepo.Create(ctx, tx, record); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperror.ErrDuplicateReceipt()
		}
		return nil, apperror.InternalError(fmt.Errorf("persist record: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("commit: %w", err))
	}

	s.log.Info().
		Str("receipt_code", receipt.Code).
		Str("category", string(event.Category)).
		Int64("amount_ps", event.AmountPs).
		Str("payment_id", event.PaymentID).
		Msg("receipt issued")

	s.scheduleFollowUp(event, record)

	return record, nil
}

// scheduleFollowUp queues certificate rendering and notification fan-out.
// The record is already durable; a full task queue only costs the payer
// their message, which the admin surface can re-trigger.
func (s *ReceiptServiceImpl) scheduleFollowUp(event *domain.PaymentEvent, record *domain.Record) {
	receipt := record.Receipt
	ok := s.tasks.Enqueue("receipt-follow-up", func(ctx context.Context) {
		certURL := ""
		if event.NeedsCertificate() && event.Donation != nil && event.Donation.Want80GNote {
			result := s.certSvc.Render(ctx, ports.CertificateData{
				DonorName:   event.Contact.Name,
				AmountPs:    event.AmountPs,
				ReceiptCode: receipt.Code,
				Date:        record.CreatedAt.In(istZone).Format("2006-01-02"),
				PaymentMode: "Online",
				Show80GNote: true,
			})
			if result.Err != nil {
				// notifications go out regardless, just without the artifact
				s.log.Warn().Err(result.Err).Str("receipt_code", receipt.Code).Msg("certificate render failed")
			} else {
				certURL = result.DownloadURL
			}
		}

		s.dispatcher.Dispatch(ctx, event, receipt, certURL)
	})
	if !ok {
		s.log.Error().
			Str("receipt_code", receipt.Code).
			Msg("follow-up dropped, task queue full")
	}
}
