package service

import (
	"context"
	"fmt"
	"time"

	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"

	"github.com/rs/zerolog"
)

// IngestServiceImpl implements ports.IngestService. Delivery callbacks are
// retried by the gateway, arrive out of order, and sometimes reference
// messages this process never sent; ingestion absorbs all of that without
// ever propagating a client-visible failure.
type IngestServiceImpl struct {
	jobRepo   ports.JobRepository
	dedupe    ports.DedupeStore
	metrics   ports.MetricsRecorder
	alerts    ports.AlertService
	dedupeTTL time.Duration
	log       zerolog.Logger
}

// NewIngestService creates a new IngestServiceImpl.
func NewIngestService(
	jobRepo ports.JobRepository,
	dedupe ports.DedupeStore,
	metrics ports.MetricsRecorder,
	alerts ports.AlertService,
	dedupeTTL time.Duration,
	log zerolog.Logger,
) *IngestServiceImpl {
	return &IngestServiceImpl{
		jobRepo:   jobRepo,
		dedupe:    dedupe,
		metrics:   metrics,
		alerts:    alerts,
		dedupeTTL: dedupeTTL,
		log:       log,
	}
}

// Ingest applies one delivery report: dedupe, resolve the job, count, then
// advance the job if the status moves forward. Unknown messages and replays
// are not errors.
func (s *IngestServiceImpl) Ingest(ctx context.Context, report domain.DeliveryReport) error {
	if report.ExternalID == "" {
		s.log.Warn().Msg("delivery report without message id dropped")
		return nil
	}
	if !report.Status.Valid() {
		s.log.Warn().
			Str("external_id", report.ExternalID).
			Str("status", string(report.Status)).
			Msg("delivery report with unknown status dropped")
		return nil
	}

	// Same (message, status) pair counts once, no matter how often the
	// gateway retries it.
	dedupeKey := report.ExternalID + ":" + string(report.Status)
	fresh, err := s.dedupe.MarkSeen(ctx, dedupeKey, s.dedupeTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("key", dedupeKey).Msg("dedupe store unavailable, processing anyway")
	} else if !fresh {
		s.log.Debug().Str("key", dedupeKey).Msg("duplicate delivery report ignored")
		return nil
	}

	job, err := s.jobRepo.GetByExternalID(ctx, report.ExternalID)
	if err != nil {
		return fmt.Errorf("resolve job for %s: %w", report.ExternalID, err)
	}
	if job == nil {
		// admin copies and messages from before a restart have no job row
		// and stay out of the delivery counters
		s.log.Debug().Str("external_id", report.ExternalID).Msg("delivery report for unknown message")
		return nil
	}

	s.countReport(report.Status)

	next := report.Status.JobStatus()
	if !job.Status.CanAdvanceTo(next) {
		s.log.Debug().
			Str("job_id", job.ID.String()).
			Str("from", string(job.Status)).
			Str("to", string(next)).
			Msg("stale delivery report, status not advanced")
		return nil
	}

	errText := ""
	if report.ErrorCode != "" || report.ErrorMessage != "" {
		errText = fmt.Sprintf("%s: %s", report.ErrorCode, report.ErrorMessage)
	}
	if err := s.jobRepo.UpdateOutcome(ctx, job.ID, next, report.ExternalID, errText); err != nil {
		return fmt.Errorf("advance job %s: %w", job.ID, err)
	}

	if report.Status.IsTerminalFailure() {
		s.alerts.Raise(ctx, "Notification delivery failed",
			fmt.Sprintf("Message %s to %s for receipt %s failed: %s",
				report.ExternalID, job.Recipient, job.ReceiptCode, errText))
	}

	return nil
}

// countReport updates the delivery counters for one fresh report. Outbound
// sends are counted at dispatch time, so queued/sent confirmations are not
// re-counted here.
func (s *IngestServiceImpl) countReport(status domain.DeliveryStatus) {
	switch status {
	case domain.DeliveryDelivered:
		s.metrics.RecordDelivered()
	case domain.DeliveryRead:
		s.metrics.RecordRead()
	case domain.DeliveryFailed, domain.DeliveryUndelivered:
		s.metrics.RecordFailed()
	}
}
