package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type ingestTestDeps struct {
	svc     *IngestServiceImpl
	jobRepo *mocks.MockJobRepository
	dedupe  *mocks.MockDedupeStore
	metrics *mocks.MockMetricsRecorder
	alerts  *mocks.MockAlertService
	ctrl    *gomock.Controller
}

func setupIngestService(t *testing.T) *ingestTestDeps {
	ctrl := gomock.NewController(t)
	d := &ingestTestDeps{
		jobRepo: mocks.NewMockJobRepository(ctrl),
		dedupe:  mocks.NewMockDedupeStore(ctrl),
		metrics: mocks.NewMockMetricsRecorder(ctrl),
		alerts:  mocks.NewMockAlertService(ctrl),
		ctrl:    ctrl,
	}
	d.svc = NewIngestService(d.jobRepo, d.dedupe, d.metrics, d.alerts, 24*time.Hour, zerolog.Nop())
	return d
}

func sentJob() *domain.NotificationJob {
	return &domain.NotificationJob{
		ID:          uuid.New(),
		ReceiptCode: "DN-161024-0007",
		Channel:     domain.ChannelWhatsApp,
		Recipient:   "+919876543210",
		Status:      domain.JobStatusSent,
		ExternalID:  "SM001",
	}
}

func TestIngestService_DeliveredAdvancesJob(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	job := sentJob()

	d.dedupe.EXPECT().MarkSeen(ctx, "SM001:delivered", 24*time.Hour).Return(true, nil)
	d.metrics.EXPECT().RecordDelivered()
	d.jobRepo.EXPECT().GetByExternalID(ctx, "SM001").Return(job, nil)
	d.jobRepo.EXPECT().UpdateOutcome(ctx, job.ID, domain.JobStatusDelivered, "SM001", "").Return(nil)

	err := d.svc.Ingest(ctx, domain.DeliveryReport{ExternalID: "SM001", Status: domain.DeliveryDelivered})
	assert.NoError(t, err)
}

func TestIngestService_DuplicateReportIgnored(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.dedupe.EXPECT().MarkSeen(ctx, "SM001:delivered", 24*time.Hour).Return(false, nil)
	// no metrics, no repo calls

	err := d.svc.Ingest(ctx, domain.DeliveryReport{ExternalID: "SM001", Status: domain.DeliveryDelivered})
	assert.NoError(t, err)
}

func TestIngestService_DedupeOutageFailsOpen(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	job := sentJob()

	d.dedupe.EXPECT().MarkSeen(ctx, gomock.Any(), gomock.Any()).Return(false, errors.New("redis down"))
	d.metrics.EXPECT().RecordDelivered()
	d.jobRepo.EXPECT().GetByExternalID(ctx, "SM001").Return(job, nil)
	d.jobRepo.EXPECT().UpdateOutcome(ctx, job.ID, domain.JobStatusDelivered, "SM001", "").Return(nil)

	err := d.svc.Ingest(ctx, domain.DeliveryReport{ExternalID: "SM001", Status: domain.DeliveryDelivered})
	assert.NoError(t, err, "a dedupe outage must not drop reports")
}

func TestIngestService_UnknownMessageIsNotAnError(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.dedupe.EXPECT().MarkSeen(ctx, gomock.Any(), gomock.Any()).Return(true, nil)
	// no metrics expectations: reports that resolve to no job, like admin
	// copies, stay out of the delivery counters
	d.jobRepo.EXPECT().GetByExternalID(ctx, "SMunknown").Return(nil, nil)

	err := d.svc.Ingest(ctx, domain.DeliveryReport{ExternalID: "SMunknown", Status: domain.DeliveryDelivered})
	assert.NoError(t, err)
}

func TestIngestService_StaleReportDoesNotRegress(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	job := sentJob()
	job.Status = domain.JobStatusDelivered

	d.dedupe.EXPECT().MarkSeen(ctx, "SM001:sent", 24*time.Hour).Return(true, nil)
	d.jobRepo.EXPECT().GetByExternalID(ctx, "SM001").Return(job, nil)
	// no UpdateOutcome: delivered never moves back to sent

	err := d.svc.Ingest(ctx, domain.DeliveryReport{ExternalID: "SM001", Status: domain.DeliverySent})
	assert.NoError(t, err)
}

func TestIngestService_TerminalFailureAlertsAdmin(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	job := sentJob()

	d.dedupe.EXPECT().MarkSeen(ctx, "SM001:undelivered", 24*time.Hour).Return(true, nil)
	d.metrics.EXPECT().RecordFailed()
	d.jobRepo.EXPECT().GetByExternalID(ctx, "SM001").Return(job, nil)
	d.jobRepo.EXPECT().UpdateOutcome(ctx, job.ID, domain.JobStatusFailed, "SM001", "63016: Failed to deliver").Return(nil)
	d.alerts.EXPECT().Raise(ctx, "Notification delivery failed", gomock.Any())

	err := d.svc.Ingest(ctx, domain.DeliveryReport{
		ExternalID:   "SM001",
		Status:       domain.DeliveryUndelivered,
		ErrorCode:    "63016",
		ErrorMessage: "Failed to deliver",
	})
	assert.NoError(t, err)
}

func TestIngestService_InvalidStatusDropped(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()

	err := d.svc.Ingest(context.Background(), domain.DeliveryReport{ExternalID: "SM001", Status: "exploded"})
	assert.NoError(t, err)
}

func TestIngestService_MissingExternalIDDropped(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()

	err := d.svc.Ingest(context.Background(), domain.DeliveryReport{Status: domain.DeliveryDelivered})
	assert.NoError(t, err)
}

func TestIngestService_RepoErrorSurfaces(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.dedupe.EXPECT().MarkSeen(ctx, gomock.Any(), gomock.Any()).Return(true, nil)
	d.jobRepo.EXPECT().GetByExternalID(ctx, "SM001").Return(nil, errors.New("db down"))

	err := d.svc.Ingest(ctx, domain.DeliveryReport{ExternalID: "SM001", Status: domain.DeliveryDelivered})
	assert.Error(t, err)
}

func TestIngestService_ReadAfterDeliveredStillCounts(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	job := sentJob()
	job.Status = domain.JobStatusDelivered

	d.dedupe.EXPECT().MarkSeen(ctx, "SM001:read", 24*time.Hour).Return(true, nil)
	d.metrics.EXPECT().RecordRead()
	d.jobRepo.EXPECT().GetByExternalID(ctx, "SM001").Return(job, nil)
	// no UpdateOutcome: the job already sits at delivered

	err := d.svc.Ingest(ctx, domain.DeliveryReport{ExternalID: "SM001", Status: domain.DeliveryRead})
	assert.NoError(t, err)
}

func TestIngestService_ReadCountsSeparately(t *testing.T) {
	d := setupIngestService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	job := sentJob()
	job.Status = domain.JobStatusSent

	d.dedupe.EXPECT().MarkSeen(ctx, "SM001:read", 24*time.Hour).Return(true, nil)
	d.metrics.EXPECT().RecordRead()
	d.jobRepo.EXPECT().GetByExternalID(ctx, "SM001").Return(job, nil)
	d.jobRepo.EXPECT().UpdateOutcome(ctx, job.ID, domain.JobStatusDelivered, "SM001", "").Return(nil)

	err := d.svc.Ingest(ctx, domain.DeliveryReport{ExternalID: "SM001", Status: domain.DeliveryRead})
	assert.NoError(t, err)
}
