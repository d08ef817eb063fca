package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DispatchServiceImpl implements ports.Dispatcher. One logical event fans
// out to every eligible channel concurrently; a channel failure never blocks
// or cancels the others.
type DispatchServiceImpl struct {
	senders     []ports.ChannelSender
	jobRepo     ports.JobRepository
	metrics     ports.MetricsRecorder
	alerts      ports.AlertService
	adminNumber string
	log         zerolog.Logger
}

// NewDispatchService creates a new DispatchServiceImpl. adminNumber may be
// empty, which disables the admin copy.
func NewDispatchService(
	senders []ports.ChannelSender,
	jobRepo ports.JobRepository,
	metrics ports.MetricsRecorder,
	alerts ports.AlertService,
	adminNumber string,
	log zerolog.Logger,
) *DispatchServiceImpl {
	return &DispatchServiceImpl{
		senders:     senders,
		jobRepo:     jobRepo,
		metrics:     metrics,
		alerts:      alerts,
		adminNumber: adminNumber,
		log:         log,
	}
}

// Dispatch sends the receipt notification on every channel that has a
// recipient, waits for all of them, then sends the admin copy and raises an
// alert if nothing got through.
func (s *DispatchServiceImpl) Dispatch(ctx context.Context, event *domain.PaymentEvent, receipt domain.Receipt, certificateURL string) ports.DispatchResult {
	outcomes := make([]ports.ChannelOutcome, 0, len(s.senders))
	mu := sync.Mutex{}
	var wg sync.WaitGroup

	for _, sender := range s.senders {
		recipient := s.recipientFor(sender.Channel(), event)
		if recipient == "" {
			continue
		}

		wg.Add(1)
		go func(sender ports.ChannelSender, recipient string) {
			defer wg.Done()
			outcome := s.sendOne(ctx, sender, recipient, event, receipt, certificateURL)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		}(sender, recipient)
	}
	wg.Wait()

	result := ports.DispatchResult{PerChannel: outcomes}

	if event.NeedsAdminCopy() {
		s.sendAdminCopy(ctx, event, receipt)
	}

	if result.AllFailed() {
		s.log.Error().
			Str("receipt_code", receipt.Code).
			Msg("every notification channel failed")
		s.alerts.Raise(ctx, "Receipt notification undeliverable",
			fmt.Sprintf("Receipt %s for %s could not be delivered on any channel.", receipt.Code, event.Contact.Name))
	}

	return result
}

// sendOne persists a job, attempts the send, and records the outcome. The
// job row exists before the wire attempt so a crash mid-send leaves evidence.
func (s *DispatchServiceImpl) sendOne(ctx context.Context, sender ports.ChannelSender, recipient string, event *domain.PaymentEvent, receipt domain.Receipt, certificateURL string) ports.ChannelOutcome {
	channel := sender.Channel()
	now := time.Now().UTC()
	job := &domain.NotificationJob{
		ID:          uuid.New(),
		ReceiptCode: receipt.Code,
		Channel:     channel,
		Recipient:   recipient,
		Priority:    domain.PriorityHigh,
		Status:      domain.JobStatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		// delivery still matters more than bookkeeping
		s.log.Error().Err(err).Str("receipt_code", receipt.Code).Str("channel", string(channel)).
			Msg("persisting notification job failed")
	}

	msg := s.composeMessage(channel, recipient, event, receipt, certificateURL)
	outcome := sender.Send(ctx, msg)

	if outcome.Success {
		s.metrics.RecordSent()
		if err := s.jobRepo.UpdateOutcome(ctx, job.ID, domain.JobStatusSent, outcome.ExternalID, ""); err != nil {
			s.log.Error().Err(err).Str("job_id", job.ID.String()).Msg("recording sent outcome failed")
		}
	} else {
		s.metrics.RecordFailed()
		errText := ""
		if outcome.Err != nil {
			errText = outcome.Err.Error()
		}
		if err := s.jobRepo.UpdateOutcome(ctx, job.ID, domain.JobStatusFailed, "", errText); err != nil {
			s.log.Error().Err(err).Str("job_id", job.ID.String()).Msg("recording failed outcome failed")
		}
		s.log.Warn().
			Str("receipt_code", receipt.Code).
			Str("channel", string(channel)).
			Str("fail_kind", string(outcome.FailKind)).
			Err(outcome.Err).
			Msg("notification send failed")
	}

	return ports.ChannelOutcome{Channel: channel, JobID: job.ID.String(), Outcome: outcome}
}

// sendAdminCopy notifies the temple office on the chat channel. Best effort,
// not persisted as a job, never part of the dispatch verdict.
func (s *DispatchServiceImpl) sendAdminCopy(ctx context.Context, event *domain.PaymentEvent, receipt domain.Receipt) {
	if s.adminNumber == "" {
		return
	}
	sender := s.senderFor(domain.ChannelWhatsApp)
	if sender == nil {
		return
	}

	body := fmt.Sprintf("New payment: %s\n%s from %s (%s)\nReceipt: %s",
		event.ServiceName(), formatAmount(event.AmountPs), event.Contact.Name, event.Contact.Phone, receipt.Code)

	outcome := sender.Send(ctx, ports.OutboundMessage{
		Recipient: s.adminNumber,
		Body:      body,
		Priority:  domain.PriorityNormal,
	})
	if !outcome.Success {
		s.log.Warn().Err(outcome.Err).Str("receipt_code", receipt.Code).Msg("admin copy failed")
	}
}

func (s *DispatchServiceImpl) senderFor(channel domain.Channel) ports.ChannelSender {
	for _, sender := range s.senders {
		if sender.Channel() == channel {
			return sender
		}
	}
	return nil
}

// recipientFor picks the event's address for a channel; empty means the
// channel is skipped for this event.
func (s *DispatchServiceImpl) recipientFor(channel domain.Channel, event *domain.PaymentEvent) string {
	switch channel {
	case domain.ChannelWhatsApp:
		return event.Contact.Phone
	case domain.ChannelEmail:
		return event.Contact.Email
	}
	return ""
}

// composeMessage renders the per-channel payload.
func (s *DispatchServiceImpl) composeMessage(channel domain.Channel, recipient string, event *domain.PaymentEvent, receipt domain.Receipt, certificateURL string) ports.OutboundMessage {
	serviceName := event.ServiceName()
	amount := formatAmount(event.AmountPs)

	switch channel {
	case domain.ChannelEmail:
		body := fmt.Sprintf(
			"<p>Dear %s,</p><p>Thank you for your payment of %s towards <b>%s</b>.</p><p>Your receipt number is <b>%s</b>. Keep it for your records.</p>",
			event.Contact.Name, amount, serviceName, receipt.Code)
		if certificateURL != "" {
			body += fmt.Sprintf(`<p>Your donation certificate: <a href="%s">%s</a></p>`, certificateURL, certificateURL)
		}
		return ports.OutboundMessage{
			Recipient: recipient,
			Subject:   fmt.Sprintf("Receipt %s - %s", receipt.Code, serviceName),
			Body:      body,
			MediaURL:  certificateURL,
			Priority:  domain.PriorityHigh,
		}
	default:
		body := fmt.Sprintf("Dear %s, thank you for your payment of %s towards %s. Your receipt number is %s.",
			event.Contact.Name, amount, serviceName, receipt.Code)
		return ports.OutboundMessage{
			Recipient: recipient,
			Body:      body,
			MediaURL:  certificateURL,
			Priority:  domain.PriorityHigh,
		}
	}
}

// formatAmount renders paise as rupees.
func formatAmount(amountPs int64) string {
	return fmt.Sprintf("Rs. %d.%02d", amountPs/100, amountPs%100)
}
