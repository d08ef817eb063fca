package service

import (
	"context"

	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"

	"github.com/rs/zerolog"
)

// alertTarget pairs a sender with its admin recipient.
type alertTarget struct {
	sender    ports.ChannelSender
	recipient string
}

// AdminAlertService implements ports.AlertService by pushing operational
// alerts to the admin contacts over the regular delivery channels. Alerts
// are best effort: a failed alert is logged and forgotten.
type AdminAlertService struct {
	targets []alertTarget
	log     zerolog.Logger
}

// NewAdminAlertService creates the alert service. A target with an empty
// recipient is skipped, so either channel can be left unconfigured.
func NewAdminAlertService(log zerolog.Logger) *AdminAlertService {
	return &AdminAlertService{log: log}
}

// AddTarget registers an admin recipient on a channel.
func (s *AdminAlertService) AddTarget(sender ports.ChannelSender, recipient string) {
	if sender == nil || recipient == "" {
		return
	}
	s.targets = append(s.targets, alertTarget{sender: sender, recipient: recipient})
}

// Raise sends the alert to every configured admin target.
func (s *AdminAlertService) Raise(ctx context.Context, subject, detail string) {
	if len(s.targets) == 0 {
		s.log.Warn().Str("subject", subject).Msg("alert raised with no admin targets configured")
		return
	}

	for _, t := range s.targets {
		outcome := t.sender.Send(ctx, ports.OutboundMessage{
			Recipient: t.recipient,
			Subject:   "[ALERT] " + subject,
			Body:      subject + "\n\n" + detail,
			Priority:  domain.PriorityHigh,
		})
		if !outcome.Success {
			s.log.Error().
				Err(outcome.Err).
				Str("channel", string(t.sender.Channel())).
				Str("subject", subject).
				Msg("admin alert delivery failed")
			continue
		}
		s.log.Info().
			Str("channel", string(t.sender.Channel())).
			Str("subject", subject).
			Msg("admin alert sent")
	}
}
