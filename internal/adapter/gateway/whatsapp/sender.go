package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"temple-receipt-service/config"
	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// Sender implements ports.ChannelSender over the Twilio Messages API.
// Every send passes through the shared rate limiter before touching the wire.
type Sender struct {
	cfg        config.WhatsAppConfig
	limiter    ports.RateLimiter
	httpClient *http.Client
	log        zerolog.Logger
}

// NewSender creates a WhatsApp sender.
func NewSender(cfg config.WhatsAppConfig, limiter ports.RateLimiter, log zerolog.Logger) *Sender {
	return &Sender{
		cfg:     cfg,
		limiter: limiter,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Channel identifies this sender.
func (s *Sender) Channel() domain.Channel {
	return domain.ChannelWhatsApp
}

// messageResponse is the gateway's reply to a message create call.
type messageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	// error shape on non-2xx
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send normalizes the recipient, takes a rate-limit token, and posts the
// message. All failures come back as outcome data.
func (s *Sender) Send(ctx context.Context, msg ports.OutboundMessage) ports.SendOutcome {
	recipient, ok := NormalizePhone(msg.Recipient, s.cfg.DefaultCountryCode)
	if !ok {
		return ports.SendOutcome{
			FailKind: ports.FailInvalidRecipient,
			Err:      apperror.ErrInvalidRecipient(fmt.Sprintf("unusable phone number %q", msg.Recipient)),
		}
	}

	if !s.limiter.TryAcquire() {
		return ports.SendOutcome{
			FailKind: ports.FailRateLimited,
			Err:      apperror.ErrRateLimited(),
		}
	}

	form := url.Values{}
	form.Set("From", "whatsapp:"+s.cfg.FromNumber)
	form.Set("To", "whatsapp:"+recipient)
	form.Set("Body", msg.Body)
	if msg.MediaURL != "" {
		form.Set("MediaUrl", msg.MediaURL)
	}
	if s.cfg.StatusCallbackURL != "" {
		form.Set("StatusCallback", s.cfg.StatusCallbackURL)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(s.cfg.APIBaseURL, "/"), s.cfg.AccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return ports.SendOutcome{FailKind: ports.FailGateway, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return ports.SendOutcome{FailKind: ports.FailGateway, Err: fmt.Errorf("post message: %w", err)}
	}
	defer resp.Body.Close()

	var body messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.SendOutcome{FailKind: ports.FailGateway, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Warn().
			Int("http_status", resp.StatusCode).
			Int("gateway_code", body.Code).
			Str("recipient", recipient).
			Msg("WhatsApp gateway rejected message")
		return ports.SendOutcome{
			FailKind: ports.FailGateway,
			Err:      apperror.ErrGateway("whatsapp", fmt.Errorf("gateway status %d: %s", resp.StatusCode, body.Message)),
		}
	}

	s.log.Debug().
		Str("sid", body.SID).
		Str("status", body.Status).
		Msg("WhatsApp message accepted")

	return ports.SendOutcome{Success: true, ExternalID: body.SID}
}
