package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"temple-receipt-service/config"
	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxAttachmentBytes caps fetched certificate attachments. Larger artifacts
// go out as a link in the body instead.
const maxAttachmentBytes = 5 << 20

// Sender implements ports.ChannelSender over a JSON transactional
// email API. Unlike the chat gateway the provider imposes no
// request-rate ceiling, so sends go out unthrottled.
type Sender struct {
	cfg        config.EmailConfig
	httpClient *http.Client
	log        zerolog.Logger
}

// NewSender creates an email sender.
func NewSender(cfg config.EmailConfig, log zerolog.Logger) *Sender {
	return &Sender{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// Channel identifies this sender.
func (s *Sender) Channel() domain.Channel {
	return domain.ChannelEmail
}

type attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"` // base64
	Type     string `json:"type"`
}

type sendRequest struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []attachment `json:"attachments,omitempty"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send posts the message to the email provider. A media URL, when present,
// is fetched and attached; if the fetch fails the mail still goes out with
// the link in the body.
func (s *Sender) Send(ctx context.Context, msg ports.OutboundMessage) ports.SendOutcome {
	recipient := strings.TrimSpace(msg.Recipient)
	if !strings.Contains(recipient, "@") || strings.ContainsAny(recipient, " \t") {
		return ports.SendOutcome{
			FailKind: ports.FailInvalidRecipient,
			Err:      apperror.ErrInvalidRecipient(fmt.Sprintf("unusable email address %q", msg.Recipient)),
		}
	}

	req := sendRequest{
		From:    s.cfg.FromAddress,
		To:      recipient,
		Subject: msg.Subject,
		HTML:    msg.Body,
	}
	if msg.MediaURL != "" {
		if att, err := s.fetchAttachment(ctx, msg.MediaURL); err != nil {
			s.log.Warn().Err(err).Str("url", msg.MediaURL).Msg("attachment fetch failed, sending without it")
		} else {
			req.Attachments = append(req.Attachments, att)
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return ports.SendOutcome{FailKind: ports.FailGateway, Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return ports.SendOutcome{FailKind: ports.FailGateway, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return ports.SendOutcome{FailKind: ports.FailGateway, Err: fmt.Errorf("post mail: %w", err)}
	}
	defer resp.Body.Close()

	var body sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && err != io.EOF {
		return ports.SendOutcome{FailKind: ports.FailGateway, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Warn().
			Int("http_status", resp.StatusCode).
			Str("recipient", recipient).
			Msg("email provider rejected message")
		return ports.SendOutcome{
			FailKind: ports.FailGateway,
			Err:      apperror.ErrGateway("email", fmt.Errorf("provider status %d: %s", resp.StatusCode, body.Message)),
		}
	}

	externalID := body.ID
	if externalID == "" {
		// provider without message ids; delivery reports won't correlate
		externalID = "email-" + uuid.NewString()
	}

	return ports.SendOutcome{Success: true, ExternalID: externalID}
}

func (s *Sender) fetchAttachment(ctx context.Context, mediaURL string) (attachment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return attachment{}, fmt.Errorf("create fetch request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return attachment{}, fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return attachment{}, fmt.Errorf("fetch media: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentBytes+1))
	if err != nil {
		return attachment{}, fmt.Errorf("read media: %w", err)
	}
	if len(data) > maxAttachmentBytes {
		return attachment{}, fmt.Errorf("media exceeds %d bytes", maxAttachmentBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	filename := path.Base(mediaURL)
	if filename == "." || filename == "/" {
		filename = "certificate.pdf"
	}

	return attachment{
		Filename: filename,
		Content:  base64.StdEncoding.EncodeToString(data),
		Type:     contentType,
	}, nil
}
