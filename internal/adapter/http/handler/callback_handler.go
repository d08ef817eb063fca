package handler

import (
	"fmt"
	"strings"
	"time"

	"temple-receipt-service/internal/adapter/http/dto"
	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/pkg/apperror"
	"temple-receipt-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderCallbackSignature carries the chat gateway's webhook signature.
const HeaderCallbackSignature = "X-Twilio-Signature"

// CallbackHandler handles inbound delivery status callbacks.
type CallbackHandler struct {
	ingestSvc ports.IngestService
	verifier  ports.CallbackVerifier // nil = signature verification disabled
	publicURL string                 // externally visible callback URL, part of the signed payload
	alerts    ports.AlertService
	log       zerolog.Logger
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(ingestSvc ports.IngestService, verifier ports.CallbackVerifier, publicURL string, alerts ports.AlertService, log zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{ingestSvc: ingestSvc, verifier: verifier, publicURL: publicURL, alerts: alerts, log: log}
}

// HandleDeliveryReport handles POST /api/v1/callbacks/whatsapp. The gateway
// retries on non-2xx, so everything past signature verification acknowledges
// 200 even when the report describes a delivery failure.
func (h *CallbackHandler) HandleDeliveryReport(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		response.Error(c, apperror.Validation("cannot parse form body"))
		return
	}

	if h.verifier != nil {
		params := make(map[string]string, len(c.Request.PostForm))
		for k, vs := range c.Request.PostForm {
			if len(vs) > 0 {
				params[k] = vs[0]
			}
		}
		signature := c.GetHeader(HeaderCallbackSignature)
		if !h.verifier.Verify(h.publicURL, params, signature) {
			h.log.Warn().Str("client_ip", c.ClientIP()).Msg("callback signature rejected")
			if h.alerts != nil {
				h.alerts.Raise(c.Request.Context(), "Delivery callback signature verification failed",
					fmt.Sprintf("client %s, message %s", c.ClientIP(), c.Request.PostForm.Get("MessageSid")))
			}
			response.Error(c, apperror.ErrInvalidCallbackSignature())
			return
		}
	}

	form := dto.DeliveryCallbackForm{
		MessageSid:    c.Request.PostForm.Get("MessageSid"),
		SmsSid:        c.Request.PostForm.Get("SmsSid"),
		MessageStatus: c.Request.PostForm.Get("MessageStatus"),
		To:            c.Request.PostForm.Get("To"),
		ErrorCode:     c.Request.PostForm.Get("ErrorCode"),
		ErrorMessage:  c.Request.PostForm.Get("ErrorMessage"),
	}

	report := domain.DeliveryReport{
		ExternalID:   form.ExternalID(),
		Status:       domain.DeliveryStatus(form.MessageStatus),
		Recipient:    strings.TrimPrefix(form.To, "whatsapp:"),
		ErrorCode:    form.ErrorCode,
		ErrorMessage: form.ErrorMessage,
		ReceivedAt:   time.Now().UTC(),
	}

	if err := h.ingestSvc.Ingest(c.Request.Context(), report); err != nil {
		// Acknowledged anyway; a retry of the same report would hit the
		// dedupe store and change nothing.
		h.log.Error().Err(err).Str("external_id", report.ExternalID).Msg("delivery report ingest failed")
	}

	response.OK(c, gin.H{"received": true})
}
