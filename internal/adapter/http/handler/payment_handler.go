package handler

import (
	"fmt"

	"temple-receipt-service/internal/adapter/http/dto"
	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/pkg/apperror"
	"temple-receipt-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PaymentHandler handles the payment verification endpoint.
type PaymentHandler struct {
	processor ports.PaymentProcessor
	verifier  ports.PaymentVerifier
	alerts    ports.AlertService
	log       zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(processor ports.PaymentProcessor, verifier ports.PaymentVerifier, alerts ports.AlertService, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{processor: processor, verifier: verifier, alerts: alerts, log: log}
}

// VerifyPayment handles POST /api/v1/payments/verify.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req dto.PaymentVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if !h.verifier.Verify(req.OrderID, req.PaymentID, req.Signature) {
		h.log.Warn().
			Str("order_id", req.OrderID).
			Str("payment_id", req.PaymentID).
			Str("client_ip", c.ClientIP()).
			Msg("payment signature rejected")
		if h.alerts != nil {
			h.alerts.Raise(c.Request.Context(), "Payment signature verification failed",
				fmt.Sprintf("order %s, payment %s, client %s", req.OrderID, req.PaymentID, c.ClientIP()))
		}
		response.Error(c, apperror.ErrInvalidSignature())
		return
	}

	record, err := h.processor.Process(c.Request.Context(), toPaymentEvent(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toRecordResponse(record))
}

// toPaymentEvent converts the request body to the domain event. The signature
// stays behind; it is a transport concern.
func toPaymentEvent(req *dto.PaymentVerifyRequest) *domain.PaymentEvent {
	event := &domain.PaymentEvent{
		Category: domain.Category(req.Category),
		AmountPs: req.AmountPs,
		Contact: domain.Contact{
			Name:  req.Contact.Name,
			Phone: req.Contact.Phone,
			Email: req.Contact.Email,
		},
		PaymentID: req.PaymentID,
		OrderID:   req.OrderID,
		Metadata:  req.Metadata,
	}

	if req.Donation != nil {
		event.Donation = &domain.DonationDetails{
			Purpose:     req.Donation.Purpose,
			PAN:         req.Donation.PAN,
			Want80GNote: req.Donation.Want80GNote,
		}
	}
	if req.Booking != nil {
		event.Booking = &domain.BookingDetails{
			PoojaName:     req.Booking.PoojaName,
			PreferredDate: req.Booking.PreferredDate,
			PreferredTime: req.Booking.PreferredTime,
			Nakshatra:     req.Booking.Nakshatra,
			Gothra:        req.Booking.Gothra,
			Instructions:  req.Booking.Instructions,
		}
	}
	if req.Consultation != nil {
		event.Consultation = &domain.ConsultationDetails{
			BirthDate:  req.Consultation.BirthDate,
			BirthTime:  req.Consultation.BirthTime,
			BirthPlace: req.Consultation.BirthPlace,
			Question:   req.Consultation.Question,
		}
	}
	if req.Parihara != nil {
		event.Parihara = &domain.PariharaDetails{
			RiteName:     req.Parihara.RiteName,
			SankalpaName: req.Parihara.SankalpaName,
			Dosha:        req.Parihara.Dosha,
		}
	}

	return event
}

// toRecordResponse converts domain.Record to DTO.
func toRecordResponse(rec *domain.Record) dto.RecordResponse {
	return dto.RecordResponse{
		ID:          rec.ID.String(),
		ReceiptCode: rec.Receipt.Code,
		Category:    string(rec.Category),
		AmountPs:    rec.AmountPs,
		PayerName:   rec.PayerName,
		PayerPhone:  rec.PayerPhone,
		PayerEmail:  rec.PayerEmail,
		ServiceName: rec.ServiceName,
		PaymentID:   rec.PaymentID,
		OrderID:     rec.OrderID,
		Status:      string(rec.Status),
		CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   rec.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
