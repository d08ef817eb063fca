package dto

import "time"

// ContactRequest carries the payer's delivery addresses.
type ContactRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=120"`
	Phone string `json:"phone" binding:"required,e164ish"`
	Email string `json:"email" binding:"omitempty,email"`
}

// DonationRequest carries donation-specific fields.
type DonationRequest struct {
	Purpose     string `json:"purpose" binding:"max=200"`
	PAN         string `json:"pan" binding:"omitempty,max=10"`
	Want80GNote bool   `json:"want_80g_note"`
}

// BookingRequest carries pooja booking fields.
type BookingRequest struct {
	PoojaName     string     `json:"pooja_name" binding:"required,max=200"`
	PreferredDate *time.Time `json:"preferred_date,omitempty"`
	PreferredTime string     `json:"preferred_time" binding:"omitempty,max=50"`
	Nakshatra     string     `json:"nakshatra" binding:"omitempty,max=50"`
	Gothra        string     `json:"gothra" binding:"omitempty,max=50"`
	Instructions  string     `json:"instructions" binding:"omitempty,max=500"`
}

// ConsultationRequest carries astrology consultation birth details.
type ConsultationRequest struct {
	BirthDate  string `json:"birth_date" binding:"required,max=20"`
	BirthTime  string `json:"birth_time" binding:"omitempty,max=20"`
	BirthPlace string `json:"birth_place" binding:"omitempty,max=120"`
	Question   string `json:"question" binding:"omitempty,max=500"`
}

// PariharaRequest carries remedial-rite fields.
type PariharaRequest struct {
	RiteName     string `json:"rite_name" binding:"required,max=200"`
	SankalpaName string `json:"sankalpa_name" binding:"omitempty,max=120"`
	Dosha        string `json:"dosha" binding:"omitempty,max=120"`
}

// PaymentVerifyRequest is the request body for payment verification.
// Signature is the gateway's HMAC over order_id|payment_id; it stays in the
// transport layer and never reaches the domain event.
type PaymentVerifyRequest struct {
	Category  string         `json:"category" binding:"required"`
	AmountPs  int64          `json:"amount_ps" binding:"required,gt=0"`
	Contact   ContactRequest `json:"contact" binding:"required"`
	PaymentID string         `json:"payment_id" binding:"required,max=100"`
	OrderID   string         `json:"order_id" binding:"required,max=100"`
	Signature string         `json:"signature" binding:"required"`

	Donation     *DonationRequest     `json:"donation,omitempty"`
	Booking      *BookingRequest      `json:"booking,omitempty"`
	Consultation *ConsultationRequest `json:"consultation,omitempty"`
	Parihara     *PariharaRequest     `json:"parihara,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// StatusOverrideRequest is the request body for an admin status transition.
type StatusOverrideRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// DeliveryCallbackForm is the form-encoded delivery status callback posted by
// the chat gateway. Field names follow the gateway's wire format.
type DeliveryCallbackForm struct {
	MessageSid    string `form:"MessageSid"`
	SmsSid        string `form:"SmsSid"`
	MessageStatus string `form:"MessageStatus" binding:"required"`
	To            string `form:"To"`
	ErrorCode     string `form:"ErrorCode"`
	ErrorMessage  string `form:"ErrorMessage"`
}

// ExternalID returns the gateway message id, whichever field carried it.
func (f DeliveryCallbackForm) ExternalID() string {
	if f.MessageSid != "" {
		return f.MessageSid
	}
	return f.SmsSid
}

// RecordLookupURI binds and validates the receipt number path parameter, so
// malformed codes never reach storage.
type RecordLookupURI struct {
	ReceiptNumber string `uri:"receiptNumber" binding:"required,receipt_code"`
}

// RecordResponse is the response body for record results.
type RecordResponse struct {
	ID          string `json:"id"`
	ReceiptCode string `json:"receipt_code"`
	Category    string `json:"category"`
	AmountPs    int64  `json:"amount_ps"`
	PayerName   string `json:"payer_name"`
	PayerPhone  string `json:"payer_phone"`
	PayerEmail  string `json:"payer_email,omitempty"`
	ServiceName string `json:"service_name"`
	PaymentID   string `json:"payment_id"`
	OrderID     string `json:"order_id,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// RecordListResponse wraps a paginated record list.
type RecordListResponse struct {
	Items      []RecordResponse `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}
