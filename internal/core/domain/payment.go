package domain

import (
	"fmt"
	"time"
)

// Category identifies the kind of temple service a payment was made for.
type Category string

const (
	CategoryDonation     Category = "DONATION"
	CategoryPoojaBooking Category = "POOJA_BOOKING"
	CategoryConsultation Category = "ASTROLOGY_CONSULTATION"
	CategoryPariharaRite Category = "PARIHARA_POOJA"
)

// Categories lists every valid category, in receipt-prefix order.
func Categories() []Category {
	return []Category{
		CategoryDonation,
		CategoryPoojaBooking,
		CategoryConsultation,
		CategoryPariharaRite,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryDonation, CategoryPoojaBooking, CategoryConsultation, CategoryPariharaRite:
		return true
	}
	return false
}

// Contact holds the payer's delivery addresses. Phone is required for the
// chat channel; Email is optional and gates the email channel.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// DonationDetails carries donation-specific fields.
type DonationDetails struct {
	Purpose     string `json:"purpose"`
	PAN         string `json:"pan,omitempty"`
	Want80GNote bool   `json:"want_80g_note"`
}

// BookingDetails carries pooja/ceremony booking fields.
type BookingDetails struct {
	PoojaName     string     `json:"pooja_name"`
	PreferredDate *time.Time `json:"preferred_date,omitempty"`
	PreferredTime string     `json:"preferred_time,omitempty"`
	Nakshatra     string     `json:"nakshatra,omitempty"`
	Gothra        string     `json:"gothra,omitempty"`
	Instructions  string     `json:"instructions,omitempty"`
}

// ConsultationDetails carries astrology consultation birth details.
type ConsultationDetails struct {
	BirthDate  string `json:"birth_date"`
	BirthTime  string `json:"birth_time,omitempty"`
	BirthPlace string `json:"birth_place,omitempty"`
	Question   string `json:"question,omitempty"`
}

// PariharaDetails carries remedial-rite fields.
type PariharaDetails struct {
	RiteName     string `json:"rite_name"`
	SankalpaName string `json:"sankalpa_name,omitempty"`
	Dosha        string `json:"dosha,omitempty"`
}

// PaymentEvent is the immutable input to the pipeline: a payment the upstream
// gateway has already confirmed. Exactly one of the details fields is set,
// matching Category.
type PaymentEvent struct {
	Category  Category `json:"category"`
	AmountPs  int64    `json:"amount_ps"` // smallest currency unit (paise)
	Contact   Contact  `json:"contact"`
	PaymentID string   `json:"payment_id"`
	OrderID   string   `json:"order_id"`

	Donation     *DonationDetails     `json:"donation,omitempty"`
	Booking      *BookingDetails      `json:"booking,omitempty"`
	Consultation *ConsultationDetails `json:"consultation,omitempty"`
	Parihara     *PariharaDetails     `json:"parihara,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks the event's required fields and that the details variant
// matches the category.
func (e *PaymentEvent) Validate() error {
	if !e.Category.Valid() {
		return fmt.Errorf("unknown category %q", e.Category)
	}
	if e.AmountPs <= 0 {
		return fmt.Errorf("amount must be positive, got %d", e.AmountPs)
	}
	if e.Contact.Name == "" || e.Contact.Phone == "" {
		return fmt.Errorf("payer name and phone are required")
	}
	if e.PaymentID == "" {
		return fmt.Errorf("payment id is required")
	}

	switch e.Category {
	case CategoryDonation:
		if e.Donation == nil {
			return fmt.Errorf("donation details required for category %s", e.Category)
		}
	case CategoryPoojaBooking:
		if e.Booking == nil || e.Booking.PoojaName == "" {
			return fmt.Errorf("booking details with pooja name required for category %s", e.Category)
		}
	case CategoryConsultation:
		if e.Consultation == nil || e.Consultation.BirthDate == "" {
			return fmt.Errorf("consultation birth details required for category %s", e.Category)
		}
	case CategoryPariharaRite:
		if e.Parihara == nil || e.Parihara.RiteName == "" {
			return fmt.Errorf("parihara rite details required for category %s", e.Category)
		}
	}
	return nil
}

// ServiceName returns a human-readable name of the paid service, used in
// message bodies and certificates. The switch is exhaustive over Category.
func (e *PaymentEvent) ServiceName() string {
	switch e.Category {
	case CategoryDonation:
		if e.Donation != nil && e.Donation.Purpose != "" {
			return e.Donation.Purpose
		}
		return "General Donation"
	case CategoryPoojaBooking:
		return e.Booking.PoojaName
	case CategoryConsultation:
		return "Astrology Consultation"
	case CategoryPariharaRite:
		return e.Parihara.RiteName
	}
	return string(e.Category)
}

// NeedsAdminCopy reports whether this event type gets a follow-up
// administrative notification on the primary channel after fan-out.
func (e *PaymentEvent) NeedsAdminCopy() bool {
	// All paid services notify the temple office; nothing is exempt today,
	// but the decision stays with the event type.
	return true
}

// NeedsCertificate reports whether a donation certificate artifact should be
// rendered for this event. Only donations carry 80G certificates.
func (e *PaymentEvent) NeedsCertificate() bool {
	return e.Category == CategoryDonation
}
