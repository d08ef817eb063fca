package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordStatus is the lifecycle state of a persisted Record.
type RecordStatus string

const (
	RecordStatusPending   RecordStatus = "PENDING"
	RecordStatusConfirmed RecordStatus = "CONFIRMED"
	RecordStatusSuccess   RecordStatus = "SUCCESS"
	RecordStatusCompleted RecordStatus = "COMPLETED"
	RecordStatusCancelled RecordStatus = "CANCELLED"
	RecordStatusFailed    RecordStatus = "FAILED"
)

// IsTerminal reports whether no further automatic transition is allowed.
func (s RecordStatus) IsTerminal() bool {
	switch s {
	case RecordStatusCompleted, RecordStatusCancelled, RecordStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition s -> next is permitted.
// PENDING may move to CONFIRMED/SUCCESS or straight to a terminal state;
// CONFIRMED and SUCCESS may complete, cancel, or fail. Terminal states accept
// nothing; admin overrides go through a distinct, audited path.
func (s RecordStatus) CanTransitionTo(next RecordStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case RecordStatusPending:
		switch next {
		case RecordStatusConfirmed, RecordStatusSuccess, RecordStatusCancelled, RecordStatusFailed:
			return true
		}
	case RecordStatusConfirmed, RecordStatusSuccess:
		switch next {
		case RecordStatusCompleted, RecordStatusCancelled, RecordStatusFailed:
			return true
		}
	}
	return false
}

// Record is the persisted business entity for one payment event. It owns the
// Receipt and is immutable except for status and timestamps, which change
// only through the orchestrator at creation time or explicit admin actions.
type Record struct {
	ID          uuid.UUID    `json:"id"`
	Receipt     Receipt      `json:"receipt"`
	Category    Category     `json:"category"`
	AmountPs    int64        `json:"amount_ps"`
	PayerName   string       `json:"payer_name"`
	PayerPhone  string       `json:"payer_phone"`
	PayerEmail  string       `json:"payer_email,omitempty"`
	ServiceName string       `json:"service_name"`
	PaymentID   string       `json:"payment_id"`
	OrderID     string       `json:"order_id,omitempty"`
	Status      RecordStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// InitialStatus returns the status a freshly recorded event starts in.
// Donations and consultations are settled on payment; bookings and rites
// remain PENDING until the ceremony is scheduled.
func InitialStatus(c Category) RecordStatus {
	switch c {
	case CategoryPoojaBooking, CategoryPariharaRite:
		return RecordStatusPending
	default:
		return RecordStatusSuccess
	}
}
