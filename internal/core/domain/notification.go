package domain

import (
	"time"

	"github.com/google/uuid"
)

// Channel is an external delivery mechanism.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
)

// Priority is a delivery urgency hint passed to the gateways.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// JobStatus is the lifecycle state of a NotificationJob. Transitions are
// monotonic: a failed job is never requeued, a manual retry mints a new job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusSent      JobStatus = "sent"
	JobStatusDelivered JobStatus = "delivered"
	JobStatusFailed    JobStatus = "failed"
)

// jobRank orders job statuses for monotonicity checks.
var jobRank = map[JobStatus]int{
	JobStatusQueued:    0,
	JobStatusSent:      1,
	JobStatusDelivered: 2,
	JobStatusFailed:    2,
}

// CanAdvanceTo reports whether a job may move from s to next. Both terminal
// states rank equal, so delivered never flips to failed or back.
func (s JobStatus) CanAdvanceTo(next JobStatus) bool {
	cur, ok := jobRank[s]
	if !ok {
		return false
	}
	nxt, ok := jobRank[next]
	if !ok {
		return false
	}
	return nxt > cur
}

// NotificationJob is one delivery attempt of a logical event on one channel.
type NotificationJob struct {
	ID          uuid.UUID `json:"id"`
	ReceiptCode string    `json:"receipt_code"`
	Channel     Channel   `json:"channel"`
	Recipient   string    `json:"recipient"`
	Priority    Priority  `json:"priority"`
	Attempts    int       `json:"attempts"`
	Status      JobStatus `json:"status"`
	ExternalID  string    `json:"external_id,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeliveryStatus is the status enum reported by the chat gateway's
// asynchronous callbacks.
type DeliveryStatus string

const (
	DeliveryQueued      DeliveryStatus = "queued"
	DeliverySent        DeliveryStatus = "sent"
	DeliveryDelivered   DeliveryStatus = "delivered"
	DeliveryRead        DeliveryStatus = "read"
	DeliveryFailed      DeliveryStatus = "failed"
	DeliveryUndelivered DeliveryStatus = "undelivered"
)

// Valid reports whether s is a status the gateway can legitimately report.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryQueued, DeliverySent, DeliveryDelivered, DeliveryRead, DeliveryFailed, DeliveryUndelivered:
		return true
	}
	return false
}

// IsTerminalFailure reports whether s ends the job unsuccessfully.
func (s DeliveryStatus) IsTerminalFailure() bool {
	return s == DeliveryFailed || s == DeliveryUndelivered
}

// JobStatus maps a gateway delivery status onto the job state machine.
func (s DeliveryStatus) JobStatus() JobStatus {
	switch s {
	case DeliveryQueued:
		return JobStatusQueued
	case DeliverySent:
		return JobStatusSent
	case DeliveryDelivered, DeliveryRead:
		return JobStatusDelivered
	default:
		return JobStatusFailed
	}
}

// DeliveryReport is one inbound callback event from the chat gateway.
type DeliveryReport struct {
	ExternalID   string         `json:"external_id"`
	Status       DeliveryStatus `json:"status"`
	Recipient    string         `json:"recipient"`
	ErrorCode    string         `json:"error_code,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	ReceivedAt   time.Time      `json:"received_at"`
}
