package ports

import (
	"context"
	"time"

	"temple-receipt-service/internal/core/domain"
)

// RateLimiter guards outbound messaging volume. TryAcquire is non-blocking;
// a false return means "retry later", never a permanent failure.
type RateLimiter interface {
	TryAcquire() bool
}

// OutboundMessage is the channel-agnostic payload handed to a ChannelSender.
type OutboundMessage struct {
	Recipient string
	Subject   string // used by channels that have one
	Body      string
	MediaURL  string // optional attachment/media reference
	Priority  domain.Priority
}

// SendOutcome is the result of one delivery attempt. Failures are data, not
// errors: a sender never lets a gateway failure escape as a panic or a fatal
// error to the dispatcher.
type SendOutcome struct {
	Success    bool
	ExternalID string
	FailKind   FailKind
	Err        error
}

// FailKind classifies a failed send.
type FailKind string

const (
	FailNone             FailKind = ""
	FailInvalidRecipient FailKind = "invalid_recipient"
	FailRateLimited      FailKind = "rate_limited"
	FailGateway          FailKind = "gateway_error"
)

// ChannelSender delivers one message on one channel.
type ChannelSender interface {
	Channel() domain.Channel
	Send(ctx context.Context, msg OutboundMessage) SendOutcome
}

// ChannelOutcome pairs a channel with its delivery outcome for one event.
type ChannelOutcome struct {
	Channel domain.Channel
	JobID   string
	Outcome SendOutcome
}

// DispatchResult aggregates every channel's outcome for one logical event.
type DispatchResult struct {
	PerChannel []ChannelOutcome
}

// AllFailed reports whether no channel accepted the message.
func (r DispatchResult) AllFailed() bool {
	for _, c := range r.PerChannel {
		if c.Outcome.Success {
			return false
		}
	}
	return len(r.PerChannel) > 0
}

// Dispatcher fans one logical event out to all configured channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *domain.PaymentEvent, receipt domain.Receipt, certificateURL string) DispatchResult
}

// CertificateData is the render request for the certificate service.
type CertificateData struct {
	DonorName   string
	AmountPs    int64
	ReceiptCode string
	Date        string // ISO date (YYYY-MM-DD)
	PaymentMode string
	OrgName     string
	OrgSubtitle string
	Show80GNote bool
}

// RenderResult is the rendering service's reply.
type RenderResult struct {
	Success     bool
	Filename    string
	DownloadURL string
	Err         error
}

// CertificateService requests certificate artifacts from the rendering
// service. Render is bounded by the client timeout and never retries;
// RenderAsync must never delay or fail the caller.
type CertificateService interface {
	Render(ctx context.Context, data CertificateData) RenderResult
	RenderAsync(data CertificateData)
	DownloadURL(filename string) string
}

// MetricsRecorder tracks process-wide delivery counters.
type MetricsRecorder interface {
	RecordSent()
	RecordDelivered()
	RecordFailed()
	RecordRead()
	Snapshot() MetricsSnapshot
}

// MetricsSnapshot is a point-in-time copy of the delivery counters.
type MetricsSnapshot struct {
	Sent       uint64     `json:"sent"`
	Delivered  uint64     `json:"delivered"`
	Failed     uint64     `json:"failed"`
	Read       uint64     `json:"read"`
	LastSentAt *time.Time `json:"last_sent_at,omitempty"`
}

// AlertService raises internal administrative alerts. Alerts are best-effort
// sends; Raise never returns an error to its caller.
type AlertService interface {
	Raise(ctx context.Context, subject, detail string)
}

// PaymentVerifier checks the payment gateway's HMAC signature. The
// cryptographic scheme is a given; only the boolean verdict matters here.
type PaymentVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}

// CallbackVerifier checks the chat gateway's webhook signature over the
// callback URL and its form parameters.
type CallbackVerifier interface {
	Verify(url string, params map[string]string, signature string) bool
}

// TokenService handles JWT token operations for the admin surface.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}

// IngestService consumes asynchronous delivery reports.
type IngestService interface {
	Ingest(ctx context.Context, report domain.DeliveryReport) error
}

// PaymentProcessor is the root orchestrator: verified payment in, recorded
// receipt out, notifications and certificate off the critical path.
type PaymentProcessor interface {
	Process(ctx context.Context, event *domain.PaymentEvent) (*domain.Record, error)
}

// RecordService serves receipt lookups and the audited admin surface.
type RecordService interface {
	GetByReceiptCode(ctx context.Context, code string) (*domain.Record, error)
	List(ctx context.Context, params RecordListParams) ([]domain.Record, int64, error)
	// OverrideStatus moves a record through the status machine on behalf
	// of a named admin actor, writing an audit entry.
	OverrideStatus(ctx context.Context, actor, code string, next domain.RecordStatus, reason string) (*domain.Record, error)
}

// TaskQueue is the bounded background-work queue drained by the worker pool.
type TaskQueue interface {
	// Enqueue schedules fn; it reports false when the queue is full or
	// shut down, and the caller decides whether that matters.
	Enqueue(name string, fn func(ctx context.Context)) bool
}
