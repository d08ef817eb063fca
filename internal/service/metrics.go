package service

import (
	"sync"
	"time"

	"temple-receipt-service/internal/core/ports"
)

// DeliveryMetrics implements ports.MetricsRecorder. Counters are process
// lifetime only and reset on restart.
type DeliveryMetrics struct {
	mu         sync.Mutex
	sent       uint64
	delivered  uint64
	failed     uint64
	read       uint64
	lastSentAt *time.Time

	now func() time.Time
}

// NewDeliveryMetrics creates a metrics recorder.
func NewDeliveryMetrics() *DeliveryMetrics {
	return &DeliveryMetrics{now: time.Now}
}

// RecordSent counts an accepted outbound message and stamps the send time.
func (m *DeliveryMetrics) RecordSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	ts := m.now()
	m.lastSentAt = &ts
}

// RecordDelivered counts a confirmed delivery.
func (m *DeliveryMetrics) RecordDelivered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivered++
}

// RecordFailed counts a terminal delivery failure.
func (m *DeliveryMetrics) RecordFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
}

// RecordRead counts a read confirmation.
func (m *DeliveryMetrics) RecordRead() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.read++
}

// Snapshot returns a point-in-time copy of the counters.
func (m *DeliveryMetrics) Snapshot() ports.MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := ports.MetricsSnapshot{
		Sent:      m.sent,
		Delivered: m.delivered,
		Failed:    m.failed,
		Read:      m.read,
	}
	if m.lastSentAt != nil {
		ts := *m.lastSentAt
		snap.LastSentAt = &ts
	}
	return snap
}
