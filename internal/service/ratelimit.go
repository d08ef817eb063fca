package service

import (
	"sync"
	"time"
)

// MessageRateLimiter implements ports.RateLimiter with a token bucket for
// short bursts plus a sliding per-minute ceiling. One mutex guards both, so
// a grant is a single atomic decision no matter how many dispatch workers
// race for it.
type MessageRateLimiter struct {
	mu sync.Mutex

	ratePerSec float64
	burst      int
	perMinute  int

	tokens     float64
	lastRefill time.Time
	sentTimes  []time.Time

	now func() time.Time
}

// NewMessageRateLimiter creates a limiter. ratePerSec refills the bucket up
// to burst; perMinute caps grants in any sliding 60s window. Non-positive
// values disable the corresponding check.
func NewMessageRateLimiter(ratePerSec float64, burst, perMinute int) *MessageRateLimiter {
	l := &MessageRateLimiter{
		ratePerSec: ratePerSec,
		burst:      burst,
		perMinute:  perMinute,
		tokens:     float64(burst),
		now:        time.Now,
	}
	l.lastRefill = l.now()
	return l
}

// TryAcquire takes one send token if both limits allow it. Non-blocking;
// false means "retry later".
func (l *MessageRateLimiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if l.burst > 0 {
		elapsed := now.Sub(l.lastRefill).Seconds()
		l.tokens += elapsed * l.ratePerSec
		if l.tokens > float64(l.burst) {
			l.tokens = float64(l.burst)
		}
		l.lastRefill = now

		if l.tokens < 1 {
			return false
		}
	}

	if l.perMinute > 0 {
		cutoff := now.Add(-time.Minute)
		kept := l.sentTimes[:0]
		for _, ts := range l.sentTimes {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}
		l.sentTimes = kept

		if len(l.sentTimes) >= l.perMinute {
			return false
		}
		l.sentTimes = append(l.sentTimes, now)
	}

	if l.burst > 0 {
		l.tokens--
	}
	return true
}
