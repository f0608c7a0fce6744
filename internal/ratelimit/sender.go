// Package ratelimit provides per-sender flood control for webhook events.
//
// The Send API client already throttles the page-level outbound rate; this
// package bounds how fast any single conversation can consume it. A sender
// hammering quick replies gets dropped events instead of starving everyone
// else's replies.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/snapframe/helpbot-go/internal/metrics"
)

// SenderConfig configures a SenderLimiter.
type SenderConfig struct {
	// Burst is the token bucket capacity per sender.
	Burst int

	// RefillRate is the tokens refilled per second per sender.
	RefillRate float64

	// CleanupPeriod controls how often idle senders are evicted.
	CleanupPeriod time.Duration

	// Metrics is optional.
	Metrics *metrics.Metrics
}

// SenderLimiter tracks one token bucket per sender PSID and evicts senders
// whose bucket has refilled completely.
type SenderLimiter struct {
	mu      sync.RWMutex
	entries map[string]*rate.Limiter
	cfg     SenderConfig
	stopCh  chan struct{}
	stopped sync.Once
}

// NewSenderLimiter creates a per-sender limiter and starts its cleanup loop.
func NewSenderLimiter(cfg SenderConfig) *SenderLimiter {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 5 * time.Minute
	}

	sl := &SenderLimiter{
		entries: make(map[string]*rate.Limiter),
		cfg:     cfg,
		stopCh:  make(chan struct{}),
	}

	go sl.cleanupLoop()

	return sl
}

// Allow reports whether one event from senderID may be processed, consuming
// a token when it may. An empty sender ID is always allowed; those events
// carry no conversation to flood.
func (sl *SenderLimiter) Allow(senderID string) bool {
	if senderID == "" {
		return true
	}

	if sl.getOrCreate(senderID).Allow() {
		return true
	}

	if sl.cfg.Metrics != nil {
		sl.cfg.Metrics.RecordRateLimiterDrop()
	}
	return false
}

func (sl *SenderLimiter) getOrCreate(senderID string) *rate.Limiter {
	sl.mu.RLock()
	lim, ok := sl.entries[senderID]
	sl.mu.RUnlock()
	if ok {
		return lim
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if lim, ok = sl.entries[senderID]; ok {
		return lim
	}

	lim = rate.NewLimiter(rate.Limit(sl.cfg.RefillRate), sl.cfg.Burst)
	sl.entries[senderID] = lim
	return lim
}

// ActiveCount returns the number of senders currently tracked.
func (sl *SenderLimiter) ActiveCount() int {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return len(sl.entries)
}

// cleanupLoop evicts senders whose bucket is full again, meaning they have
// been idle long enough to not need tracking.
func (sl *SenderLimiter) cleanupLoop() {
	ticker := time.NewTicker(sl.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-sl.stopCh:
			return
		case <-ticker.C:
			sl.mu.Lock()
			for id, lim := range sl.entries {
				if lim.Tokens() >= float64(sl.cfg.Burst) {
					delete(sl.entries, id)
				}
			}
			active := len(sl.entries)
			sl.mu.Unlock()

			if sl.cfg.Metrics != nil {
				sl.cfg.Metrics.SetRateLimiterSenders(active)
			}
		}
	}
}

// Stop terminates the cleanup loop. Safe to call multiple times.
func (sl *SenderLimiter) Stop() {
	sl.stopped.Do(func() { close(sl.stopCh) })
}
