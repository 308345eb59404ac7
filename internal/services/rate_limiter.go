package services

import (
	"fmt"
	"sync"
	"time"
)

// PhoneRateLimiter caps how many SMS messages may target one phone number
// inside a sliding window, so a shared invite link cannot be used to spam
// somebody's phone.
type PhoneRateLimiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
}

func NewPhoneRateLimiter(maxRequests int, window time.Duration) *PhoneRateLimiter {
	return &PhoneRateLimiter{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow records one send attempt and errors when the number's window is full.
func (rl *PhoneRateLimiter) Allow(phoneNumber string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	recent := rl.requests[phoneNumber][:0]
	for _, at := range rl.requests[phoneNumber] {
		if at.After(cutoff) {
			recent = append(recent, at)
		}
	}

	if len(recent) >= rl.maxRequests {
		rl.requests[phoneNumber] = recent
		return fmt.Errorf("rate limit exceeded: maximum %d messages per %v", rl.maxRequests, rl.window)
	}

	rl.requests[phoneNumber] = append(recent, now)
	return nil
}
