package iot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterStore keeps one token bucket per device so a misbehaving
// wearable cannot flood ingestion. Devices can be given their own rate.
type RateLimiterStore struct {
	limiters     map[string]*deviceLimiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
	now          func() time.Time
}

type deviceLimiter struct {
	limiter  *rate.Limiter
	custom   bool
	lastSeen time.Time
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*deviceLimiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
		now:          time.Now,
	}
}

func (s *RateLimiterStore) GetLimiter(deviceID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.limiters[deviceID]
	if !exists {
		entry = &deviceLimiter{limiter: rate.NewLimiter(s.defaultRate, s.defaultBurst)}
		s.limiters[deviceID] = entry
	}
	entry.lastSeen = s.now()
	return entry.limiter
}

// Allow takes one token from the device's bucket.
func (s *RateLimiterStore) Allow(deviceID string) bool {
	return s.GetLimiter(deviceID).Allow()
}

func (s *RateLimiterStore) SetLimiter(deviceID string, deviceRate rate.Limit, deviceBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[deviceID] = &deviceLimiter{
		limiter:  rate.NewLimiter(deviceRate, deviceBurst),
		custom:   true,
		lastSeen: s.now(),
	}
}

// Prune forgets default limiters idle for longer than idle. Custom limits are
// kept.
func (s *RateLimiterStore) Prune(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	pruned := 0
	for deviceID, entry := range s.limiters {
		if !entry.custom && entry.lastSeen.Before(cutoff) {
			delete(s.limiters, deviceID)
			pruned++
		}
	}
	return pruned
}

func (s *RateLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
