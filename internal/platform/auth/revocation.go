package auth

import (
	"context"
	"sync"
	"time"
)

// Revoker records session token IDs that must no longer be accepted.
type Revoker interface {
	// Revoke rejects jti until the given time, after which the token has
	// expired on its own.
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevoker keeps revoked token IDs in process memory with periodic
// cleanup of expired entries. Safe for concurrent use. Revocations are lost
// on restart and are not shared between instances.
type MemoryRevoker struct {
	mu      sync.RWMutex
	entries map[string]time.Time // JTI -> natural expiry
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// NewMemoryRevoker creates a revoker and starts a background goroutine that
// drops expired entries every interval. Call Close to stop it.
func NewMemoryRevoker(interval time.Duration) *MemoryRevoker {
	s := &MemoryRevoker{
		entries: make(map[string]time.Time),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go s.cleanupLoop(interval)
	return s
}

func (s *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = until
	return nil
}

func (s *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[jti]
	return ok, nil
}

// Count returns the number of tracked revocations.
func (s *MemoryRevoker) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (s *MemoryRevoker) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryRevoker) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes entries whose tokens have expired anyway.
func (s *MemoryRevoker) cleanup() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for jti, until := range s.entries {
		if now.After(until) {
			delete(s.entries, jti)
		}
	}
}
