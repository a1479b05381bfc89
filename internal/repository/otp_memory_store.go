package repository

import (
	"context"
	"sync"
	"time"

	"github.com/svec-cse/efacilities-api/internal/models"
)

// MemoryOTPStore keeps challenges in process memory. State does not survive a
// restart. Expiry is lazy: the verification path rejects stale challenges, and
// an optional sweeper bounds memory for abandoned flows.
type MemoryOTPStore struct {
	mu         sync.Mutex
	challenges map[string]models.OTPChallenge
	ttl        time.Duration
}

// NewMemoryOTPStore constructs an in-memory challenge store.
func NewMemoryOTPStore(ttl time.Duration) *MemoryOTPStore {
	return &MemoryOTPStore{
		challenges: make(map[string]models.OTPChallenge),
		ttl:        ttl,
	}
}

// Get returns the challenge for an email, or nil when none exists.
func (s *MemoryOTPStore) Get(ctx context.Context, email string) (*models.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[email]
	if !ok {
		return nil, nil
	}
	copied := ch
	return &copied, nil
}

// Put stores the challenge, replacing any existing entry for the email.
func (s *MemoryOTPStore) Put(ctx context.Context, ch *models.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[ch.Email] = *ch
	return nil
}

// Delete removes the challenge for an email if present.
func (s *MemoryOTPStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, email)
	return nil
}

// Len reports the number of stored challenges.
func (s *MemoryOTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}

// StartSweeper evicts expired challenges on the given interval until the
// returned stop function is called. Interval <= 0 disables sweeping.
func (s *MemoryOTPStore) StartSweeper(interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(time.Now())
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (s *MemoryOTPStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, ch := range s.challenges {
		if now.Sub(ch.IssuedAt) >= s.ttl {
			delete(s.challenges, email)
		}
	}
}
