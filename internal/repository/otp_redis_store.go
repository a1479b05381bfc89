package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/svec-cse/efacilities-api/internal/models"
)

const otpKeyPrefix = "otp:"

// RedisOTPStore keeps challenges in Redis with a TTL derived from the
// challenge issue time, so state survives restarts and is shared across
// instances. Redis evicts expired entries on its own; the verification path
// still applies the wall-clock check for exactness.
type RedisOTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOTPStore constructs a Redis-backed challenge store.
func NewRedisOTPStore(client *redis.Client, ttl time.Duration) *RedisOTPStore {
	return &RedisOTPStore{client: client, ttl: ttl}
}

// Get returns the challenge for an email, or nil when none exists.
func (s *RedisOTPStore) Get(ctx context.Context, email string) (*models.OTPChallenge, error) {
	raw, err := s.client.Get(ctx, otpKeyPrefix+email).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get challenge: %w", err)
	}
	var ch models.OTPChallenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}
	return &ch, nil
}

// Put stores the challenge with the remaining lifetime as its TTL, replacing
// any existing entry for the email.
func (s *RedisOTPStore) Put(ctx context.Context, ch *models.OTPChallenge) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	remaining := time.Until(ch.IssuedAt.Add(s.ttl))
	if remaining <= 0 {
		remaining = time.Second
	}
	if err := s.client.Set(ctx, otpKeyPrefix+ch.Email, payload, remaining).Err(); err != nil {
		return fmt.Errorf("redis set challenge: %w", err)
	}
	return nil
}

// Delete removes the challenge for an email if present.
func (s *RedisOTPStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, otpKeyPrefix+email).Err(); err != nil {
		return fmt.Errorf("redis delete challenge: %w", err)
	}
	return nil
}
