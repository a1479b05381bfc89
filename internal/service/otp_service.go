package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/svec-cse/efacilities-api/internal/models"
	"github.com/svec-cse/efacilities-api/pkg/config"
	appErrors "github.com/svec-cse/efacilities-api/pkg/errors"
	"github.com/svec-cse/efacilities-api/pkg/mail"
)

// OTPStore persists pending challenges keyed by email. Get returns nil with
// no error when no challenge is pending.
type OTPStore interface {
	Get(ctx context.Context, email string) (*models.OTPChallenge, error)
	Put(ctx context.Context, ch *models.OTPChallenge) error
	Delete(ctx context.Context, email string) error
}

// Verification outcome labels for metrics.
const (
	otpResultVerified        = "verified"
	otpResultNoChallenge     = "no_challenge"
	otpResultExpired         = "expired"
	otpResultTooManyAttempts = "too_many_attempts"
	otpResultInvalidCode     = "invalid_code"
)

// OTPService issues and verifies one-time codes with bounded lifetime and
// bounded attempts. Operations on the same email are serialized so the
// attempt counter stays correct under concurrent requests; operations on
// different emails interleave freely.
type OTPService struct {
	store        OTPStore
	sender       mail.Sender
	metrics      *MetricsService
	logger       *zap.Logger
	cfg          config.OTPConfig
	emailPattern *regexp.Regexp
	locks        keyedMutex
	now          func() time.Time
}

// NewOTPService constructs the OTP service.
func NewOTPService(store OTPStore, sender mail.Sender, metrics *MetricsService, logger *zap.Logger, cfg config.OTPConfig) *OTPService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	domain := cfg.EmailDomain
	if domain == "" {
		domain = "sves.org.in"
	}
	pattern := regexp.MustCompile(`^\d{2}[A-Za-z]\d{2}[A-Za-z]\d{4}@` + regexp.QuoteMeta(domain) + `$`)
	return &OTPService{
		store:        store,
		sender:       sender,
		metrics:      metrics,
		logger:       logger,
		cfg:          cfg,
		emailPattern: pattern,
		now:          time.Now,
	}
}

// Issue generates a fresh 6-digit code for the email, replacing any pending
// challenge, and delivers it out of band. The code is never returned to the
// caller. A delivery failure is reported but the stored challenge remains, so
// a code that did reach the inbox stays verifiable.
func (s *OTPService) Issue(ctx context.Context, email string) error {
	if !s.emailPattern.MatchString(email) {
		return appErrors.Clone(appErrors.ErrInvalidEmail, "")
	}

	unlock := s.locks.lock(email)
	defer unlock()

	code, err := generateCode()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate OTP")
	}

	ch := &models.OTPChallenge{
		Email:    email,
		Code:     code,
		IssuedAt: s.now().UTC(),
		Attempts: 0,
	}
	if err := s.store.Put(ctx, ch); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store OTP challenge")
	}

	subject := "SVEC Feedback Form Verification"
	if err := s.sender.Send(email, subject, verificationBody(code, s.cfg.TTL)); err != nil {
		s.logger.Error("otp delivery failed", zap.String("email", email), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrSendFailed.Code, appErrors.ErrSendFailed.Status, appErrors.ErrSendFailed.Message)
	}

	if s.metrics != nil {
		s.metrics.RecordOTPIssued()
	}
	s.logger.Info("otp issued", zap.String("email", email))
	return nil
}

// Verify checks a submitted code against the pending challenge. The attempt
// counter is incremented and persisted before the comparison, so a wrong code
// always consumes an attempt. Success, expiry and attempt exhaustion all
// remove the challenge.
func (s *OTPService) Verify(ctx context.Context, email, submittedCode string) error {
	unlock := s.locks.lock(email)
	defer unlock()

	ch, err := s.store.Get(ctx, email)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load OTP challenge")
	}
	if ch == nil {
		s.recordVerification(otpResultNoChallenge)
		return appErrors.Clone(appErrors.ErrNoChallenge, "")
	}

	now := s.now().UTC()
	if now.Sub(ch.IssuedAt) >= s.cfg.TTL {
		if err := s.store.Delete(ctx, email); err != nil {
			s.logger.Warn("failed to drop expired challenge", zap.String("email", email), zap.Error(err))
		}
		s.recordVerification(otpResultExpired)
		return appErrors.Clone(appErrors.ErrOTPExpired, "")
	}

	if ch.Attempts >= s.cfg.MaxAttempts {
		if err := s.store.Delete(ctx, email); err != nil {
			s.logger.Warn("failed to drop exhausted challenge", zap.String("email", email), zap.Error(err))
		}
		s.recordVerification(otpResultTooManyAttempts)
		return appErrors.Clone(appErrors.ErrTooManyAttempts, "")
	}

	ch.Attempts++
	if err := s.store.Put(ctx, ch); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist OTP attempt")
	}

	if ch.Code != submittedCode {
		s.recordVerification(otpResultInvalidCode)
		return appErrors.Clone(appErrors.ErrInvalidCode, "")
	}

	if err := s.store.Delete(ctx, email); err != nil {
		s.logger.Warn("failed to drop verified challenge", zap.String("email", email), zap.Error(err))
	}
	s.recordVerification(otpResultVerified)
	s.logger.Info("email verified", zap.String("email", email))
	return nil
}

func (s *OTPService) recordVerification(result string) {
	if s.metrics != nil {
		s.metrics.RecordOTPVerification(result)
	}
}

// generateCode returns a uniform random code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

func verificationBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">SVEC Feedback Form Verification</h2>
  <p>Your verification code is:</p>
  <h1 style="color: #4CAF50; font-size: 36px; letter-spacing: 5px;">%s</h1>
  <p>This code will expire in %d minutes.</p>
  <p>If you didn't request this code, please ignore this email.</p>
</div>`, code, int(ttl.Minutes()))
}

// keyedMutex serializes operations sharing a key while letting distinct keys
// proceed independently. Entries are reclaimed once the last holder releases.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.entries == nil {
		k.entries = make(map[string]*lockEntry)
	}
	e := k.entries[key]
	if e == nil {
		e = &lockEntry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
