// Package otp issues and verifies one-time email codes stored in Redis.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"homeserve/services/analytics"
	"homeserve/services/notification"
	"homeserve/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Code purposes.
const (
	PurposeVerify = "verify"
	PurposeReset  = "reset"
	PurposeLogin  = "login"
)

var (
	ErrOTPExpired          = errors.New("otp not found or expired")
	ErrOTPInvalid          = errors.New("otp does not match")
	ErrOTPAttemptsExceeded = errors.New("too many wrong attempts; request a new code")
	ErrUnknownPurpose      = errors.New("unknown otp purpose")
)

// CooldownError is returned when a code was sent too recently.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("otp recently sent; retry in %ds", int(e.RetryAfter.Seconds()))
}

// Policy controls code generation and lifetime.
type Policy struct {
	Length         int
	TTL            time.Duration
	MaxAttempts    int
	ResendCooldown time.Duration
}

// OTPService issues and checks codes for one account email.
type OTPService interface {
	Issue(ctx context.Context, role, purpose, email, name string) error
	Verify(ctx context.Context, role, purpose, email, code string) error
}

// RedisOTPService keeps codes in a Redis hash with the attempt counter.
type RedisOTPService struct {
	client  *redis.Client
	mailer  notification.Mailer
	policy  Policy
	metrics *analytics.Metrics
	now     func() time.Time
}

func NewRedisOTPService(client *redis.Client, mailer notification.Mailer, policy Policy, metrics *analytics.Metrics) *RedisOTPService {
	if policy.Length <= 0 {
		policy.Length = 6
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 5
	}
	if policy.TTL <= 0 {
		policy.TTL = 10 * time.Minute
	}
	return &RedisOTPService{client: client, mailer: mailer, policy: policy, metrics: metrics, now: time.Now}
}

func validPurpose(p string) bool {
	return p == PurposeVerify || p == PurposeReset || p == PurposeLogin
}

func codeKey(role, purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s:%s", role, purpose, strings.ToLower(email))
}

func cooldownKey(role, purpose, email string) string {
	return codeKey(role, purpose, email) + ":cooldown"
}

// generateNumericOTP returns length random decimal digits.
func generateNumericOTP(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

// Issue generates a code, stores it and emails it. A new code replaces any
// previous one and resets the attempt counter.
func (s *RedisOTPService) Issue(ctx context.Context, role, purpose, email, name string) error {
	if !validPurpose(purpose) {
		return ErrUnknownPurpose
	}
	logger := utils.GetLogger()
	cdKey := cooldownKey(role, purpose, email)

	if s.policy.ResendCooldown > 0 {
		ok, err := s.client.SetNX(ctx, cdKey, "1", s.policy.ResendCooldown).Result()
		if err != nil {
			return fmt.Errorf("failed to check otp cooldown: %w", err)
		}
		if !ok {
			ttl, err := s.client.TTL(ctx, cdKey).Result()
			if err != nil || ttl < 0 {
				ttl = s.policy.ResendCooldown
			}
			return &CooldownError{RetryAfter: ttl}
		}
	}

	code, err := generateNumericOTP(s.policy.Length)
	if err != nil {
		return err
	}

	key := codeKey(role, purpose, email)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "code", code, "attempts", 0)
		pipe.Expire(ctx, key, s.policy.TTL)
		return nil
	})
	if err != nil {
		logger.Error("Failed to cache OTP", zap.Error(err))
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.mailer.Send(ctx, otpEmail(email, name, purpose, code, s.policy.TTL)); err != nil {
		logger.Error("Failed to send OTP email", zap.String("email", email), zap.Error(err))
		// Let the caller retry immediately.
		s.client.Del(ctx, cdKey)
		return fmt.Errorf("failed to send otp: %w", err)
	}

	s.metrics.OTPIssuedFor(role, purpose)
	logger.Info("OTP issued",
		zap.String("role", role),
		zap.String("purpose", purpose),
		zap.String("email", email),
		zap.Duration("ttl", s.policy.TTL))
	return nil
}

// countAttempt bumps the attempt counter only while the code exists, so a
// code that expired after the read is not recreated without a TTL.
var countAttempt = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], "attempts", 1)
`)

// recordAttempt returns the new attempt count, or -1 when the code is gone.
func (s *RedisOTPService) recordAttempt(ctx context.Context, key string) (int64, error) {
	return countAttempt.Run(ctx, s.client, []string{key}).Int64()
}

// Verify checks code against the stored one. Success consumes the code; a
// wrong code counts an attempt and the code is dropped after MaxAttempts.
func (s *RedisOTPService) Verify(ctx context.Context, role, purpose, email, code string) error {
	if !validPurpose(purpose) {
		return ErrUnknownPurpose
	}
	key := codeKey(role, purpose, email)

	stored, err := s.client.HGet(ctx, key, "code").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrOTPExpired
		}
		return fmt.Errorf("failed to retrieve otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) == 1 {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			utils.GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
		}
		return nil
	}

	attempts, err := s.recordAttempt(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to record otp attempt: %w", err)
	}
	if attempts < 0 {
		return ErrOTPExpired
	}
	if attempts >= int64(s.policy.MaxAttempts) {
		s.client.Del(ctx, key)
		return ErrOTPAttemptsExceeded
	}
	return ErrOTPInvalid
}
