package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrOTPInvalid is returned for a missing, expired or mismatched code.
var ErrOTPInvalid = errors.New("invalid otp")

const (
	otpKeyPrefix      = "otp:"
	otpResendPrefix   = "otp:resend:"
	defaultOTPTTL     = 10 * time.Minute
	defaultResendWait = time.Minute
)

// RedisOTPStore keeps hashed one-time codes in redis with a TTL, plus a
// short-lived resend marker that throttles repeated requests.
type RedisOTPStore struct {
	client     *redis.Client
	ttl        time.Duration
	resendWait time.Duration
}

// NewRedisOTPStore creates an OTP store over the given redis client.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{
		client:     client,
		ttl:        defaultOTPTTL,
		resendWait: defaultResendWait,
	}
}

// Save hashes and stores a code for the user, replacing any previous one,
// and arms the resend cool-down.
func (s *RedisOTPStore) Save(ctx context.Context, userID, code string) error {
	hash, err := HashOTP(code)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, otpKeyPrefix+userID, hash, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	if err := s.client.Set(ctx, otpResendPrefix+userID, "1", s.resendWait).Err(); err != nil {
		return fmt.Errorf("failed to arm otp resend cooldown: %w", err)
	}
	return nil
}

// Verify checks the code against the stored hash and consumes it on
// success. A missing, expired or mismatched code yields ErrOTPInvalid.
func (s *RedisOTPStore) Verify(ctx context.Context, userID, code string) error {
	key := otpKeyPrefix + userID
	hash, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrOTPInvalid
	}
	if err != nil {
		return fmt.Errorf("failed to load otp: %w", err)
	}
	if err := VerifyOTP(code, hash); err != nil {
		return ErrOTPInvalid
	}
	// Single use: a verified code must not verify twice.
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}
	return nil
}

// CanResend reports whether the resend cool-down has elapsed.
func (s *RedisOTPStore) CanResend(ctx context.Context, userID string) (bool, error) {
	_, err := s.client.Get(ctx, otpResendPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check otp cooldown: %w", err)
	}
	return false, nil
}
