package domain_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/auth"
	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
)

type fakeOTPStore struct {
	mu        sync.Mutex
	codes     map[string]string
	cooldowns map[string]bool
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: make(map[string]string), cooldowns: make(map[string]bool)}
}

func (f *fakeOTPStore) Save(ctx context.Context, userID, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[userID] = code
	f.cooldowns[userID] = true
	return nil
}

func (f *fakeOTPStore) Verify(ctx context.Context, userID, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stored, ok := f.codes[userID]; !ok || stored != code {
		return auth.ErrOTPInvalid
	}
	delete(f.codes, userID)
	return nil
}

func (f *fakeOTPStore) CanResend(ctx context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.cooldowns[userID], nil
}

func (f *fakeOTPStore) code(userID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[userID]
}

func (f *fakeOTPStore) clearCooldown(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cooldowns[userID] = false
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailer) SendOTP(ctx context.Context, email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newAuthServiceFixture(t *testing.T) (*domain.AuthService, *fakeUserRepo, *fakeOTPStore, *fakeMailer) {
	t.Helper()
	users := newFakeUserRepo()
	otp := newFakeOTPStore()
	mailer := &fakeMailer{}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	google := auth.NewGoogleVerifier(nil)
	svc := domain.NewAuthService(users, jwtManager, google, otp, mailer, zap.NewNop())
	return svc, users, otp, mailer
}

func TestAuthenticateWithEmailRegistersNewUser(t *testing.T) {
	svc, _, otp, mailer := newAuthServiceFixture(t)

	result, err := svc.AuthenticateWithEmail(context.Background(), "  New@Example.COM ")

	require.NoError(t, err)
	assert.Equal(t, domain.RequestTypeRegister, result.RequestType)
	assert.Equal(t, "new@example.com", result.User.Email)
	assert.NotEmpty(t, result.Token)
	assert.False(t, result.User.IsActive)

	// A code was stored and the mail goes out asynchronously
	assert.NotEmpty(t, otp.code(result.User.ID.String()))
	assert.Eventually(t, func() bool { return mailer.sentCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestAuthenticateWithEmailRecognisesExistingUser(t *testing.T) {
	svc, users, _, _ := newAuthServiceFixture(t)
	users.seed(&domain.User{Email: "known@example.com"})

	result, err := svc.AuthenticateWithEmail(context.Background(), "known@example.com")

	require.NoError(t, err)
	assert.Equal(t, domain.RequestTypeLogin, result.RequestType)
}

func TestAuthenticateWithEmailRejectsEmpty(t *testing.T) {
	svc, _, _, _ := newAuthServiceFixture(t)

	_, err := svc.AuthenticateWithEmail(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestVerifyEmailActivatesAccount(t *testing.T) {
	svc, _, otp, _ := newAuthServiceFixture(t)

	result, err := svc.AuthenticateWithEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	code := otp.code(result.User.ID.String())
	require.NotEmpty(t, code)

	user, err := svc.VerifyEmail(context.Background(), result.User.ID, code)
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	// Codes are single use
	_, err = svc.VerifyEmail(context.Background(), result.User.ID, code)
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
}

func TestVerifyEmailRejectsWrongCode(t *testing.T) {
	svc, _, _, _ := newAuthServiceFixture(t)

	result, err := svc.AuthenticateWithEmail(context.Background(), "new@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyEmail(context.Background(), result.User.ID, "000000")
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
}

func TestResendOTPThrottled(t *testing.T) {
	svc, _, otp, _ := newAuthServiceFixture(t)

	result, err := svc.AuthenticateWithEmail(context.Background(), "new@example.com")
	require.NoError(t, err)

	// Straight after sign-in the cool-down is armed
	err = svc.ResendOTP(context.Background(), result.User.ID)
	assert.ErrorIs(t, err, domain.ErrOTPThrottled)

	otp.clearCooldown(result.User.ID.String())
	assert.NoError(t, svc.ResendOTP(context.Background(), result.User.ID))
}
