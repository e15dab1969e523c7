package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/auth"
)

// OTPStore keeps short-lived one-time codes keyed by user.
type OTPStore interface {
	// Save stores a code for the user, replacing any previous one.
	Save(ctx context.Context, userID, code string) error
	// Verify checks the code and consumes it on success. Returns
	// ErrInvalidOTP for a wrong, used or expired code.
	Verify(ctx context.Context, userID, code string) error
	// CanResend reports whether the resend cool-down for the user has
	// elapsed.
	CanResend(ctx context.Context, userID string) (bool, error)
}

// OTPMailer delivers one-time codes to a mailbox.
type OTPMailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// RequestType tells the client whether an email sign-in hit an existing
// account or registered a new one.
const (
	RequestTypeLogin    = "login"
	RequestTypeRegister = "register"
)

// AuthResult is returned from both sign-in flows.
type AuthResult struct {
	User        *UserResponse `json:"user"`
	Token       string        `json:"token"`
	RequestType string        `json:"request_type"`
}

// AuthService handles passwordless email/OTP and Google sign-in.
type AuthService struct {
	users  UserRepository
	jwt    *auth.JWTManager
	google *auth.GoogleVerifier
	otp    OTPStore
	mailer OTPMailer
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserRepository, jwt *auth.JWTManager, google *auth.GoogleVerifier, otp OTPStore, mailer OTPMailer, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		jwt:    jwt,
		google: google,
		otp:    otp,
		mailer: mailer,
		logger: logger,
	}
}

// AuthenticateWithEmail signs a user in by email, registering the account on
// first contact. A fresh OTP is stored and mailed; mail delivery is best
// effort and never fails the sign-in.
func (s *AuthService) AuthenticateWithEmail(ctx context.Context, email string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrValidation
	}

	requestType := RequestTypeLogin
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		user, err = s.users.CreateUser(ctx, email)
		requestType = RequestTypeRegister
	}
	if err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, user); err != nil {
		return nil, err
	}
	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:        user.ToResponse(),
		Token:       token,
		RequestType: requestType,
	}, nil
}

// VerifyEmail consumes the user's OTP and activates the account.
func (s *AuthService) VerifyEmail(ctx context.Context, userID uuid.UUID, code string) (*UserResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.otp.Verify(ctx, user.ID.String(), code); err != nil {
		if errors.Is(err, auth.ErrOTPInvalid) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	user, err = s.users.ActivateUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ResendOTP issues a new code unless the resend cool-down is still running.
func (s *AuthService) ResendOTP(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := s.otp.CanResend(ctx, user.ID.String())
	if err != nil {
		return err
	}
	if !ok {
		return ErrOTPThrottled
	}
	return s.issueOTP(ctx, user)
}

// AuthenticateWithGoogle verifies a Google ID token and signs the user in,
// registering and activating the account on first contact since Google has
// already verified the mailbox.
func (s *AuthService) AuthenticateWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	googleUser, err := s.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(googleUser.Email)
	requestType := RequestTypeLogin
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		requestType = RequestTypeRegister
		user, err = s.users.CreateUser(ctx, email)
		if err != nil {
			return nil, err
		}
		if googleUser.Name != "" {
			if user, err = s.users.UpdateUserName(ctx, user.ID, googleUser.Name); err != nil {
				return nil, err
			}
		}
		if googleUser.Picture != "" {
			if user, err = s.users.UpdateUserProfilePicture(ctx, user.ID, googleUser.Picture); err != nil {
				return nil, err
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		if user, err = s.users.ActivateUser(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:        user.ToResponse(),
		Token:       token,
		RequestType: requestType,
	}, nil
}

func (s *AuthService) issueOTP(ctx context.Context, user *User) error {
	code, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.otp.Save(ctx, user.ID.String(), code); err != nil {
		return err
	}
	go func() {
		if err := s.mailer.SendOTP(context.WithoutCancel(ctx), user.Email, code); err != nil {
			s.logger.Error("failed to send otp mail", zap.String("email", user.Email), zap.Error(err))
		}
	}()
	return nil
}
