package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
	"github.com/AhsanHasan/Chatteree-BE/internal/middleware"
	"github.com/AhsanHasan/Chatteree-BE/pkg/response"
	"github.com/AhsanHasan/Chatteree-BE/pkg/validator"
)

// AuthHandler exposes the passwordless email/OTP and Google sign-in flows
type AuthHandler struct {
	authService *domain.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *domain.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Authenticate signs a user in by email, creating the account on first
// contact, and mails a one-time code
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	req.Email = validator.SanitizeEmail(req.Email)
	if !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "invalid email address")
		return
	}

	result, err := h.authService.AuthenticateWithEmail(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, result)
}

// AuthenticateGoogle verifies a Google ID token and signs the user in
func (h *AuthHandler) AuthenticateGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.IDToken == "" {
		response.BadRequest(w, "idToken is required")
		return
	}

	result, err := h.authService.AuthenticateWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, result)
}

// VerifyEmail consumes the authenticated user's one-time code and activates
// the account
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		OTP string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validator.ValidateOTP(req.OTP) {
		response.BadRequest(w, "code must be 6 digits")
		return
	}

	user, err := h.authService.VerifyEmail(r.Context(), userID, req.OTP)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, user)
}

// ResendOTP issues a fresh one-time code unless the cool-down is running
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	if err := h.authService.ResendOTP(r.Context(), userID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, map[string]string{"message": "code sent"})
}
