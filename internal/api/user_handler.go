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

// UserHandler exposes profile reads and updates
type UserHandler struct {
	userService *domain.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *domain.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, user)
}

// ListActiveUsers returns everyone available for a new chat
func (h *UserHandler) ListActiveUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	users, err := h.userService.ListActiveUsers(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, users)
}

// UpdateName sets the user's display name
func (h *UserHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validator.ValidateName(req.Name) {
		response.BadRequest(w, "name must be between 2 and 100 characters")
		return
	}

	user, err := h.userService.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, user)
}

// UpdateProfilePicture sets the user's avatar URL
func (h *UserHandler) UpdateProfilePicture(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		ProfilePicture string `json:"profilePicture"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	user, err := h.userService.UpdateProfilePicture(r.Context(), userID, req.ProfilePicture)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, user)
}

// ClaimUsername assigns a unique handle to the user
func (h *UserHandler) ClaimUsername(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	req.Username = validator.SanitizeUsername(req.Username)
	if !validator.ValidateUsername(req.Username) {
		response.BadRequest(w, "username must be 3-30 lowercase letters, digits, dots or underscores")
		return
	}

	user, err := h.userService.ClaimUsername(r.Context(), userID, req.Username)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, user)
}
