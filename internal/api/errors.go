package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/auth"
	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
	"github.com/AhsanHasan/Chatteree-BE/pkg/response"
)

// writeServiceError maps domain sentinel errors onto the response envelope.
// Anything unmapped is logged and returned as a 500 without leaking detail.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, "invalid request")
	case errors.Is(err, domain.ErrChatWithSelf):
		response.BadRequest(w, "cannot start a chat with yourself")
	case errors.Is(err, domain.ErrInvalidOTP):
		response.BadRequest(w, "invalid or expired code")
	case errors.Is(err, domain.ErrOTPThrottled):
		response.TooManyRequests(w, "please wait before requesting another code")
	case errors.Is(err, domain.ErrUserNotFound):
		response.NotFound(w, "user not found")
	case errors.Is(err, domain.ErrChatRoomNotFound):
		response.NotFound(w, "chat room not found")
	case errors.Is(err, domain.ErrStatusNotFound):
		response.NotFound(w, "status not found")
	case errors.Is(err, domain.ErrUsernameTaken):
		response.Conflict(w, "username is already taken")
	case errors.Is(err, domain.ErrUnauthorized):
		response.Unauthorized(w, "not allowed")
	case errors.Is(err, auth.ErrInvalidGoogleToken), errors.Is(err, auth.ErrGoogleEmailMissing):
		response.Unauthorized(w, "google sign-in failed")
	default:
		logger.Error("request failed", zap.Error(err))
		response.InternalError(w, "something went wrong")
	}
}
