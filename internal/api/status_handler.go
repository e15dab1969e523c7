package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
	"github.com/AhsanHasan/Chatteree-BE/internal/middleware"
	"github.com/AhsanHasan/Chatteree-BE/pkg/response"
)

// StatusHandler exposes ephemeral status posts and their feed
type StatusHandler struct {
	statusService *domain.StatusService
	logger        *zap.Logger
}

func NewStatusHandler(statusService *domain.StatusService, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
		logger:        logger,
	}
}

// Create posts a new status
func (h *StatusHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	status, err := h.statusService.Create(r.Context(), userID, domain.StatusType(req.Type), req.URL)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Created(w, status)
}

// View records that the requester has seen a status
func (h *StatusHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		StatusID string `json:"statusId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	statusID, err := uuid.Parse(req.StatusID)
	if err != nil {
		response.BadRequest(w, "invalid statusId")
		return
	}

	if err := h.statusService.View(r.Context(), userID, statusID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, map[string]bool{"viewed": true})
}

// Feed returns the active statuses of everyone the requester chats with
func (h *StatusHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	feed, err := h.statusService.Feed(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, feed)
}
