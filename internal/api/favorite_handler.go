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

// FavoriteHandler exposes the favorite chat room toggle and listing
type FavoriteHandler struct {
	favoriteService *domain.FavoriteService
	logger          *zap.Logger
}

func NewFavoriteHandler(favoriteService *domain.FavoriteService, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// Toggle favorites the room, or removes the favorite if it already exists
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		ChatRoomID string `json:"chatroomId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	roomID, err := uuid.Parse(req.ChatRoomID)
	if err != nil {
		response.BadRequest(w, "invalid chatroomId")
		return
	}

	favorite, err := h.favoriteService.Toggle(r.Context(), userID, roomID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if favorite == nil {
		response.OK(w, map[string]bool{"favorite": false})
		return
	}
	response.OK(w, favorite)
}

// List returns the user's favorited rooms with the standard enrichment
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	rooms, err := h.favoriteService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, rooms)
}
