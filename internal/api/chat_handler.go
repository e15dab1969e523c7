package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
	"github.com/AhsanHasan/Chatteree-BE/internal/middleware"
	"github.com/AhsanHasan/Chatteree-BE/pkg/response"
)

// ChatHandler exposes chat room resolution, listing and search
type ChatHandler struct {
	chatService    *domain.ChatService
	messageService *domain.MessageService
	logger         *zap.Logger
}

func NewChatHandler(chatService *domain.ChatService, messageService *domain.MessageService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService:    chatService,
		messageService: messageService,
		logger:         logger,
	}
}

// ResolveChatRoom returns the room between the requester and ?userId=,
// creating it on first contact
func (h *ChatHandler) ResolveChatRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	counterpartID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		response.BadRequest(w, "invalid userId")
		return
	}

	view, created, err := h.chatService.ResolveChatRoom(r.Context(), userID, counterpartID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if created {
		response.Created(w, view)
		return
	}
	response.OK(w, view)
}

// ListChatRooms returns a page of the user's rooms, optionally filtered by
// a counterpart search term
func (h *ChatHandler) ListChatRooms(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	list, err := h.chatService.ListChatRooms(r.Context(), userID, page, limit, search)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, list)
}

// GetChatRoomByID returns one room with its newest page of messages
func (h *ChatHandler) GetChatRoomByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid chat room id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	page, err := h.messageService.FetchMessages(r.Context(), domain.FetchMessagesParams{
		ChatRoomID:  roomID,
		RequesterID: userID,
		Limit:       limit,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, page)
}

// Search matches the user's rooms by counterpart profile and message content
func (h *ChatHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	result, err := h.chatService.Search(r.Context(), userID, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, result)
}
