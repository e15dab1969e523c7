package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
	"github.com/AhsanHasan/Chatteree-BE/internal/middleware"
	"github.com/AhsanHasan/Chatteree-BE/pkg/response"
)

// MessageHandler exposes the message pagination engine and delivery
type MessageHandler struct {
	messageService *domain.MessageService
	logger         *zap.Logger
}

func NewMessageHandler(messageService *domain.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// FetchMessages runs one retrieval mode, selected by query parameters:
//
//   - chatroomId alone: the newest page.
//   - messageId + messagesType=old|new: the page before/after the cursor.
//   - messageId + isSearchQuery=true: a window straddling the anchor.
func (h *MessageHandler) FetchMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	q := r.URL.Query()

	roomID, err := uuid.Parse(q.Get("chatroomId"))
	if err != nil {
		response.BadRequest(w, "invalid chatroomId")
		return
	}

	params := domain.FetchMessagesParams{
		ChatRoomID:  roomID,
		RequesterID: userID,
	}
	params.Limit, _ = strconv.Atoi(q.Get("limit"))

	if raw := q.Get("messageId"); raw != "" {
		anchor, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "invalid messageId")
			return
		}
		params.AnchorID = &anchor
		params.Direction = domain.FetchDirection(q.Get("messagesType"))
		params.SearchAnchor, _ = strconv.ParseBool(q.Get("isSearchQuery"))

		if !params.SearchAnchor && params.Direction != domain.FetchOlder && params.Direction != domain.FetchNewer {
			response.BadRequest(w, "messagesType must be old or new")
			return
		}
	}

	page, err := h.messageService.FetchMessages(r.Context(), params)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, page)
}

// SendMessage appends a message to a room the sender participates in
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		ChatRoomID string `json:"chatroomId"`
		Content    string `json:"content"`
		Type       string `json:"type"`
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

	msg, err := h.messageService.SendMessage(r.Context(), domain.CreateMessageParams{
		ChatRoomID: roomID,
		SenderID:   userID,
		Content:    req.Content,
		Type:       domain.MessageType(req.Type),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Created(w, msg)
}

// MarkRead flags everything addressed to the reader in the room as read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
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

	count, err := h.messageService.MarkMessagesRead(r.Context(), roomID, userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.OK(w, map[string]int64{"updated": count})
}
