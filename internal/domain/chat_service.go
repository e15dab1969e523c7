package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ChatService resolves chat rooms and assembles enriched room listings.
type ChatService struct {
	users    UserRepository
	rooms    ChatRepository
	messages MessageRepository
}

// NewChatService creates a new chat service
func NewChatService(users UserRepository, rooms ChatRepository, messages MessageRepository) *ChatService {
	return &ChatService{
		users:    users,
		rooms:    rooms,
		messages: messages,
	}
}

// ChatRoomList is a page of enriched rooms plus pagination metadata.
type ChatRoomList struct {
	ChatRooms  []*ChatRoomView `json:"chatrooms"`
	Pagination Pagination      `json:"pagination"`
}

// ChatSearchResult holds combined participant and message search hits.
// Message hits carry the ids used as anchors for windowed fetches.
type ChatSearchResult struct {
	ChatRooms []*ChatRoomView `json:"chatrooms"`
	Messages  []*MessageView  `json:"messages"`
}

// ResolveChatRoom finds the single room between the requester and the
// counterpart, creating it on first contact. A new room is seeded with an
// empty placeholder message so the client has a draft to render.
//
// Creation races are resolved at the store layer: the canonical participant
// pair carries a unique index, and losing the race degrades to a re-fetch.
func (s *ChatService) ResolveChatRoom(ctx context.Context, requesterID, counterpartID uuid.UUID) (*ChatRoomView, bool, error) {
	if requesterID == counterpartID {
		return nil, false, ErrChatWithSelf
	}
	if _, err := s.users.GetUserByID(ctx, counterpartID); err != nil {
		return nil, false, err
	}

	a, b := CanonicalPair(requesterID, counterpartID)
	room, err := s.rooms.GetRoomByParticipants(ctx, a, b)
	if err == nil {
		view, err := s.rooms.GetRoomView(ctx, room.ID, requesterID)
		return view, false, err
	}
	if !errors.Is(err, ErrChatRoomNotFound) {
		return nil, false, err
	}

	room, err = s.rooms.CreateRoom(ctx, a, b)
	if errors.Is(err, ErrChatRoomExists) {
		// Someone else won the creation race; their room is the room.
		room, err = s.rooms.GetRoomByParticipants(ctx, a, b)
		if err != nil {
			return nil, false, err
		}
		view, err := s.rooms.GetRoomView(ctx, room.ID, requesterID)
		return view, false, err
	}
	if err != nil {
		return nil, false, err
	}

	placeholder, err := s.messages.CreateMessage(ctx, CreateMessageParams{
		ChatRoomID: room.ID,
		SenderID:   requesterID,
		Content:    "",
		Type:       MessageTypeText,
	})
	if err != nil {
		return nil, false, fmt.Errorf("seed placeholder message: %w", err)
	}
	if err := s.rooms.SetLastMessage(ctx, room.ID, placeholder.ID); err != nil {
		return nil, false, err
	}

	view, err := s.rooms.GetRoomView(ctx, room.ID, requesterID)
	return view, true, err
}

// ListChatRooms returns a page of the user's rooms, newest conversation
// first, optionally filtered by a counterpart search term.
func (s *ChatService) ListChatRooms(ctx context.Context, userID uuid.UUID, page, limit int, search string) (*ChatRoomList, error) {
	page, limit = clampPage(page, limit)

	rooms, err := s.rooms.ListRoomViews(ctx, userID, search, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.rooms.CountRooms(ctx, userID, search)
	if err != nil {
		return nil, err
	}

	return &ChatRoomList{
		ChatRooms:  rooms,
		Pagination: NewPagination(total, page, limit),
	}, nil
}

// GetChatRoomByID returns the enriched view of a single room. The viewer
// must be a participant.
func (s *ChatService) GetChatRoomByID(ctx context.Context, roomID, viewerID uuid.UUID) (*ChatRoomView, error) {
	room, err := s.rooms.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(viewerID) {
		return nil, ErrUnauthorized
	}
	return s.rooms.GetRoomView(ctx, roomID, viewerID)
}

// Search matches the user's rooms by counterpart profile and their message
// history by content.
func (s *ChatService) Search(ctx context.Context, userID uuid.UUID, term string) (*ChatSearchResult, error) {
	if term == "" {
		return &ChatSearchResult{}, nil
	}

	rooms, err := s.rooms.ListRoomViews(ctx, userID, term, maxPageSize, 0)
	if err != nil {
		return nil, err
	}
	messages, err := s.messages.SearchMessages(ctx, userID, term, maxPageSize)
	if err != nil {
		return nil, err
	}

	return &ChatSearchResult{ChatRooms: rooms, Messages: messages}, nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
