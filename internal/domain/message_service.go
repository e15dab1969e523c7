package domain

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MessageService owns message retrieval and delivery: the cursor pagination
// engine, sending (with placeholder replacement) and read marking.
type MessageService struct {
	rooms    ChatRepository
	messages MessageRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewMessageService creates a new message service
func NewMessageService(rooms ChatRepository, messages MessageRepository, notifier Notifier, logger *zap.Logger) *MessageService {
	return &MessageService{
		rooms:    rooms,
		messages: messages,
		notifier: notifier,
		logger:   logger,
	}
}

// FetchMessagesParams selects one retrieval mode:
//
//   - AnchorID nil: the newest Limit messages.
//   - AnchorID set, SearchAnchor false: the page strictly before (old) or
//     after (new) the cursor, per Direction.
//   - SearchAnchor true: a window straddling AnchorID, anchor included.
type FetchMessagesParams struct {
	ChatRoomID   uuid.UUID
	RequesterID  uuid.UUID
	AnchorID     *int64
	Direction    FetchDirection
	SearchAnchor bool
	Limit        int
}

// MessagePage is the engine's result: the enriched room plus messages
// bucketed by day, days ascending, oldest message first within each day.
type MessagePage struct {
	ChatRoom *ChatRoomView `json:"chatroom"`
	Messages []DayGroup    `json:"messages"`
}

// FetchMessages runs the pagination engine. After the page is assembled,
// every unread message addressed to the requester is marked read; a failure
// of that bulk update is logged but never fails the fetch, since the update
// is idempotent and the next fetch repeats it.
func (s *MessageService) FetchMessages(ctx context.Context, params FetchMessagesParams) (*MessagePage, error) {
	room, err := s.rooms.GetRoomByID(ctx, params.ChatRoomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(params.RequesterID) {
		return nil, ErrUnauthorized
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	groups, err := s.fetchDayGroups(ctx, room.ID, params, limit)
	if err != nil {
		return nil, err
	}

	view, err := s.rooms.GetRoomView(ctx, room.ID, params.RequesterID)
	if err != nil {
		return nil, err
	}

	if _, err := s.messages.MarkMessagesRead(ctx, room.ID, params.RequesterID); err != nil {
		s.logger.Warn("failed to mark messages read",
			zap.String("chatroom_id", room.ID.String()),
			zap.Error(err),
		)
	}

	return &MessagePage{ChatRoom: view, Messages: groups}, nil
}

func (s *MessageService) fetchDayGroups(ctx context.Context, roomID uuid.UUID, params FetchMessagesParams, limit int) ([]DayGroup, error) {
	if params.AnchorID == nil {
		page, err := s.messages.GetLatestMessages(ctx, roomID, limit)
		if err != nil {
			return nil, err
		}
		return GroupMessagesByDay(ReverseMessages(page)), nil
	}

	anchor := *params.AnchorID

	if params.SearchAnchor {
		return s.fetchAnchorWindow(ctx, roomID, anchor, limit)
	}

	switch params.Direction {
	case FetchOlder:
		page, err := s.messages.GetMessagesBefore(ctx, roomID, anchor, limit, false)
		if err != nil {
			return nil, err
		}
		return GroupMessagesByDay(ReverseMessages(page)), nil
	case FetchNewer:
		page, err := s.messages.GetMessagesAfter(ctx, roomID, anchor, limit)
		if err != nil {
			return nil, err
		}
		return GroupMessagesByDay(page), nil
	default:
		return nil, ErrValidation
	}
}

// fetchAnchorWindow loads context around a search hit with two bounded
// queries instead of one range scan: the older half is fetched inclusively
// so the anchor itself is always present. The halves have no data
// dependency, so they run in parallel.
func (s *MessageService) fetchAnchorWindow(ctx context.Context, roomID uuid.UUID, anchor int64, limit int) ([]DayGroup, error) {
	olderLimit := limit / 2
	if olderLimit == 0 {
		// The anchor always comes back in the older half, even for a
		// window of one.
		olderLimit = 1
	}
	newerLimit := limit - olderLimit

	var older, newer []*MessageView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.messages.GetMessagesBefore(gctx, roomID, anchor, olderLimit, true)
		if err == nil {
			older = ReverseMessages(page)
		}
		return err
	})
	if newerLimit > 0 {
		g.Go(func() error {
			page, err := s.messages.GetMessagesAfter(gctx, roomID, anchor, newerLimit)
			if err == nil {
				newer = page
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return MergeDayGroups(GroupMessagesByDay(older), GroupMessagesByDay(newer)), nil
}

// SendMessage appends a message to a room the sender participates in. If the
// room still holds only its placeholder draft, the draft is deleted first so
// history starts at the first real message. The new message is pushed to the
// room channel without waiting on the relay.
func (s *MessageService) SendMessage(ctx context.Context, params CreateMessageParams) (*Message, error) {
	room, err := s.rooms.GetRoomByID(ctx, params.ChatRoomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(params.SenderID) {
		return nil, ErrUnauthorized
	}
	if params.Content == "" {
		return nil, ErrValidation
	}
	if params.Type == "" {
		params.Type = MessageTypeText
	}
	if !params.Type.Valid() {
		return nil, ErrValidation
	}

	if _, err := s.messages.DeleteLonePlaceholder(ctx, room.ID); err != nil {
		return nil, err
	}

	msg, err := s.messages.CreateMessage(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.SetLastMessage(ctx, room.ID, msg.ID); err != nil {
		return nil, err
	}

	go s.notifier.Push(context.WithoutCancel(ctx), ChatRoomChannel(room.ID.String()), EventNewMessage, msg)

	return msg, nil
}

// MarkMessagesRead flags everything addressed to the reader in the room as
// read. Returns the number of newly read messages.
func (s *MessageService) MarkMessagesRead(ctx context.Context, chatRoomID, readerID uuid.UUID) (int64, error) {
	room, err := s.rooms.GetRoomByID(ctx, chatRoomID)
	if err != nil {
		return 0, err
	}
	if !room.HasParticipant(readerID) {
		return 0, ErrUnauthorized
	}
	return s.messages.MarkMessagesRead(ctx, room.ID, readerID)
}
