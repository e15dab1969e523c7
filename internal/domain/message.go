package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageType enumerates the supported message payload kinds.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVideo MessageType = "video"
	MessageTypeAudio MessageType = "audio"
)

// Valid reports whether t is one of the known message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVideo, MessageTypeAudio:
		return true
	}
	return false
}

// Message is a single chat message. Ids are allocated from a monotonic
// sequence, so id comparisons are a valid substitute for time comparisons
// and serve as pagination cursors.
type Message struct {
	ID         int64       `json:"id"`
	ChatRoomID uuid.UUID   `json:"chatroom_id"`
	SenderID   uuid.UUID   `json:"sender_id"`
	Content    string      `json:"content"`
	Type       MessageType `json:"type"`
	IsRead     bool        `json:"is_read"`
	CreatedAt  time.Time   `json:"created_at"`
}

// IsPlaceholder reports whether the message is the empty draft seeded at
// room creation.
func (m *Message) IsPlaceholder() bool {
	return m.Content == ""
}

// MessageView is a message with its sender's public profile attached.
type MessageView struct {
	Message
	Sender *UserResponse `json:"sender,omitempty"`
}

// FetchDirection selects which side of the cursor a message page covers.
type FetchDirection string

const (
	FetchOlder FetchDirection = "old"
	FetchNewer FetchDirection = "new"
)

// DayGroup buckets messages by the UTC calendar date they were created on,
// oldest first within the group. Used for date separators in the client.
type DayGroup struct {
	Date     string         `json:"date"`
	Messages []*MessageView `json:"messages"`
}

const dayKeyLayout = "2006-01-02"

// DayKey returns the UTC date bucket for a timestamp.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// GroupMessagesByDay buckets an ascending message slice into day groups.
// Input order is preserved, so groups come out earliest-day first and each
// group's messages run oldest to newest.
func GroupMessagesByDay(messages []*MessageView) []DayGroup {
	var groups []DayGroup
	for _, msg := range messages {
		key := DayKey(msg.CreatedAt)
		if n := len(groups); n > 0 && groups[n-1].Date == key {
			groups[n-1].Messages = append(groups[n-1].Messages, msg)
			continue
		}
		groups = append(groups, DayGroup{Date: key, Messages: []*MessageView{msg}})
	}
	return groups
}

// MergeDayGroups merges two chronologically ascending day-group lists into
// one. Groups sharing a date are combined with the first list's messages
// leading; no date appears twice in the result.
func MergeDayGroups(older, newer []DayGroup) []DayGroup {
	merged := make([]DayGroup, 0, len(older)+len(newer))
	i, j := 0, 0
	for i < len(older) && j < len(newer) {
		switch {
		case older[i].Date < newer[j].Date:
			merged = append(merged, older[i])
			i++
		case older[i].Date > newer[j].Date:
			merged = append(merged, newer[j])
			j++
		default:
			combined := DayGroup{
				Date:     older[i].Date,
				Messages: append(append([]*MessageView{}, older[i].Messages...), newer[j].Messages...),
			}
			merged = append(merged, combined)
			i++
			j++
		}
	}
	merged = append(merged, older[i:]...)
	merged = append(merged, newer[j:]...)
	return merged
}

// ReverseMessages flips a message slice in place and returns it. Used to
// turn a newest-first store page into chronological order.
func ReverseMessages(messages []*MessageView) []*MessageView {
	for l, r := 0, len(messages)-1; l < r; l, r = l+1, r-1 {
		messages[l], messages[r] = messages[r], messages[l]
	}
	return messages
}

// CreateMessageParams holds parameters for message creation
type CreateMessageParams struct {
	ChatRoomID uuid.UUID
	SenderID   uuid.UUID
	Content    string
	Type       MessageType
}

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	CreateMessage(ctx context.Context, params CreateMessageParams) (*Message, error)

	// GetLatestMessages returns up to limit newest messages, newest first.
	GetLatestMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]*MessageView, error)
	// GetMessagesBefore returns up to limit messages with id below the
	// cursor (at or below when inclusive is set), newest first.
	GetMessagesBefore(ctx context.Context, roomID uuid.UUID, cursor int64, limit int, inclusive bool) ([]*MessageView, error)
	// GetMessagesAfter returns up to limit messages with id above the
	// cursor, oldest first.
	GetMessagesAfter(ctx context.Context, roomID uuid.UUID, cursor int64, limit int) ([]*MessageView, error)

	// DeleteLonePlaceholder removes the room's placeholder draft if it is
	// still the only message. Reports whether a row was deleted.
	DeleteLonePlaceholder(ctx context.Context, roomID uuid.UUID) (bool, error)
	// MarkMessagesRead flags every unread message in the room not sent by
	// readerID. Returns the number of rows affected; already-read rows are
	// not touched, so the call is idempotent.
	MarkMessagesRead(ctx context.Context, roomID, readerID uuid.UUID) (int64, error)

	// SearchMessages finds messages visible to userID whose content
	// contains term, newest first. Hits are anchors for windowed fetches.
	SearchMessages(ctx context.Context, userID uuid.UUID, term string, limit int) ([]*MessageView, error)
}
