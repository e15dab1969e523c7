package domain

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrChatRoomExists is returned by CreateRoom when another request created
// the room for the same participant pair first. Callers should re-fetch.
var ErrChatRoomExists = errors.New("chat room already exists for participant pair")

// ChatRoom is a persistent 1:1 conversation between two users. Participants
// are stored in canonical order so the pair carries a uniqueness constraint.
type ChatRoom struct {
	ID            uuid.UUID `json:"id"`
	ParticipantA  uuid.UUID `json:"participant_a"`
	ParticipantB  uuid.UUID `json:"participant_b"`
	LastMessageID *int64    `json:"last_message_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasParticipant reports whether userID is one of the two room members.
func (c *ChatRoom) HasParticipant(userID uuid.UUID) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// CanonicalPair orders two user ids so that every unordered pair maps to
// exactly one (a, b) tuple.
func CanonicalPair(x, y uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(x.String(), y.String()) > 0 {
		return y, x
	}
	return x, y
}

// ChatRoomView is the enriched projection of a room for one viewer: the
// counterpart's profile, the last real message, the viewer's unread count
// and favorite flag.
type ChatRoomView struct {
	ID             uuid.UUID     `json:"id"`
	Participant    *UserResponse `json:"participant,omitempty"`
	LastMessage    *MessageView  `json:"last_message,omitempty"`
	UnreadMessages int           `json:"unread_messages"`
	IsFavorite     bool          `json:"is_favorite"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Pagination is the offset-pagination metadata returned by listing endpoints.
type Pagination struct {
	TotalDocuments  int  `json:"total_documents"`
	TotalPages      int  `json:"total_pages"`
	CurrentPage     int  `json:"current_page"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// NewPagination derives pagination metadata from a total count and the
// requested page/limit.
func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		TotalDocuments:  total,
		TotalPages:      totalPages,
		CurrentPage:     page,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// ChatRepository defines the interface for chat room data access
type ChatRepository interface {
	// CreateRoom inserts a room for the canonical pair. Returns
	// ErrChatRoomExists when the pair uniqueness constraint fires.
	CreateRoom(ctx context.Context, a, b uuid.UUID) (*ChatRoom, error)
	GetRoomByID(ctx context.Context, roomID uuid.UUID) (*ChatRoom, error)
	GetRoomByParticipants(ctx context.Context, a, b uuid.UUID) (*ChatRoom, error)
	SetLastMessage(ctx context.Context, roomID uuid.UUID, messageID int64) error

	// GetRoomView runs the single-room enrichment projection for viewerID.
	GetRoomView(ctx context.Context, roomID, viewerID uuid.UUID) (*ChatRoomView, error)
	// ListRoomViews returns viewerID's rooms enriched and ordered by last
	// message time descending, rooms without a real message last. An empty
	// search term matches everything; otherwise the counterpart's name,
	// username and email are matched case-insensitively.
	ListRoomViews(ctx context.Context, viewerID uuid.UUID, search string, limit, offset int) ([]*ChatRoomView, error)
	CountRooms(ctx context.Context, viewerID uuid.UUID, search string) (int, error)

	// ChatPartnerIDs lists the distinct counterpart ids across all of the
	// user's rooms. Used to scope the status feed.
	ChatPartnerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
