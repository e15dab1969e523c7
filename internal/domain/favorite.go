package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FavoriteChatRoom is a user-to-room bookmark. Its existence means the room
// is favorited; removing it unfavorites.
type FavoriteChatRoom struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	ChatRoomID uuid.UUID `json:"chatroom_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FavoriteRepository defines the interface for favorite chat room data access
type FavoriteRepository interface {
	// GetFavorite returns the favorite link, or nil when none exists.
	GetFavorite(ctx context.Context, userID, chatRoomID uuid.UUID) (*FavoriteChatRoom, error)
	CreateFavorite(ctx context.Context, userID, chatRoomID uuid.UUID) (*FavoriteChatRoom, error)
	DeleteFavorite(ctx context.Context, userID, chatRoomID uuid.UUID) error
	// ListFavoriteRoomViews returns the user's favorited rooms with the
	// same enrichment as the room listing.
	ListFavoriteRoomViews(ctx context.Context, userID uuid.UUID) ([]*ChatRoomView, error)
}
