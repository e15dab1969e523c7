package domain

import (
	"context"

	"github.com/google/uuid"
)

// FavoriteService toggles and lists favorite chat rooms.
type FavoriteService struct {
	favorites FavoriteRepository
	rooms     ChatRepository
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favorites FavoriteRepository, rooms ChatRepository) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		rooms:     rooms,
	}
}

// Toggle favorites the room for the user, or removes the favorite if it
// already exists. Returns the created favorite, or nil when unfavorited.
func (s *FavoriteService) Toggle(ctx context.Context, userID, chatRoomID uuid.UUID) (*FavoriteChatRoom, error) {
	room, err := s.rooms.GetRoomByID(ctx, chatRoomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, ErrUnauthorized
	}

	existing, err := s.favorites.GetFavorite(ctx, userID, chatRoomID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, s.favorites.DeleteFavorite(ctx, userID, chatRoomID)
	}
	return s.favorites.CreateFavorite(ctx, userID, chatRoomID)
}

// List returns the user's favorited rooms with the standard enrichment.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]*ChatRoomView, error) {
	return s.favorites.ListFavoriteRoomViews(ctx, userID)
}
