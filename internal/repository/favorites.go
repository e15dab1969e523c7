package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
)

const favoriteColumns = `id, user_id, chatroom_id, created_at`

// GetFavorite returns the favorite link for a user and room, or nil when
// the room is not favorited.
func (r *PostgresRepository) GetFavorite(ctx context.Context, userID, chatRoomID uuid.UUID) (*domain.FavoriteChatRoom, error) {
	query := `SELECT ` + favoriteColumns + ` FROM favorite_chatrooms WHERE user_id = $1 AND chatroom_id = $2`
	favorite, err := scanFavorite(r.db.QueryRow(ctx, query, userID, chatRoomID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return favorite, err
}

// CreateFavorite creates a favorite link
func (r *PostgresRepository) CreateFavorite(ctx context.Context, userID, chatRoomID uuid.UUID) (*domain.FavoriteChatRoom, error) {
	query := `
		INSERT INTO favorite_chatrooms (user_id, chatroom_id)
		VALUES ($1, $2)
		RETURNING ` + favoriteColumns
	return scanFavorite(r.db.QueryRow(ctx, query, userID, chatRoomID))
}

// DeleteFavorite removes a favorite link
func (r *PostgresRepository) DeleteFavorite(ctx context.Context, userID, chatRoomID uuid.UUID) error {
	query := `DELETE FROM favorite_chatrooms WHERE user_id = $1 AND chatroom_id = $2`
	_, err := r.db.Exec(ctx, query, userID, chatRoomID)
	return err
}

// ListFavoriteRoomViews returns the user's favorited rooms with the same
// enrichment as the room listing, most recently favorited first
func (r *PostgresRepository) ListFavoriteRoomViews(ctx context.Context, userID uuid.UUID) ([]*domain.ChatRoomView, error) {
	query := roomViewSelect + `
	JOIN favorite_chatrooms fav ON fav.chatroom_id = c.id AND fav.user_id = $1
	ORDER BY fav.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*domain.ChatRoomView
	for rows.Next() {
		view, err := scanRoomView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func scanFavorite(row pgx.Row) (*domain.FavoriteChatRoom, error) {
	var favorite domain.FavoriteChatRoom
	err := row.Scan(
		&favorite.ID,
		&favorite.UserID,
		&favorite.ChatRoomID,
		&favorite.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}
