package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
)

const roomColumns = `id, participant_a, participant_b, last_message_id, created_at, updated_at`

// roomViewSelect is the shared enrichment projection: the counterpart's
// profile, the last real message (the placeholder draft never surfaces
// here) with its sender, the viewer's unread count and favorite flag.
// $1 is the viewer id in every query that embeds it.
const roomViewSelect = `
	SELECT
		c.id, c.created_at,
		u.id, u.email, u.name, u.username, u.profile_picture, u.online_status, u.is_active,
		lm.id, lm.sender_id, lm.content, lm.type, lm.is_read, lm.created_at,
		ls.id, ls.email, ls.name, ls.username, ls.profile_picture, ls.online_status, ls.is_active,
		(SELECT COUNT(*) FROM messages um
			WHERE um.chatroom_id = c.id AND um.sender_id <> $1 AND um.is_read = FALSE),
		EXISTS (SELECT 1 FROM favorite_chatrooms f
			WHERE f.chatroom_id = c.id AND f.user_id = $1)
	FROM chatrooms c
	JOIN users u ON u.id = CASE WHEN c.participant_a = $1 THEN c.participant_b ELSE c.participant_a END
	LEFT JOIN messages lm ON lm.id = c.last_message_id AND lm.content <> ''
	LEFT JOIN users ls ON ls.id = lm.sender_id`

// CreateRoom inserts a room for a canonical participant pair. Returns
// domain.ErrChatRoomExists when the pair already has a room, so callers can
// resolve creation races with a re-fetch instead of an error.
func (r *PostgresRepository) CreateRoom(ctx context.Context, a, b uuid.UUID) (*domain.ChatRoom, error) {
	query := `
		INSERT INTO chatrooms (participant_a, participant_b)
		VALUES ($1, $2)
		RETURNING ` + roomColumns
	room, err := scanRoom(r.db.QueryRow(ctx, query, a, b))
	if err != nil && isUniqueViolation(err, "chatrooms_participant_pair") {
		return nil, domain.ErrChatRoomExists
	}
	return room, err
}

// GetRoomByID retrieves a chat room by ID
func (r *PostgresRepository) GetRoomByID(ctx context.Context, roomID uuid.UUID) (*domain.ChatRoom, error) {
	query := `SELECT ` + roomColumns + ` FROM chatrooms WHERE id = $1`
	return scanRoom(r.db.QueryRow(ctx, query, roomID))
}

// GetRoomByParticipants retrieves the room for a canonical participant pair
func (r *PostgresRepository) GetRoomByParticipants(ctx context.Context, a, b uuid.UUID) (*domain.ChatRoom, error) {
	query := `SELECT ` + roomColumns + ` FROM chatrooms WHERE participant_a = $1 AND participant_b = $2`
	return scanRoom(r.db.QueryRow(ctx, query, a, b))
}

// SetLastMessage points the room at its newest message
func (r *PostgresRepository) SetLastMessage(ctx context.Context, roomID uuid.UUID, messageID int64) error {
	query := `UPDATE chatrooms SET last_message_id = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, roomID, messageID)
	return err
}

// GetRoomView runs the single-room enrichment projection for a viewer
func (r *PostgresRepository) GetRoomView(ctx context.Context, roomID, viewerID uuid.UUID) (*domain.ChatRoomView, error) {
	query := roomViewSelect + ` WHERE c.id = $2`
	view, err := scanRoomView(r.db.QueryRow(ctx, query, viewerID, roomID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatRoomNotFound
		}
		return nil, err
	}
	return view, nil
}

// ListRoomViews returns the viewer's enriched rooms ordered by last message
// time descending; rooms that only hold the placeholder draft sort last,
// tiebroken by room creation time. The search term filters on the
// counterpart's name, username and email.
func (r *PostgresRepository) ListRoomViews(ctx context.Context, viewerID uuid.UUID, search string, limit, offset int) ([]*domain.ChatRoomView, error) {
	query := roomViewSelect + `
	WHERE (c.participant_a = $1 OR c.participant_b = $1)
		AND ($2 = '' OR u.name ILIKE '%' || $2 || '%' OR u.username ILIKE '%' || $2 || '%' OR u.email ILIKE '%' || $2 || '%')
	ORDER BY lm.created_at DESC NULLS LAST, c.created_at DESC, c.id
	LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, viewerID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]*domain.ChatRoomView, 0, limit)
	for rows.Next() {
		view, err := scanRoomView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

// CountRooms counts the viewer's rooms matching the search term
func (r *PostgresRepository) CountRooms(ctx context.Context, viewerID uuid.UUID, search string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM chatrooms c
		JOIN users u ON u.id = CASE WHEN c.participant_a = $1 THEN c.participant_b ELSE c.participant_a END
		WHERE (c.participant_a = $1 OR c.participant_b = $1)
			AND ($2 = '' OR u.name ILIKE '%' || $2 || '%' OR u.username ILIKE '%' || $2 || '%' OR u.email ILIKE '%' || $2 || '%')`
	var count int
	err := r.db.QueryRow(ctx, query, viewerID, search).Scan(&count)
	return count, err
}

// ChatPartnerIDs lists the distinct counterparts across the user's rooms
func (r *PostgresRepository) ChatPartnerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT CASE WHEN participant_a = $1 THEN participant_b ELSE participant_a END
		FROM chatrooms
		WHERE participant_a = $1 OR participant_b = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanRoom(row pgx.Row) (*domain.ChatRoom, error) {
	var room domain.ChatRoom
	err := row.Scan(
		&room.ID,
		&room.ParticipantA,
		&room.ParticipantB,
		&room.LastMessageID,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// scanRoomView decodes one roomViewSelect row. The last message and its
// sender are nullable as a block.
func scanRoomView(row pgx.Row) (*domain.ChatRoomView, error) {
	var (
		view        domain.ChatRoomView
		participant domain.UserResponse
		partStatus  string

		lmID        *int64
		lmSenderID  *uuid.UUID
		lmContent   *string
		lmType      *string
		lmIsRead    *bool
		lmCreatedAt *time.Time

		lsID             *uuid.UUID
		lsEmail          *string
		lsName           *string
		lsUsername       *string
		lsProfilePicture *string
		lsOnlineStatus   *string
		lsIsActive       *bool
	)

	var partName, partUsername, partPicture *string
	err := row.Scan(
		&view.ID, &view.CreatedAt,
		&participant.ID, &participant.Email, &partName, &partUsername, &partPicture, &partStatus, &participant.IsActive,
		&lmID, &lmSenderID, &lmContent, &lmType, &lmIsRead, &lmCreatedAt,
		&lsID, &lsEmail, &lsName, &lsUsername, &lsProfilePicture, &lsOnlineStatus, &lsIsActive,
		&view.UnreadMessages,
		&view.IsFavorite,
	)
	if err != nil {
		return nil, err
	}

	participant.OnlineStatus = domain.OnlineStatus(partStatus)
	participant.Name = deref(partName)
	participant.Username = deref(partUsername)
	participant.ProfilePicture = deref(partPicture)
	view.Participant = &participant

	if lmID != nil {
		last := &domain.MessageView{
			Message: domain.Message{
				ID:         *lmID,
				ChatRoomID: view.ID,
				SenderID:   *lmSenderID,
				Content:    *lmContent,
				Type:       domain.MessageType(*lmType),
				IsRead:     *lmIsRead,
				CreatedAt:  *lmCreatedAt,
			},
		}
		if lsID != nil {
			last.Sender = &domain.UserResponse{
				ID:             *lsID,
				Email:          deref(lsEmail),
				Name:           deref(lsName),
				Username:       deref(lsUsername),
				ProfilePicture: deref(lsProfilePicture),
				OnlineStatus:   domain.OnlineStatus(deref(lsOnlineStatus)),
				IsActive:       lsIsActive != nil && *lsIsActive,
			}
		}
		view.LastMessage = last
	}

	return &view, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
