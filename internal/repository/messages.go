package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
)

// messageViewSelect joins each message with its sender's public profile.
const messageViewSelect = `
	SELECT
		m.id, m.chatroom_id, m.sender_id, m.content, m.type, m.is_read, m.created_at,
		s.id, s.email, s.name, s.username, s.profile_picture, s.online_status, s.is_active
	FROM messages m
	JOIN users s ON s.id = m.sender_id`

// CreateMessage creates a new message
func (r *PostgresRepository) CreateMessage(ctx context.Context, params domain.CreateMessageParams) (*domain.Message, error) {
	query := `
		INSERT INTO messages (chatroom_id, sender_id, content, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, chatroom_id, sender_id, content, type, is_read, created_at`

	var msg domain.Message
	var msgType string
	err := r.db.QueryRow(ctx, query,
		params.ChatRoomID,
		params.SenderID,
		params.Content,
		string(params.Type),
	).Scan(
		&msg.ID,
		&msg.ChatRoomID,
		&msg.SenderID,
		&msg.Content,
		&msgType,
		&msg.IsRead,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	msg.Type = domain.MessageType(msgType)
	return &msg, nil
}

// GetLatestMessages returns the newest messages of a room, newest first
func (r *PostgresRepository) GetLatestMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]*domain.MessageView, error) {
	query := messageViewSelect + `
	WHERE m.chatroom_id = $1
	ORDER BY m.id DESC
	LIMIT $2`
	return r.queryMessageViews(ctx, query, roomID, limit)
}

// GetMessagesBefore returns messages below the cursor, newest first. When
// inclusive is set the cursor message itself is part of the page — the
// anchor-window older half relies on this to always contain the anchor.
func (r *PostgresRepository) GetMessagesBefore(ctx context.Context, roomID uuid.UUID, cursor int64, limit int, inclusive bool) ([]*domain.MessageView, error) {
	cmp := "<"
	if inclusive {
		cmp = "<="
	}
	query := messageViewSelect + `
	WHERE m.chatroom_id = $1 AND m.id ` + cmp + ` $2
	ORDER BY m.id DESC
	LIMIT $3`
	return r.queryMessageViews(ctx, query, roomID, cursor, limit)
}

// GetMessagesAfter returns messages above the cursor, oldest first
func (r *PostgresRepository) GetMessagesAfter(ctx context.Context, roomID uuid.UUID, cursor int64, limit int) ([]*domain.MessageView, error) {
	query := messageViewSelect + `
	WHERE m.chatroom_id = $1 AND m.id > $2
	ORDER BY m.id ASC
	LIMIT $3`
	return r.queryMessageViews(ctx, query, roomID, cursor, limit)
}

// DeleteLonePlaceholder removes the empty draft seeded at room creation,
// but only while it is still the room's only message.
func (r *PostgresRepository) DeleteLonePlaceholder(ctx context.Context, roomID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM messages
		WHERE chatroom_id = $1 AND content = ''
			AND (SELECT COUNT(*) FROM messages WHERE chatroom_id = $1) = 1`
	tag, err := r.db.Exec(ctx, query, roomID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkMessagesRead flags the room's unread messages not sent by the reader.
// Rows already read are left untouched, keeping the update idempotent.
func (r *PostgresRepository) MarkMessagesRead(ctx context.Context, roomID, readerID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages SET is_read = TRUE
		WHERE chatroom_id = $1 AND sender_id <> $2 AND is_read = FALSE`
	tag, err := r.db.Exec(ctx, query, roomID, readerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SearchMessages finds messages in the user's rooms whose content contains
// the term, newest first
func (r *PostgresRepository) SearchMessages(ctx context.Context, userID uuid.UUID, term string, limit int) ([]*domain.MessageView, error) {
	query := messageViewSelect + `
	JOIN chatrooms c ON c.id = m.chatroom_id
	WHERE (c.participant_a = $1 OR c.participant_b = $1)
		AND m.content <> '' AND m.content ILIKE '%' || $2 || '%'
	ORDER BY m.id DESC
	LIMIT $3`
	return r.queryMessageViews(ctx, query, userID, term, limit)
}

func (r *PostgresRepository) queryMessageViews(ctx context.Context, query string, args ...interface{}) ([]*domain.MessageView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*domain.MessageView
	for rows.Next() {
		view, err := scanMessageView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func scanMessageView(row pgx.Row) (*domain.MessageView, error) {
	var (
		view    domain.MessageView
		msgType string
		sender  domain.UserResponse
		status  string

		name, username, picture *string
	)
	err := row.Scan(
		&view.ID, &view.ChatRoomID, &view.SenderID, &view.Content, &msgType, &view.IsRead, &view.CreatedAt,
		&sender.ID, &sender.Email, &name, &username, &picture, &status, &sender.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatRoomNotFound
		}
		return nil, err
	}
	view.Type = domain.MessageType(msgType)
	sender.Name = deref(name)
	sender.Username = deref(username)
	sender.ProfilePicture = deref(picture)
	sender.OnlineStatus = domain.OnlineStatus(status)
	view.Sender = &sender
	return &view, nil
}
