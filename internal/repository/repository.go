package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the domain repository interfaces using
// PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates tables and indexes if they do not exist yet.
//
// Message ids come from a BIGSERIAL sequence, so they are monotonic and
// serve as pagination cursors. The chat room participant pair is stored in
// canonical order and carries a unique constraint: concurrent creates for
// the same pair degrade to one winner plus a re-fetch, never two rooms.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL UNIQUE,
			name TEXT,
			username TEXT UNIQUE,
			profile_picture TEXT,
			online_status TEXT NOT NULL DEFAULT 'offline',
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			last_login TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS chatrooms (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			participant_a UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			participant_b UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			last_message_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT chatrooms_participant_order CHECK (participant_a < participant_b),
			CONSTRAINT chatrooms_participant_pair UNIQUE (participant_a, participant_b)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			chatroom_id UUID NOT NULL REFERENCES chatrooms(id) ON DELETE CASCADE,
			sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT 'text',
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chatroom_cursor ON messages (chatroom_id, id)`,
		`CREATE TABLE IF NOT EXISTS favorite_chatrooms (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			chatroom_id UUID NOT NULL REFERENCES chatrooms(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT favorite_chatrooms_user_room UNIQUE (user_id, chatroom_id)
		)`,
		`CREATE TABLE IF NOT EXISTS statuses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type TEXT NOT NULL DEFAULT 'video',
			url TEXT NOT NULL,
			is_expired BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS status_views (
			status_id UUID NOT NULL REFERENCES statuses(id) ON DELETE CASCADE,
			viewer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (status_id, viewer_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint violation on
// the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
