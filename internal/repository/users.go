package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
)

const userColumns = `id, email, name, username, profile_picture, online_status, is_active, last_login, created_at, updated_at`

// CreateUser creates a new user with only an email; the profile is filled
// in during onboarding.
func (r *PostgresRepository) CreateUser(ctx context.Context, email string) (*domain.User, error) {
	query := `
		INSERT INTO users (email)
		VALUES ($1)
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// GetUserByID retrieves a user by ID
func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetUserByEmail retrieves a user by email
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// GetUserByUsername retrieves a user by username
func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

// GetActiveUsers retrieves all active users except the given one
func (r *PostgresRepository) GetActiveUsers(ctx context.Context, excludeUserID uuid.UUID) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE AND id <> $1
		ORDER BY name NULLS LAST, email`
	rows, err := r.db.Query(ctx, query, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ActivateUser marks a user as active (email verified)
func (r *PostgresRepository) ActivateUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		UPDATE users SET is_active = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// UpdateUserName updates a user's display name
func (r *PostgresRepository) UpdateUserName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	query := `
		UPDATE users SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, name))
}

// UpdateUserProfilePicture updates a user's avatar URL
func (r *PostgresRepository) UpdateUserProfilePicture(ctx context.Context, id uuid.UUID, pictureURL string) (*domain.User, error) {
	query := `
		UPDATE users SET profile_picture = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, pictureURL))
}

// UpdateUserUsername updates a user's unique handle
func (r *PostgresRepository) UpdateUserUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error) {
	query := `
		UPDATE users SET username = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRow(ctx, query, id, username))
	if err != nil && isUniqueViolation(err, "users_username_key") {
		return nil, domain.ErrUsernameTaken
	}
	return user, err
}

// UpdateUserOnlineStatus updates a user's presence state
func (r *PostgresRepository) UpdateUserOnlineStatus(ctx context.Context, id uuid.UUID, status domain.OnlineStatus) error {
	query := `UPDATE users SET online_status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, string(status))
	return err
}

// TouchLastLogin records the time of the user's latest sign-in
func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var status string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Username,
		&user.ProfilePicture,
		&status,
		&user.IsActive,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	user.OnlineStatus = domain.OnlineStatus(status)
	return &user, nil
}
