package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
)

// CreateStatus creates a new status post
func (r *PostgresRepository) CreateStatus(ctx context.Context, userID uuid.UUID, statusType domain.StatusType, url string) (*domain.Status, error) {
	query := `
		INSERT INTO statuses (user_id, type, url)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, type, url, is_expired, created_at`

	var status domain.Status
	var kind string
	err := r.db.QueryRow(ctx, query, userID, string(statusType), url).Scan(
		&status.ID,
		&status.UserID,
		&kind,
		&status.URL,
		&status.IsExpired,
		&status.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	status.Type = domain.StatusType(kind)
	status.ViewedBy = []uuid.UUID{}
	return &status, nil
}

// GetStatusByID retrieves a status with its viewer set
func (r *PostgresRepository) GetStatusByID(ctx context.Context, id uuid.UUID) (*domain.Status, error) {
	query := `
		SELECT s.id, s.user_id, s.type, s.url, s.is_expired, s.created_at,
			COALESCE(array_agg(v.viewer_id) FILTER (WHERE v.viewer_id IS NOT NULL), '{}')
		FROM statuses s
		LEFT JOIN status_views v ON v.status_id = s.id
		WHERE s.id = $1
		GROUP BY s.id`

	var status domain.Status
	var kind string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&status.ID,
		&status.UserID,
		&kind,
		&status.URL,
		&status.IsExpired,
		&status.CreatedAt,
		&status.ViewedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatusNotFound
		}
		return nil, err
	}
	status.Type = domain.StatusType(kind)
	return &status, nil
}

// AddStatusView records a viewer for a status; repeat views are no-ops
func (r *PostgresRepository) AddStatusView(ctx context.Context, statusID, viewerID uuid.UUID) error {
	query := `
		INSERT INTO status_views (status_id, viewer_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	_, err := r.db.Exec(ctx, query, statusID, viewerID)
	return err
}

// GetStatusFeed returns the active statuses of the given authors grouped
// per author, annotated with the viewer's view state
func (r *PostgresRepository) GetStatusFeed(ctx context.Context, viewerID uuid.UUID, authorIDs []uuid.UUID) ([]*domain.StatusFeedEntry, error) {
	query := `
		SELECT s.id, s.user_id, s.type, s.url, s.is_expired,
			EXISTS (SELECT 1 FROM status_views v WHERE v.status_id = s.id AND v.viewer_id = $1),
			u.name, u.profile_picture
		FROM statuses s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = ANY($2) AND s.is_expired = FALSE
		ORDER BY s.user_id, s.created_at ASC`

	rows, err := r.db.Query(ctx, query, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.StatusFeedEntry
	var current *domain.StatusFeedEntry
	for rows.Next() {
		var (
			item          domain.StatusItem
			kind          string
			authorID      uuid.UUID
			isViewed      bool
			name, picture *string
		)
		if err := rows.Scan(&item.ID, &authorID, &kind, &item.URL, &item.IsExpired, &isViewed, &name, &picture); err != nil {
			return nil, err
		}
		item.Type = domain.StatusType(kind)
		item.IsViewed = isViewed

		if current == nil || current.UserID != authorID {
			current = &domain.StatusFeedEntry{
				UserID:         authorID,
				Name:           deref(name),
				ProfilePicture: deref(picture),
				IsAllViewed:    true,
			}
			entries = append(entries, current)
		}
		current.Statuses = append(current.Statuses, item)
		if !isViewed {
			current.IsAllViewed = false
		}
	}
	return entries, rows.Err()
}

// ExpireStatuses flags statuses created before the cutoff as expired
func (r *PostgresRepository) ExpireStatuses(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE statuses SET is_expired = TRUE WHERE is_expired = FALSE AND created_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
