package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StatusType enumerates status media kinds.
type StatusType string

const (
	StatusTypeImage StatusType = "image"
	StatusTypeVideo StatusType = "video"
)

// Status is an ephemeral post visible to the author's chat partners until
// it expires.
type Status struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Type      StatusType  `json:"type"`
	URL       string      `json:"url"`
	IsExpired bool        `json:"is_expired"`
	ViewedBy  []uuid.UUID `json:"viewed_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// StatusItem is one status inside a feed entry, annotated for the viewer.
type StatusItem struct {
	ID        uuid.UUID  `json:"id"`
	Type      StatusType `json:"type"`
	URL       string     `json:"url"`
	IsExpired bool       `json:"is_expired"`
	IsViewed  bool       `json:"is_viewed"`
}

// StatusFeedEntry groups one author's active statuses for the feed.
type StatusFeedEntry struct {
	UserID         uuid.UUID    `json:"user_id"`
	Name           string       `json:"name,omitempty"`
	ProfilePicture string       `json:"profile_picture,omitempty"`
	Statuses       []StatusItem `json:"statuses"`
	IsAllViewed    bool         `json:"is_all_viewed"`
}

// StatusRepository defines the interface for status data access
type StatusRepository interface {
	CreateStatus(ctx context.Context, userID uuid.UUID, statusType StatusType, url string) (*Status, error)
	GetStatusByID(ctx context.Context, id uuid.UUID) (*Status, error)
	// AddStatusView records viewerID in the status viewer set; adding the
	// same viewer twice is a no-op.
	AddStatusView(ctx context.Context, statusID, viewerID uuid.UUID) error
	// GetStatusFeed returns the active statuses of the given authors,
	// grouped per author, annotated with viewerID's view state.
	GetStatusFeed(ctx context.Context, viewerID uuid.UUID, authorIDs []uuid.UUID) ([]*StatusFeedEntry, error)
	// ExpireStatuses flags statuses created before the cutoff as expired
	// and returns the number of rows affected.
	ExpireStatuses(ctx context.Context, cutoff time.Time) (int64, error)
}
