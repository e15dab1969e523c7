package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OnlineStatus is the presence state of a user.
type OnlineStatus string

const (
	OnlineStatusOnline  OnlineStatus = "online"
	OnlineStatusOffline OnlineStatus = "offline"
	OnlineStatusAway    OnlineStatus = "away"
)

// User represents a user in the domain layer
type User struct {
	ID             uuid.UUID    `json:"id"`
	Email          string       `json:"email"`
	Name           *string      `json:"name,omitempty"`
	Username       *string      `json:"username,omitempty"`
	ProfilePicture *string      `json:"profile_picture,omitempty"`
	OnlineStatus   OnlineStatus `json:"online_status"`
	IsActive       bool         `json:"is_active"`
	LastLogin      *time.Time   `json:"last_login,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// UserResponse is the public representation of a user, embedded in
// chat room views and status feeds.
type UserResponse struct {
	ID             uuid.UUID    `json:"id"`
	Email          string       `json:"email"`
	Name           string       `json:"name,omitempty"`
	Username       string       `json:"username,omitempty"`
	ProfilePicture string       `json:"profile_picture,omitempty"`
	OnlineStatus   OnlineStatus `json:"online_status"`
	IsActive       bool         `json:"is_active"`
}

// ToResponse converts a User to a UserResponse
func (u *User) ToResponse() *UserResponse {
	response := &UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		OnlineStatus: u.OnlineStatus,
		IsActive:     u.IsActive,
	}
	if u.Name != nil {
		response.Name = *u.Name
	}
	if u.Username != nil {
		response.Username = *u.Username
	}
	if u.ProfilePicture != nil {
		response.ProfilePicture = *u.ProfilePicture
	}
	return response
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	CreateUser(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetActiveUsers(ctx context.Context, excludeUserID uuid.UUID) ([]*User, error)
	ActivateUser(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateUserName(ctx context.Context, id uuid.UUID, name string) (*User, error)
	UpdateUserProfilePicture(ctx context.Context, id uuid.UUID, pictureURL string) (*User, error)
	UpdateUserUsername(ctx context.Context, id uuid.UUID, username string) (*User, error)
	UpdateUserOnlineStatus(ctx context.Context, id uuid.UUID, status OnlineStatus) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}
