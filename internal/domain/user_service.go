package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// UserService handles profile reads and updates.
type UserService struct {
	users UserRepository
}

// NewUserService creates a new user service
func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the full user record for the authenticated user.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// ListActiveUsers returns every active user except the requester, for the
// new-chat picker.
func (s *UserService) ListActiveUsers(ctx context.Context, requesterID uuid.UUID) ([]*UserResponse, error) {
	users, err := s.users.GetActiveUsers(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses, nil
}

// UpdateName sets the user's display name.
func (s *UserService) UpdateName(ctx context.Context, userID uuid.UUID, name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}
	return s.users.UpdateUserName(ctx, userID, name)
}

// UpdateProfilePicture sets the user's avatar URL.
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID uuid.UUID, pictureURL string) (*User, error) {
	if pictureURL == "" {
		return nil, ErrValidation
	}
	return s.users.UpdateUserProfilePicture(ctx, userID, pictureURL)
}

// ClaimUsername assigns a unique handle to the user. Returns
// ErrUsernameTaken when another account already holds it.
func (s *UserService) ClaimUsername(ctx context.Context, userID uuid.UUID, username string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, ErrValidation
	}

	existing, err := s.users.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != userID {
		return nil, ErrUsernameTaken
	}

	return s.users.UpdateUserUsername(ctx, userID, username)
}
