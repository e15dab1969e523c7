package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrChatRoomNotFound = errors.New("chat room not found")
	ErrStatusNotFound   = errors.New("status not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrInvalidOTP       = errors.New("invalid or expired otp")
	ErrOTPThrottled     = errors.New("otp was requested too recently")
	ErrValidation       = errors.New("validation failed")
	ErrChatWithSelf     = errors.New("cannot open a chat room with yourself")
)
