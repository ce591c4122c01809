package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSignupClosed       = errors.New("admin signup disabled")
	ErrAccountNotFound    = errors.New("account not found")
)
