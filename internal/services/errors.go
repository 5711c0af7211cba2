package services

import "errors"

// Sentinel errors translated to HTTP statuses at the handler layer.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrCollegeNotFound    = errors.New("college not found")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrUsernameTaken      = errors.New("username is taken")
	ErrEmailRegistered    = errors.New("email is already registered")
	ErrUnknownCollege     = errors.New("email domain does not match a known college")
)
