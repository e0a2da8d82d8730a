package identity

import "errors"

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so the two cases are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUsernameTaken = errors.New("username already taken")
	ErrNotFound      = errors.New("user not found")
)
