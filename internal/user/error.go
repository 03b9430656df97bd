package user

import "errors"

var (
	ErrInvalidRole  = errors.New("invalid role")
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingKey   = errors.New("token secret is not set")
)
