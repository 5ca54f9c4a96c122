package domain

import "errors"

var (
	// ErrInvalidRequest is returned when grant fields are missing or malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidToken is returned for bad signature, bad structure or wrong token type
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the exp claim has elapsed
	ErrTokenExpired = errors.New("token expired")

	// ErrConfigUnavailable is returned when the secret or lifetime cannot be fetched
	ErrConfigUnavailable = errors.New("configuration unavailable")
)

// ErrUnsupportedGrantType is returned for grant types other than password and refresh_token
var ErrUnsupportedGrantType = errors.New("unsupported grant type")
