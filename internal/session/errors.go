package session

import "errors"

var (
	// ErrMalformedToken is returned when the stored value cannot be parsed as a JWT.
	ErrMalformedToken = errors.New("session: malformed token")
	// ErrSignatureInvalid is returned when the token was not signed with the current secret key.
	ErrSignatureInvalid = errors.New("session: token signature is invalid")
	// ErrTokenExpired is returned when the token exp claim is in the past.
	ErrTokenExpired = errors.New("session: token has expired")
	// ErrTokenNotFound is returned when no token has been persisted.
	ErrTokenNotFound = errors.New("session: token not found")
	// ErrSecretKeyNotFound is returned when the store holds no signing key.
	ErrSecretKeyNotFound = errors.New("session: secret key not found")
)
