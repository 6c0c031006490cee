package session

import "context"

const (
	// TokenKey is the store entry holding the active session token.
	TokenKey = "TOKEN"
	// SecretKeyName is the store entry holding the signing key.
	SecretKeyName = "SECRET_KEY"
)

// Store persists the single active token and the signing key.
type Store interface {
	SecretKey(ctx context.Context) (string, error)
	SetSecretKey(ctx context.Context, key string) error
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	DeleteToken(ctx context.Context) error
	HasToken(ctx context.Context) (bool, error)
}
