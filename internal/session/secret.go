package session

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

const (
	secretKeyLength   = 50
	secretKeyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789@%^&*(-_=+)"
)

// GenerateSecretKey returns a random key suitable for HS256 signing.
func GenerateSecretKey() (string, error) {
	limit := big.NewInt(int64(len(secretKeyAlphabet)))
	buf := make([]byte, secretKeyLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", errors.Wrap(err, "generate secret key")
		}
		buf[i] = secretKeyAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// LoadSecretKey returns the stored signing key, generating and persisting
// one the first time it is needed.
func LoadSecretKey(ctx context.Context, store Store) (string, error) {
	key, err := store.SecretKey(ctx)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, ErrSecretKeyNotFound) {
		return "", err
	}
	key, err = GenerateSecretKey()
	if err != nil {
		return "", err
	}
	if err := store.SetSecretKey(ctx, key); err != nil {
		return "", err
	}
	return key, nil
}
