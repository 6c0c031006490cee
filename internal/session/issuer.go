package session

import (
	"context"

	"github.com/pkg/errors"
)

// Issuer hands out session tokens, reusing the stored one when it is still
// valid for the same principal.
type Issuer struct {
	store Store
	codec *Codec
}

// NewIssuer wires an issuer to its store and codec.
func NewIssuer(store Store, codec *Codec) *Issuer {
	return &Issuer{store: store, codec: codec}
}

// Issue makes sure the store holds a valid token for the payload's principal.
// It returns the stored token and whether an existing one was kept.
func (i *Issuer) Issue(ctx context.Context, p Payload) (string, bool, error) {
	current, err := i.store.Token(ctx)
	switch {
	case err == nil:
		res := i.codec.TryDecode(current)
		if res.Status == StatusValid && res.Payload.SamePrincipal(p) {
			return current, true, nil
		}
		if err := i.store.DeleteToken(ctx); err != nil {
			return "", false, err
		}
	case !errors.Is(err, ErrTokenNotFound):
		return "", false, err
	}

	token, err := i.codec.Encode(p)
	if err != nil {
		return "", false, errors.Wrap(err, "sign token")
	}
	if err := i.store.SaveToken(ctx, token); err != nil {
		return "", false, err
	}
	return token, false, nil
}

// IssueFor issues a token for a principal identified by id and full name.
func (i *Issuer) IssueFor(ctx context.Context, userID int64, subject string) (string, bool, error) {
	return i.Issue(ctx, i.codec.NewPayload(userID, subject))
}

// Revoke removes the stored token.
func (i *Issuer) Revoke(ctx context.Context) error {
	return i.store.DeleteToken(ctx)
}
