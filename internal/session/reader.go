package session

import "context"

// Reader exposes the stored session for one command invocation.
type Reader struct {
	token string
	codec *Codec
}

// Open loads the stored token. It fails with ErrTokenNotFound when nobody
// is logged in.
func Open(ctx context.Context, store Store, codec *Codec) (*Reader, error) {
	token, err := store.Token(ctx)
	if err != nil {
		return nil, err
	}
	return &Reader{token: token, codec: codec}, nil
}

// Raw returns the stored token string.
func (r *Reader) Raw() string {
	return r.token
}

// Decode strictly verifies the stored token on every call.
func (r *Reader) Decode() (*Payload, error) {
	return r.codec.Decode(r.token, true)
}
