package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicevents/crm/internal/session"
)

func TestNewCodec_RequiresKey(t *testing.T) {
	_, err := session.NewCodec("")
	require.ErrorIs(t, err, session.ErrSecretKeyNotFound)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newCodec(t)

	t.Run("injects expiry", func(t *testing.T) {
		before := time.Now().UTC()
		token, err := codec.Encode(session.Payload{UserID: 7, Subject: "john doe", Issuer: session.DefaultIssuer})
		require.NoError(t, err)

		p, err := codec.Decode(token, true)
		require.NoError(t, err)
		assert.Equal(t, int64(7), p.UserID)
		assert.Equal(t, "john doe", p.Subject)
		assert.Equal(t, session.DefaultIssuer, p.Issuer)
		assert.True(t, p.ExpiresAt.After(before))
		assert.WithinDuration(t, before.Add(session.DefaultTTL), p.ExpiresAt, 2*time.Second)
	})

	t.Run("keeps explicit expiry", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
		token, err := codec.Encode(session.Payload{UserID: 1, Subject: "jane doe", ExpiresAt: exp})
		require.NoError(t, err)

		p, err := codec.Decode(token, true)
		require.NoError(t, err)
		assert.True(t, exp.Equal(p.ExpiresAt))
	})

	t.Run("empty subject survives", func(t *testing.T) {
		token, err := codec.Encode(session.Payload{UserID: 1})
		require.NoError(t, err)

		p, err := codec.Decode(token, true)
		require.NoError(t, err)
		assert.Empty(t, p.Subject)
		assert.Equal(t, session.DefaultIssuer, p.Issuer)
	})
}

func TestCodec_WrongKey(t *testing.T) {
	signer := newCodec(t)
	other, err := session.NewCodec("another-key")
	require.NoError(t, err)

	token, err := signer.Encode(session.Payload{UserID: 1, Subject: "john doe"})
	require.NoError(t, err)

	t.Run("strict", func(t *testing.T) {
		_, err := other.Decode(token, true)
		require.ErrorIs(t, err, session.ErrSignatureInvalid)
	})

	t.Run("non strict", func(t *testing.T) {
		p, err := other.Decode(token, false)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("expired and wrong key reports signature", func(t *testing.T) {
		expired, err := signer.Encode(session.Payload{UserID: 1, ExpiresAt: time.Now().Add(-time.Hour)})
		require.NoError(t, err)
		_, err = other.Decode(expired, true)
		require.ErrorIs(t, err, session.ErrSignatureInvalid)
	})
}

func TestCodec_Expired(t *testing.T) {
	codec := newCodec(t)
	token, err := codec.Encode(session.Payload{
		UserID:    1,
		Subject:   "john doe",
		ExpiresAt: time.Now().Add(-30 * time.Second),
	})
	require.NoError(t, err)

	t.Run("strict", func(t *testing.T) {
		_, err := codec.Decode(token, true)
		require.ErrorIs(t, err, session.ErrTokenExpired)
	})

	t.Run("non strict", func(t *testing.T) {
		p, err := codec.Decode(token, false)
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestCodec_Malformed(t *testing.T) {
	codec := newCodec(t)

	for _, raw := range []string{"token", "", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30"} {
		_, err := codec.Decode(raw, true)
		assert.ErrorIs(t, err, session.ErrMalformedToken, raw)

		_, err = codec.Decode(raw, false)
		assert.ErrorIs(t, err, session.ErrMalformedToken, raw)
	}
}

func TestCodec_TryDecode(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	codec := newCodec(t, session.WithClock(c.Now))

	token, err := codec.Encode(codec.NewPayload(3, "ada lovelace"))
	require.NoError(t, err)

	res := codec.TryDecode(token)
	require.Equal(t, session.StatusValid, res.Status)
	assert.Equal(t, int64(3), res.Payload.UserID)
	assert.NoError(t, res.Err)

	c.Advance(session.DefaultTTL + time.Minute)
	res = codec.TryDecode(token)
	assert.Equal(t, session.StatusExpired, res.Status)
	assert.Nil(t, res.Payload)
	assert.ErrorIs(t, res.Err, session.ErrTokenExpired)

	res = codec.TryDecode(token + "x")
	assert.Equal(t, session.StatusInvalid, res.Status)
	assert.Equal(t, "invalid", res.Status.String())
}

func TestCodec_Options(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	codec := newCodec(t,
		session.WithClock(c.Now),
		session.WithTTL(2*time.Hour),
		session.WithIssuer("custom"),
	)

	p := codec.NewPayload(1, "john doe")
	assert.Equal(t, c.now.Add(2*time.Hour), p.ExpiresAt)
	assert.Equal(t, "custom", p.Issuer)
	assert.Equal(t, 2*time.Hour, codec.TTL())
}
