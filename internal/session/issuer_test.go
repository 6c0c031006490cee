package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicevents/crm/internal/session"
)

func TestIssuer_EmptyStore(t *testing.T) {
	ctx := context.Background()
	store := newEnvStore(t)
	codec := newCodec(t)
	issuer := session.NewIssuer(store, codec)

	token, reused, err := issuer.Issue(ctx, session.Payload{UserID: 1, Subject: "john doe"})
	require.NoError(t, err)
	assert.False(t, reused)

	stored, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	p, err := codec.Decode(stored, true)
	require.NoError(t, err)
	assert.Equal(t, "john doe", p.Subject)
}

func TestIssuer_SamePrincipalKeepsToken(t *testing.T) {
	ctx := context.Background()
	store := newEnvStore(t)
	issuer := session.NewIssuer(store, newCodec(t))

	first, _, err := issuer.IssueFor(ctx, 1, "john doe")
	require.NoError(t, err)

	second, reused, err := issuer.IssueFor(ctx, 1, "john doe")
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, first, second)

	stored, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestIssuer_DifferentPrincipalReplacesToken(t *testing.T) {
	ctx := context.Background()
	store := newEnvStore(t)
	codec := newCodec(t)
	issuer := session.NewIssuer(store, codec)

	_, _, err := issuer.IssueFor(ctx, 1, "john doe")
	require.NoError(t, err)

	t.Run("different user", func(t *testing.T) {
		_, reused, err := issuer.IssueFor(ctx, 2, "jane doe")
		require.NoError(t, err)
		assert.False(t, reused)

		stored, err := store.Token(ctx)
		require.NoError(t, err)
		p, err := codec.Decode(stored, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), p.UserID)
		assert.Equal(t, "jane doe", p.Subject)
	})

	t.Run("same id different subject", func(t *testing.T) {
		_, reused, err := issuer.IssueFor(ctx, 2, "jane smith")
		require.NoError(t, err)
		assert.False(t, reused)

		stored, err := store.Token(ctx)
		require.NoError(t, err)
		p, err := codec.Decode(stored, true)
		require.NoError(t, err)
		assert.Equal(t, "jane smith", p.Subject)
	})
}

func TestIssuer_ExpiredSamePrincipalIsReplaced(t *testing.T) {
	ctx := context.Background()
	store := newEnvStore(t)
	codec := newCodec(t)

	expired, err := codec.Encode(session.Payload{UserID: 1, Subject: "john doe", ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	require.NoError(t, store.SaveToken(ctx, expired))

	token, reused, err := session.NewIssuer(store, codec).IssueFor(ctx, 1, "john doe")
	require.NoError(t, err)
	assert.False(t, reused)
	assert.NotEqual(t, expired, token)

	p, err := codec.Decode(token, true)
	require.NoError(t, err)
	assert.True(t, p.ExpiresAt.After(time.Now()))
}

func TestIssuer_ForeignKeyTokenIsReplaced(t *testing.T) {
	ctx := context.Background()
	store := newEnvStore(t)
	codec := newCodec(t)

	foreign, err := session.NewCodec("rotated-key")
	require.NoError(t, err)
	stale, err := foreign.Encode(session.Payload{UserID: 1, Subject: "john doe"})
	require.NoError(t, err)
	require.NoError(t, store.SaveToken(ctx, stale))

	token, reused, err := session.NewIssuer(store, codec).IssueFor(ctx, 1, "john doe")
	require.NoError(t, err)
	assert.False(t, reused)

	_, err = codec.Decode(token, true)
	require.NoError(t, err)
}

func TestIssuer_Revoke(t *testing.T) {
	ctx := context.Background()
	store := newEnvStore(t)
	issuer := session.NewIssuer(store, newCodec(t))

	_, _, err := issuer.IssueFor(ctx, 1, "john doe")
	require.NoError(t, err)
	require.NoError(t, issuer.Revoke(ctx))

	ok, err := store.HasToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
