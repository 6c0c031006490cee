package session_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/epicevents/crm/internal/session"
)

const testSecret = "test-secret-key"

// newEnvStore returns a store in a temp dir and shields the process
// environment from the writes it mirrors.
func newEnvStore(t *testing.T) *session.EnvFileStore {
	t.Helper()
	t.Setenv(session.TokenKey, "")
	t.Setenv(session.SecretKeyName, "")
	return session.NewEnvFileStore(filepath.Join(t.TempDir(), ".env"))
}

func newCodec(t *testing.T, opts ...session.Option) *session.Codec {
	t.Helper()
	codec, err := session.NewCodec(testSecret, opts...)
	require.NoError(t, err)
	return codec
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
