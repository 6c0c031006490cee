package session

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// EnvFileStore keeps the session entries in a dotenv file and mirrors every
// write into the process environment.
type EnvFileStore struct {
	path string
}

// NewEnvFileStore returns a store backed by the dotenv file at path.
func NewEnvFileStore(path string) *EnvFileStore {
	if path == "" {
		path = ".env"
	}
	return &EnvFileStore{path: path}
}

// Path returns the backing file location.
func (s *EnvFileStore) Path() string {
	return s.path
}

func (s *EnvFileStore) SecretKey(_ context.Context) (string, error) {
	val, err := s.get(SecretKeyName)
	if err != nil {
		return "", err
	}
	if val == "" {
		return "", ErrSecretKeyNotFound
	}
	return val, nil
}

func (s *EnvFileStore) SetSecretKey(_ context.Context, key string) error {
	return s.set(SecretKeyName, key)
}

func (s *EnvFileStore) Token(_ context.Context) (string, error) {
	val, err := s.get(TokenKey)
	if err != nil {
		return "", err
	}
	if val == "" {
		return "", ErrTokenNotFound
	}
	return val, nil
}

func (s *EnvFileStore) SaveToken(_ context.Context, token string) error {
	return s.set(TokenKey, token)
}

func (s *EnvFileStore) DeleteToken(_ context.Context) error {
	if err := os.Unsetenv(TokenKey); err != nil {
		return errors.Wrap(err, "unset TOKEN")
	}
	return s.edit(TokenKey, nil)
}

func (s *EnvFileStore) HasToken(ctx context.Context) (bool, error) {
	_, err := s.Token(ctx)
	if errors.Is(err, ErrTokenNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *EnvFileStore) get(key string) (string, error) {
	entries, err := s.read()
	if err != nil {
		return "", err
	}
	if val := entries[key]; val != "" {
		return val, nil
	}
	return os.Getenv(key), nil
}

func (s *EnvFileStore) set(key, value string) error {
	if err := s.edit(key, &value); err != nil {
		return err
	}
	if err := os.Setenv(key, value); err != nil {
		return errors.Wrapf(err, "set %s", key)
	}
	return nil
}

func (s *EnvFileStore) read() (map[string]string, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	entries, err := godotenv.Read(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.path)
	}
	return entries, nil
}

// edit rewrites the lines defining key and leaves every other line as is.
// A nil value removes the entry; otherwise the first definition is replaced
// and the entry is appended when the file has none.
func (s *EnvFileStore) edit(key string, value *string) error {
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if value == nil {
			return nil
		}
		content = nil
	} else if err != nil {
		return errors.Wrapf(err, "read %s", s.path)
	}

	var replacement string
	if value != nil {
		replacement, err = godotenv.Marshal(map[string]string{key: *value})
		if err != nil {
			return errors.Wrapf(err, "encode %s", key)
		}
	}

	var (
		lines   []string
		found   bool
		changed bool
	)
	if len(content) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	}
	kept := lines[:0]
	for _, line := range lines {
		if !definesKey(line, key) {
			kept = append(kept, line)
			continue
		}
		changed = true
		if value != nil && !found {
			kept = append(kept, replacement)
		}
		found = true
	}
	if value != nil && !found {
		kept = append(kept, replacement)
		changed = true
	}
	if !changed {
		return nil
	}

	out := strings.Join(kept, "\n")
	if out != "" {
		out += "\n"
	}
	if err := os.WriteFile(s.path, []byte(out), 0o600); err != nil {
		return errors.Wrapf(err, "write %s", s.path)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		return errors.Wrapf(err, "chmod %s", s.path)
	}
	return nil
}

// definesKey reports whether a single dotenv line assigns key.
func definesKey(line, key string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return false
	}
	entries, err := godotenv.Unmarshal(trimmed)
	if err != nil {
		return false
	}
	_, ok := entries[key]
	return ok
}
