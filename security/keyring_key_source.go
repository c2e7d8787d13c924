package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultKeyringService = "go-appaccount"
	defaultKeyringUser    = "secret-key"
	generatedKeySize      = 32
)

// KeyringKeySource keeps the application key in the OS keyring, creating one
// on first use.
type KeyringKeySource struct {
	Service string
	User    string
}

func NewKeyringKeySource(service string, user string) *KeyringKeySource {
	return &KeyringKeySource{Service: service, User: user}
}

func (s *KeyringKeySource) Load() ([]byte, error) {
	service, user := s.names()
	encoded, err := keyring.Get(service, user)
	if err == nil {
		key, decodeErr := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
		if decodeErr != nil {
			return nil, fmt.Errorf("security: decode keyring key %s/%s: %w", service, user, decodeErr)
		}
		return key, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("security: read keyring key %s/%s: %w", service, user, err)
	}

	key := make([]byte, generatedKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("security: generate key: %w", err)
	}
	if err := keyring.Set(service, user, base64.StdEncoding.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("security: store keyring key %s/%s: %w", service, user, err)
	}
	return key, nil
}

func (s *KeyringKeySource) Forget() error {
	service, user := s.names()
	if err := keyring.Delete(service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("security: delete keyring key %s/%s: %w", service, user, err)
	}
	return nil
}

// SecretProvider loads (or creates) the key and wraps it in an
// AppKeySecretProvider.
func (s *KeyringKeySource) SecretProvider(opts ...Option) (*AppKeySecretProvider, error) {
	key, err := s.Load()
	if err != nil {
		return nil, err
	}
	return NewAppKeySecretProvider(key, opts...)
}

func (s *KeyringKeySource) names() (string, string) {
	service, user := defaultKeyringService, defaultKeyringUser
	if s != nil {
		if trimmed := strings.TrimSpace(s.Service); trimmed != "" {
			service = trimmed
		}
		if trimmed := strings.TrimSpace(s.User); trimmed != "" {
			user = trimmed
		}
	}
	return service, user
}
