// Package keyring stores the session token outside the config file.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	gokeyring "github.com/zalando/go-keyring"
)

const (
	// ServiceName namespaces every secret sage writes to the OS keyring.
	ServiceName = "io.stocksage.sage"

	// KeyToken is the keyring key for the session bearer token.
	KeyToken = "session_token"

	// EnvToken overrides keyring lookups of the session token for
	// headless use.
	EnvToken = "SAGE_TOKEN"
)

// ErrNotFound is returned when a secret is not found in the keyring.
var ErrNotFound = errors.New("secret not found")

// Store is a service/key secret store.
type Store interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// LoadToken returns the stored session token, or ErrNotFound.
func LoadToken(s Store) (string, error) {
	token, err := s.Get(ServiceName, KeyToken)
	if err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

// SaveToken stores the session token.
func SaveToken(s Store, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("refusing to store an empty session token")
	}
	if err := s.Set(ServiceName, KeyToken, token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

// DeleteToken removes the session token. A missing token is not an error.
func DeleteToken(s Store) error {
	if err := s.Delete(ServiceName, KeyToken); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

// OSStore is the platform keyring: Keychain, Secret Service or Credential
// Manager depending on the OS.
type OSStore struct{}

// Get reads a secret, mapping a missing entry to ErrNotFound.
func (OSStore) Get(service, key string) (string, error) {
	secret, err := gokeyring.Get(service, key)
	switch {
	case errors.Is(err, gokeyring.ErrNotFound):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("keyring unavailable: %w", err)
	}
	return secret, nil
}

// Set writes a secret.
func (OSStore) Set(service, key, value string) error {
	return gokeyring.Set(service, key, value)
}

// Delete removes a secret. Missing entries are ignored.
func (OSStore) Delete(service, key string) error {
	if err := gokeyring.Delete(service, key); err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return err
	}
	return nil
}

// EnvStore lets SAGE_TOKEN shadow the token held by another Store.
// Writes always go to the wrapped store.
type EnvStore struct {
	Store
}

// Get returns $SAGE_TOKEN for the session token when it is set.
func (e EnvStore) Get(service, key string) (string, error) {
	if service == ServiceName && key == KeyToken {
		if v := os.Getenv(EnvToken); v != "" {
			return v, nil
		}
	}
	return e.Store.Get(service, key)
}

// Default returns the store used by the CLI: the OS keyring behind SAGE_TOKEN.
func Default() Store {
	return EnvStore{Store: OSStore{}}
}
