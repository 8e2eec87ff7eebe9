// Package credential keeps secrets such as the database DSN in the OS
// keyring instead of the plain-text config file.
package credential

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"

	"github.com/nhle/dailytasks/internal/model"
)

const serviceName = "dailytasks"

// ErrNotFound is returned when no secret is stored under the key.
var ErrNotFound = errors.New("credential not found")

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(filepath.Dir(model.DefaultConfigPath()), "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("dailytasks-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "dailytasks " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// ResolveDSN returns the database DSN to connect with. When the config names
// a credential key, the keyring value wins over the DSN in the file.
func ResolveDSN(cfg model.DatabaseConfig) (string, error) {
	return resolveDSN(cfg, Get)
}

func resolveDSN(cfg model.DatabaseConfig, get func(string) (string, error)) (string, error) {
	if cfg.CredentialKey == "" {
		return cfg.DSN, nil
	}
	dsn, err := get(cfg.CredentialKey)
	if err != nil {
		return "", fmt.Errorf("resolving database dsn: %w", err)
	}
	return dsn, nil
}
