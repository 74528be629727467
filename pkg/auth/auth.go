package auth

import (
	"errors"
	"path/filepath"
)

// ErrTokenNotFound is returned when a store holds no token.
var ErrTokenNotFound = errors.New("api token not found")

// ErrReadOnlyStore is returned by stores that cannot persist a token.
var ErrReadOnlyStore = errors.New("store is read-only")

// TokenStore stores and retrieves the GroupMe API token.
type TokenStore interface {
	// Store saves the token.
	Store(token string) error

	// Retrieve gets the stored token, or ErrTokenNotFound.
	Retrieve() (string, error)

	// Delete removes the stored token.
	Delete() error
}

// Manager resolves the API token across storage backends, most secure
// first: environment variable, system keychain, encrypted file.
type Manager struct {
	stores []TokenStore
}

// NewManager creates a Manager with every backend available on this
// system.
func NewManager(configDir string) (*Manager, error) {
	stores := []TokenStore{NewEnvironmentStore()}

	// Keychain when the platform provides one
	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "token.enc"))
	if err != nil {
		return nil, err
	}
	stores = append(stores, encryptedStore)

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a Manager over an explicit backend chain.
// Used by tests.
func NewManagerWithStores(stores ...TokenStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the token in the first backend that accepts it.
func (m *Manager) Store(token string) error {
	if token == "" {
		return errors.New("token is required")
	}

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(token)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrReadOnlyStore) {
			lastErr = err
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return errors.New("no writable token store available")
}

// Retrieve returns the token from the first backend that has one.
func (m *Manager) Retrieve() (string, error) {
	for _, store := range m.stores {
		token, err := store.Retrieve()
		if err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrTokenNotFound
}

// Delete removes the token from every backend that holds it.
func (m *Manager) Delete() error {
	var lastErr error
	for _, store := range m.stores {
		if err := store.Delete(); err != nil && !errors.Is(err, ErrTokenNotFound) && !errors.Is(err, ErrReadOnlyStore) {
			lastErr = err
		}
	}
	return lastErr
}
