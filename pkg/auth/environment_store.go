package auth

import "os"

// tokenEnvVar is the environment variable checked for the API token.
const tokenEnvVar = "GMDOWN_API_TOKEN"

// EnvironmentStore reads the token from the environment. It cannot
// persist anything.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-backed store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Store(string) error {
	return ErrReadOnlyStore
}

func (e *EnvironmentStore) Retrieve() (string, error) {
	if token := os.Getenv(tokenEnvVar); token != "" {
		return token, nil
	}
	return "", ErrTokenNotFound
}

func (e *EnvironmentStore) Delete() error {
	return ErrReadOnlyStore
}
