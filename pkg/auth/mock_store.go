package auth

// MockStore is an in-memory TokenStore for tests.
type MockStore struct {
	token    string
	failWith error
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// FailWith makes every operation return err.
func (m *MockStore) FailWith(err error) {
	m.failWith = err
}

func (m *MockStore) Store(token string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.token = token
	return nil
}

func (m *MockStore) Retrieve() (string, error) {
	if m.failWith != nil {
		return "", m.failWith
	}
	if m.token == "" {
		return "", ErrTokenNotFound
	}
	return m.token, nil
}

func (m *MockStore) Delete() error {
	if m.failWith != nil {
		return m.failWith
	}
	if m.token == "" {
		return ErrTokenNotFound
	}
	m.token = ""
	return nil
}
