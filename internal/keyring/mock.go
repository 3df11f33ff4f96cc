package keyring

import (
	"fmt"
	"sync"
)

type entry struct {
	service string
	key     string
}

// MockStore is an in-memory Store for tests. Operations can be made to fail,
// and every call is recorded as "op service/key".
type MockStore struct {
	mu      sync.Mutex
	secrets map[entry]string
	failGet error
	failSet error
	failDel error
	calls   []string
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{secrets: make(map[entry]string)}
}

func (m *MockStore) record(op, service, key string) {
	m.calls = append(m.calls, fmt.Sprintf("%s %s/%s", op, service, key))
}

// Get implements Store.
func (m *MockStore) Get(service, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("get", service, key)
	if m.failGet != nil {
		return "", m.failGet
	}
	if v, ok := m.secrets[entry{service, key}]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

// Set implements Store.
func (m *MockStore) Set(service, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("set", service, key)
	if m.failSet != nil {
		return m.failSet
	}
	m.secrets[entry{service, key}] = value
	return nil
}

// Delete implements Store.
func (m *MockStore) Delete(service, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("delete", service, key)
	if m.failDel != nil {
		return m.failDel
	}
	delete(m.secrets, entry{service, key})
	return nil
}

// Calls returns the recorded operations in order.
func (m *MockStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// WithGetError makes every Get fail with err.
func (m *MockStore) WithGetError(err error) *MockStore {
	m.failGet = err
	return m
}

// WithSetError makes every Set fail with err.
func (m *MockStore) WithSetError(err error) *MockStore {
	m.failSet = err
	return m
}

// WithDeleteError makes every Delete fail with err.
func (m *MockStore) WithDeleteError(err error) *MockStore {
	m.failDel = err
	return m
}

// WithData seeds a secret without recording a call.
func (m *MockStore) WithData(service, key, value string) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[entry{service, key}] = value
	return m
}
