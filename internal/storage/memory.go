package storage

import (
	"fmt"
	"sync"
)

// MemoryKV is an in-memory KV. It substitutes for the durable store in
// tests; MaxBytes, when positive, caps the total stored size so quota
// failures can be exercised.
type MemoryKV struct {
	mu       sync.Mutex
	values   map[string]string
	MaxBytes int
}

// NewMemoryKV creates an empty in-memory store with no quota.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key, enforcing MaxBytes when set.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MaxBytes > 0 {
		total := len(key) + len(value)
		for k, v := range m.values {
			if k == key {
				continue
			}
			total += len(k) + len(v)
		}
		if total > m.MaxBytes {
			return fmt.Errorf("writing key %q: %w", key, ErrQuotaExceeded)
		}
	}
	m.values[key] = value
	return nil
}

// Delete removes key.
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
