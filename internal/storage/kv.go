// Package storage provides the durable key-value capability backing the
// persisted cache and the personal list. Implementations are string-keyed
// and string-valued, quota-limited, and may fail on write; callers are
// expected to catch, report, and continue.
package storage

import "errors"

// ErrQuotaExceeded indicates a write was rejected because the store is out
// of space.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// KV is a durable string key-value store.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	// Returns ErrQuotaExceeded (possibly wrapped) when out of space.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
