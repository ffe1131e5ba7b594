package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ethnosapp/ethnos/internal/logging"
	"github.com/ethnosapp/ethnos/internal/storage"
)

type persistedEntry[V any] struct {
	Value    V         `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}

// Durable is a TTL cache whose live entries are serialized to a single
// key of the durable store on every Set. On construction it rehydrates
// only entries still within TTL; older ones are dropped silently.
// Persistence failures are logged and never escape.
type Durable[V any] struct {
	*Cache[V]
	kv  storage.KV
	key string
	log logging.Logger
}

// NewDurable creates a durable cache persisted under storageKey.
func NewDurable[V any](kv storage.KV, storageKey string, ttl time.Duration, maxEntries int, log logging.Logger) *Durable[V] {
	if log == nil {
		log = logging.NopLogger{}
	}
	d := &Durable[V]{
		Cache: New[V](ttl, maxEntries),
		kv:    kv,
		key:   storageKey,
		log:   log,
	}
	d.load()
	return d
}

// load rehydrates live entries from the durable store.
func (d *Durable[V]) load() {
	raw, ok, err := d.kv.Get(d.key)
	if err != nil {
		d.log.Warn(context.Background(), "loading cache from storage failed", "key", d.key, "error", err)
		return
	}
	if !ok {
		return
	}

	var stored map[string]persistedEntry[V]
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		d.log.Warn(context.Background(), "parsing persisted cache failed", "key", d.key, "error", err)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for k, pe := range stored {
		if now.Sub(pe.StoredAt) < d.ttl {
			d.entries[k] = entry[V]{value: pe.Value, storedAt: pe.StoredAt}
		}
	}
}

// Set stores the value and mirrors all live entries to the durable store.
func (d *Durable[V]) Set(key string, value V) {
	d.Cache.Set(key, value)
	d.save()
}

// Clear empties both the in-memory cache and the persisted copy.
func (d *Durable[V]) Clear() {
	d.Cache.Clear()
	if err := d.kv.Delete(d.key); err != nil {
		d.log.Warn(context.Background(), "clearing persisted cache failed", "key", d.key, "error", err)
	}
}

func (d *Durable[V]) save() {
	d.mu.Lock()
	now := d.now()
	toStore := make(map[string]persistedEntry[V], len(d.entries))
	for k, e := range d.entries {
		if now.Sub(e.storedAt) < d.ttl {
			toStore[k] = persistedEntry[V]{Value: e.value, StoredAt: e.storedAt}
		}
	}
	d.mu.Unlock()

	data, err := json.Marshal(toStore)
	if err != nil {
		d.log.Warn(context.Background(), "encoding persisted cache failed", "key", d.key, "error", err)
		return
	}
	if err := d.kv.Set(d.key, string(data)); err != nil {
		d.log.Warn(context.Background(), "saving cache to storage failed", "key", d.key, "error", err)
	}
}
