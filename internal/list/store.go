// Package list implements the user's personal reading list: CRUD over a
// single JSON collection persisted in the durable key-value store, with
// uniqueness enforced on the work id.
package list

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ethnosapp/ethnos/internal/logging"
	"github.com/ethnosapp/ethnos/internal/notify"
	"github.com/ethnosapp/ethnos/internal/storage"
	"github.com/ethnosapp/ethnos/internal/work"
)

// StorageKey is the key the list is persisted under.
const StorageKey = "ethnos_personal_list"

// Validation and lookup errors. Storage failures never escape the store;
// these describe why an operation was refused.
var (
	ErrInvalidItem   = errors.New("item is missing id or title")
	ErrDuplicateItem = errors.New("item is already on the list")
	ErrNotFound      = errors.New("item not found on the list")
)

// Result reports the outcome of a mutating operation. Message is suitable
// for direct display to the user; Err carries the refusal cause for
// callers that branch on it.
type Result struct {
	OK      bool
	Message string
	Err     error
}

// Store is the personal-list store. All operations read, validate, and
// write in one step with no intervening suspension, so a failed write
// never leaves persisted and in-memory state diverging.
type Store struct {
	kv       storage.KV
	key      string
	log      logging.Logger
	notifier notify.Notifier

	// onCountChange is invoked after every successful persisted mutation
	// so host surfaces (counters, badges) can stay in sync.
	onCountChange func(count int)

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostic logger.
func WithLogger(log logging.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithNotifier sets the user-visible message sink.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithCountCallback sets the counter-refresh callback.
func WithCountCallback(fn func(count int)) Option {
	return func(s *Store) { s.onCountChange = fn }
}

// WithStorageKey overrides the persistence key (for tests).
func WithStorageKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// NewStore creates a personal-list store over the given durable storage.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		key:      StorageKey,
		log:      logging.NopLogger{},
		notifier: notify.Discard{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load reads the persisted list. Storage or decoding failures are logged
// and yield an empty list, mirroring how the site treated a corrupt
// localStorage entry.
func (s *Store) load() []work.SavedItem {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.log.Error(context.Background(), "loading personal list failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var items []work.SavedItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Error(context.Background(), "parsing personal list failed", "error", err)
		return nil
	}
	return items
}

// save persists the whole list, notifying the user on failure (quota
// exceeded and the like). The returned error is the underlying cause.
func (s *Store) save(items []work.SavedItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		s.log.Error(context.Background(), "encoding personal list failed", "error", err)
		s.notifier.Notify(notify.Error, "Erro ao salvar lista.")
		return err
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.log.Error(context.Background(), "saving personal list failed", "error", err)
		if errors.Is(err, storage.ErrQuotaExceeded) {
			s.notifier.Notify(notify.Error, "Erro ao salvar lista. Verifique o espaço de armazenamento.")
		} else {
			s.notifier.Notify(notify.Error, "Erro ao salvar lista.")
		}
		return err
	}
	return nil
}

// List returns the saved items in insertion order (oldest first). Callers
// wanting display order reverse it themselves.
func (s *Store) List() []work.SavedItem {
	return s.load()
}

// Count returns the current list size.
func (s *Store) Count() int {
	return len(s.load())
}

// Contains reports whether a work id is already on the list.
func (s *Store) Contains(id int) bool {
	for _, item := range s.load() {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Add validates the candidate and appends it with AddedAt set to now.
// The list is only persisted after validation passes; a persistence
// failure leaves the previously stored list untouched.
func (s *Store) Add(candidate work.SavedItem) Result {
	if candidate.ID == 0 || candidate.Title == "" {
		return Result{Message: "Dados do item inválidos", Err: ErrInvalidItem}
	}

	items := s.load()
	for _, existing := range items {
		if existing.ID == candidate.ID {
			return Result{Message: "Item já está na sua lista", Err: ErrDuplicateItem}
		}
	}

	candidate.AddedAt = s.now()
	items = append(items, candidate)

	if err := s.save(items); err != nil {
		return Result{Message: "Erro ao adicionar item", Err: err}
	}
	s.countChanged(len(items))
	return Result{OK: true, Message: "Item adicionado à sua lista"}
}

// Remove deletes the item with the given id and persists the filtered
// list.
func (s *Store) Remove(id int) Result {
	items := s.load()

	var removedTitle string
	found := false
	filtered := make([]work.SavedItem, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			removedTitle = item.Title
			found = true
			continue
		}
		filtered = append(filtered, item)
	}
	if !found {
		return Result{Message: "Item não encontrado na lista", Err: ErrNotFound}
	}

	if err := s.save(filtered); err != nil {
		return Result{Message: "Erro ao remover item", Err: err}
	}
	s.countChanged(len(filtered))
	s.notifier.Notify(notify.Success, "\""+removedTitle+"\" removido da lista")
	return Result{OK: true, Message: "Item removido da lista"}
}

// Clear empties the persisted list. It is a guarded destructive action:
// confirm is consulted first and a false return aborts.
func (s *Store) Clear(confirm func() bool) Result {
	items := s.load()
	if len(items) == 0 {
		s.notifier.Notify(notify.Info, "Sua lista já está vazia")
		return Result{Message: "Sua lista já está vazia"}
	}

	if confirm != nil && !confirm() {
		return Result{Message: "Operação cancelada"}
	}

	if err := s.kv.Delete(s.key); err != nil {
		s.log.Error(context.Background(), "clearing personal list failed", "error", err)
		s.notifier.Notify(notify.Error, "Erro ao limpar lista.")
		return Result{Message: "Erro ao limpar lista", Err: err}
	}
	s.countChanged(0)
	s.notifier.Notify(notify.Success, "Lista limpa com sucesso")
	return Result{OK: true, Message: "Lista limpa com sucesso"}
}

func (s *Store) countChanged(count int) {
	if s.onCountChange != nil {
		s.onCountChange(count)
	}
}
