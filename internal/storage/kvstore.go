package storage

import (
	"errors"
	"sync"

	"fyne.io/fyne/v2"
)

// ErrEmptyKey is returned when writing a value without a key.
var ErrEmptyKey = errors.New("empty storage key")

// PreferencesStore persists string values through fyne application preferences.
type PreferencesStore struct {
	prefs fyne.Preferences
}

// NewPreferencesStore wraps the preferences of a fyne app.
func NewPreferencesStore(prefs fyne.Preferences) *PreferencesStore {
	return &PreferencesStore{prefs: prefs}
}

// Get returns the value stored under key. Empty values count as absent.
func (store *PreferencesStore) Get(key string) (string, bool) {
	if store == nil || store.prefs == nil || key == "" {
		return "", false
	}
	value := store.prefs.StringWithFallback(key, "")
	return value, value != ""
}

// Set stores value under key.
func (store *PreferencesStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	store.prefs.SetString(key, value)
	return nil
}

// MemoryStore is an in-process key-value store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (store *MemoryStore) Get(key string) (string, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	value, ok := store.values[key]
	return value, ok
}

// Set stores value under key.
func (store *MemoryStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	store.mu.Lock()
	store.values[key] = value
	store.mu.Unlock()
	return nil
}
