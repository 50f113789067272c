package storefakes

import (
	"strings"
	"sync"

	"github.com/jrsteele09/go-school-app/credstore"
)

var _ credstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory Store with per-key fault injection so tests can
// simulate a failing secure-storage provider.
type FakeStore struct {
	values  map[string]string
	failGet map[string]bool
	failSet map[string]bool
	lock    sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		values:  make(map[string]string),
		failGet: make(map[string]bool),
		failSet: make(map[string]bool),
	}
}

// FailSets makes every subsequent Set of key report failure.
func (fs *FakeStore) FailSets(key string) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.failSet[key] = true
}

// FailGets makes every subsequent Get of key report absence.
func (fs *FakeStore) FailGets(key string) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.failGet[key] = true
}

func (fs *FakeStore) Get(key string) (string, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.failGet[key] {
		return "", false
	}
	value, ok := fs.values[key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (fs *FakeStore) Set(key, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.failSet[key] {
		return false
	}
	fs.values[key] = value
	return true
}

func (fs *FakeStore) Delete(key string) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	delete(fs.values, key)
}

// Len reports how many entries are currently stored.
func (fs *FakeStore) Len() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	return len(fs.values)
}
