package importer

import "sync"

// KeyLock per-key mutual exclusion. Resolving and persisting one external id
// must not interleave across two concurrently running jobs; each pipeline
// holds the key's lock from prior-lookup through persist.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyEntry
}

type keyEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyLock creates an empty key lock
func NewKeyLock() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*keyEntry),
	}
}

// Lock acquires the lock for key, creating it on first use
func (k *KeyLock) Lock(key string) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the lock for key, dropping the entry when unused
func (k *KeyLock) Unlock(key string) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if ok {
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}
