package multikey

import "sync"

// Synchronized guards a Map with a read/write lock. Mutations take the write
// lock for their whole duration and reads share the read lock.
type Synchronized[K Key, V any] struct {
	m  *Map[K, V]
	mu sync.RWMutex
}

// NewSynchronized wraps m. The caller must stop using m directly.
func NewSynchronized[K Key, V any](m *Map[K, V]) *Synchronized[K, V] {
	return &Synchronized[K, V]{m: m}
}

// Add is Map.Add under the write lock.
func (s *Synchronized[K, V]) Add(keys []K, item V, overwrite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Add(keys, item, overwrite)
}

// Set is Map.Set under the write lock.
func (s *Synchronized[K, V]) Set(keys []K, item V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Set(keys, item)
}

// SetOne is Map.SetOne under the write lock.
func (s *Synchronized[K, V]) SetOne(key K, item V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.SetOne(key, item)
}

// Do runs fn with exclusive access, for compound check-then-write sequences.
func (s *Synchronized[K, V]) Do(fn func(m *Map[K, V]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.m)
}

// View runs fn with shared access. fn must not mutate the Map.
func (s *Synchronized[K, V]) View(fn func(m *Map[K, V])) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.m)
}

// Get is Map.Get under the read lock.
func (s *Synchronized[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Get(key)
}

// At is Map.At under the read lock.
func (s *Synchronized[K, V]) At(index int) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.At(index)
}

// GetByHash is Map.GetByHash under the read lock.
func (s *Synchronized[K, V]) GetByHash(digest string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.GetByHash(digest)
}

// KeyExists is Map.KeyExists under the read lock.
func (s *Synchronized[K, V]) KeyExists(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.KeyExists(key)
}

// HashExists is Map.HashExists under the read lock.
func (s *Synchronized[K, V]) HashExists(digest string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.HashExists(digest)
}

// KeysExists is Map.KeysExists under the read lock.
func (s *Synchronized[K, V]) KeysExists(keys []K) []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.KeysExists(keys)
}

// IndexOfKey is Map.IndexOfKey under the read lock.
func (s *Synchronized[K, V]) IndexOfKey(key K) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.IndexOfKey(key)
}

// IndexOfHash is Map.IndexOfHash under the read lock.
func (s *Synchronized[K, V]) IndexOfHash(digest string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.IndexOfHash(digest)
}

// Lookup is Map.Lookup under the read lock. Digesting happens while the
// lock is held.
func (s *Synchronized[K, V]) Lookup(item V) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Lookup(item)
}

// Len is Map.Len under the read lock.
func (s *Synchronized[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Len()
}
