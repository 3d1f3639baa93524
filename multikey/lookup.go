package multikey

import "slices"

// Get returns the item bound to key, or the zero value and false.
func (m *Map[K, V]) Get(key K) (V, bool) {
	index, ok := m.keys[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.items[index].item, true
}

// At returns the item stored at a slot index.
func (m *Map[K, V]) At(index int) (V, bool) {
	if index < 0 || index >= len(m.items) {
		var zero V
		return zero, false
	}
	return m.items[index].item, true
}

// GetByHash returns the item of the lowest slot currently holding digest.
func (m *Map[K, V]) GetByHash(digest string) (V, bool) {
	index, ok := m.IndexOfHash(digest)
	if !ok {
		var zero V
		return zero, false
	}
	return m.items[index].item, true
}

// KeyExists reports whether key is bound to a slot.
func (m *Map[K, V]) KeyExists(key K) bool {
	_, ok := m.keys[key]
	return ok
}

// HashExists reports whether any slot currently holds an item with digest.
func (m *Map[K, V]) HashExists(digest string) bool {
	_, ok := m.hashes[digest]
	return ok
}

// KeysExists returns the keys that are bound, preserving input order.
// The result is empty, never nil, when none are.
func (m *Map[K, V]) KeysExists(keys []K) []K {
	existing := make([]K, 0, len(keys))
	for _, key := range keys {
		if m.KeyExists(key) {
			existing = append(existing, key)
		}
	}
	return existing
}

// IndexOfKey returns the slot index key is bound to.
func (m *Map[K, V]) IndexOfKey(key K) (int, bool) {
	index, ok := m.keys[key]
	return index, ok
}

// IndexOfHash returns the lowest slot index whose item digests to digest.
func (m *Map[K, V]) IndexOfHash(digest string) (int, bool) {
	holders, ok := m.hashes[digest]
	if !ok {
		return 0, false
	}
	return holders[0], true
}

// DigestAt returns the digest registered for a slot. False when the index is
// out of range or the Map has no hasher.
func (m *Map[K, V]) DigestAt(index int) (string, bool) {
	if m.hasher == nil || index < 0 || index >= len(m.items) {
		return "", false
	}
	return m.items[index].digest, true
}

// Lookup digests item and resolves it through the hash index, answering
// whether an equal item is already stored. Returns ErrNoHasher when the Map
// was built without one.
func (m *Map[K, V]) Lookup(item V) (int, bool, error) {
	if m.hasher == nil {
		return 0, false, ErrNoHasher
	}

	digest, err := m.digest(item)
	if err != nil {
		return 0, false, err
	}

	index, ok := m.IndexOfHash(digest)
	return index, ok, nil
}

// Len returns the number of slots ever appended.
func (m *Map[K, V]) Len() int {
	return len(m.items)
}

// Keys returns every bound key in ascending order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.keys))
	for key := range m.keys {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// KeysOf returns the keys bound to a slot in ascending order.
func (m *Map[K, V]) KeysOf(index int) []K {
	var keys []K
	for key, i := range m.keys {
		if i == index {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}
