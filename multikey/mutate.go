package multikey

import (
	"fmt"
	"slices"
)

// Add stores item under keys. With overwrite set it behaves exactly like Set.
//
// Otherwise keys that are already bound keep their current item, and all the
// unbound keys of the call are bound to one newly appended slot holding item.
// When every key is already bound nothing changes. Returns ErrEmptyKeys when
// keys is empty, or the digest error when the configured hasher rejects item.
func (m *Map[K, V]) Add(keys []K, item V, overwrite bool) error {
	const source = "multikey.Map.Add"

	if overwrite {
		return m.set(source, keys, item)
	}
	if len(keys) == 0 {
		return m.reject(source, ErrEmptyKeys)
	}

	unbound := m.unbound(keys)
	if len(unbound) == 0 {
		return nil
	}

	digest, err := m.digest(item)
	if err != nil {
		return m.reject(source, err)
	}

	m.appendSlot(source, unbound, item, digest)
	return nil
}

// Set stores item under keys, replacing what bound keys point to.
//
// Each bound key has the item at its slot replaced in place. The slot index is
// kept and every other key bound to that slot sees the new item. Keys bound to
// different slots update those slots independently. All unbound keys of the
// call share one newly appended slot.
func (m *Map[K, V]) Set(keys []K, item V) error {
	return m.set("multikey.Map.Set", keys, item)
}

// SetOne is Set for a single key.
func (m *Map[K, V]) SetOne(key K, item V) error {
	return m.set("multikey.Map.SetOne", []K{key}, item)
}

func (m *Map[K, V]) set(source string, keys []K, item V) error {
	if len(keys) == 0 {
		return m.reject(source, ErrEmptyKeys)
	}

	digest, err := m.digest(item)
	if err != nil {
		return m.reject(source, err)
	}

	updated := make(map[int]struct{}, len(keys))
	for _, key := range keys {
		index, ok := m.keys[key]
		if !ok {
			continue
		}
		if _, done := updated[index]; done {
			continue
		}
		updated[index] = struct{}{}
		m.overwriteSlot(source, index, item, digest)
	}

	if unbound := m.unbound(keys); len(unbound) > 0 {
		m.appendSlot(source, unbound, item, digest)
	}
	return nil
}

// unbound returns the distinct keys with no binding, in input order.
func (m *Map[K, V]) unbound(keys []K) []K {
	var out []K
	seen := make(map[K]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := m.keys[key]; ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func (m *Map[K, V]) digest(item V) (string, error) {
	if m.hasher == nil {
		return "", nil
	}

	d, err := m.hasher.Digest(item)
	if err != nil {
		return "", fmt.Errorf("digest item: %w", err)
	}
	if d == "" {
		return "", ErrEmptyDigest
	}
	return d, nil
}

func (m *Map[K, V]) appendSlot(source string, keys []K, item V, digest string) int {
	index := len(m.items)
	m.items = append(m.items, slot[V]{item: item, digest: digest})
	for _, key := range keys {
		m.keys[key] = index
	}

	m.verbose(EventSlotAppend, source, map[string]any{
		"index": index,
		"keys":  len(keys),
	})

	m.register(source, index, digest)
	return index
}

func (m *Map[K, V]) overwriteSlot(source string, index int, item V, digest string) {
	previous := m.items[index].digest
	m.items[index] = slot[V]{item: item, digest: digest}

	m.verbose(EventSlotOverwrite, source, map[string]any{"index": index})

	if previous != digest {
		m.release(source, index, previous)
		m.register(source, index, digest)
	}
}

// register adds index to the sorted holder list of digest.
func (m *Map[K, V]) register(source string, index int, digest string) {
	if m.hasher == nil {
		return
	}

	holders := m.hashes[digest]
	pos, found := slices.BinarySearch(holders, index)
	if found {
		return
	}
	m.hashes[digest] = slices.Insert(holders, pos, index)

	m.verbose(EventHashRegister, source, map[string]any{
		"index":  index,
		"digest": digest,
		"owner":  pos == 0,
	})
}

func (m *Map[K, V]) release(source string, index int, digest string) {
	if m.hasher == nil {
		return
	}

	holders := m.hashes[digest]
	pos, found := slices.BinarySearch(holders, index)
	if !found {
		return
	}

	holders = slices.Delete(holders, pos, pos+1)
	if len(holders) == 0 {
		delete(m.hashes, digest)
	} else {
		m.hashes[digest] = holders
	}

	m.verbose(EventHashRelease, source, map[string]any{
		"index":  index,
		"digest": digest,
	})
}
