// Package multikey provides Map, an associative container that stores each
// value once and makes it reachable through any number of keys, plus an
// optional content-digest index for lookup by fingerprint.
//
// Values live in an append-only arena of slots addressed by a stable integer
// index. A key index maps keys to slots and a hash index maps digests to slots.
// Slots are never removed or reused.
//
//	m := multikey.New[string, User](multikey.WithHasher(hashing.New()))
//	err := m.Add([]string{"alice", "alice@example.com"}, alice, false)
//	u, ok := m.Get("alice@example.com")
//
// A Map is not safe for concurrent use; wrap it in Synchronized when several
// goroutines share it.
package multikey

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/multikey/hashing"
	"github.com/tailored-agentic-units/multikey/observability"
)

// Key is the set of types usable as map keys: strings and integers, used as
// given with no normalization.
type Key interface {
	~string |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Digester produces a content digest for a value. *hashing.Hasher satisfies it.
type Digester interface {
	Digest(value any) (string, error)
}

type slot[V any] struct {
	item   V
	digest string
}

// Map stores items in slots reachable by key and, when a Digester is
// configured, by content digest.
type Map[K Key, V any] struct {
	items    []slot[V]
	keys     map[K]int
	hashes   map[string][]int
	hasher   Digester
	observer observability.Observer
}

type options struct {
	hasher   Digester
	observer observability.Observer
	capacity int
}

// Option configures a Map during New.
type Option func(*options)

// WithHasher enables the hash index. Every item written by Add, Set or SetOne
// is digested and registered under its digest.
func WithHasher(h Digester) Option {
	return func(o *options) { o.hasher = h }
}

// WithObserver sets the observer that receives slot and hash events.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithCapacity preallocates room for n slots and keys.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// New creates an empty Map. Without WithHasher the hash index stays empty.
func New[K Key, V any](opts ...Option) *Map[K, V] {
	o := options{observer: observability.NoOpObserver{}}
	for _, opt := range opts {
		opt(&o)
	}

	return &Map[K, V]{
		items:    make([]slot[V], 0, o.capacity),
		keys:     make(map[K]int, o.capacity),
		hashes:   make(map[string][]int),
		hasher:   o.hasher,
		observer: o.observer,
	}
}

// NewFromConfig creates a Map from configuration. The observer is resolved by
// name from the observability registry, and a Hasher is built only when
// RegisterHashes is set. Options are applied after the config and win.
func NewFromConfig[K Key, V any](cfg *Config, opts ...Option) (*Map[K, V], error) {
	obs, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	base := []Option{WithObserver(obs), WithCapacity(cfg.Capacity)}

	if cfg.RegisterHashes {
		h, err := hashing.NewFromConfig(&cfg.Hashing)
		if err != nil {
			return nil, fmt.Errorf("failed to create hasher: %w", err)
		}
		base = append(base, WithHasher(h))
	}

	return New[K, V](append(base, opts...)...), nil
}

// Hashed reports whether the Map maintains a hash index.
func (m *Map[K, V]) Hashed() bool {
	return m.hasher != nil
}

func (m *Map[K, V]) emit(event observability.Event) {
	m.observer.OnEvent(context.Background(), event)
}
