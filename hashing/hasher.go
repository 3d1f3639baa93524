// Package hashing derives fixed-length content digests from arbitrary Go values.
// It is the fingerprint source for the multikey hash index.
//
// Values are encoded before hashing according to their shape:
//
//   - []byte and string are hashed as raw bytes.
//   - proto.Message values use deterministic protobuf binary encoding.
//   - Pointers, channels and unsafe pointers are opaque identities and hash
//     to a token built from the Hasher's session ID and the value's address.
//   - Everything else is walked with reflect into a type-tagged canonical
//     form. Every struct field counts, exported or not, map entries are
//     sorted, and types implementing json.Marshaler contribute their own
//     JSON. Functions and NaN have no canonical form and are rejected.
//
// Identity tokens are stable for the lifetime of the referenced value within
// one Hasher, and are never stable across processes.
package hashing

import (
	"encoding/hex"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
)

// Hasher computes digests with a default algorithm chosen at construction.
// A Hasher is immutable after New returns and is safe for concurrent use.
type Hasher struct {
	algorithm  Algorithm
	algorithms map[Algorithm]Constructor
	session    string
}

// Option configures a Hasher during New.
type Option func(*Hasher)

// WithAlgorithm sets the default algorithm used by Digest and DigestObject.
// An unregistered algorithm is reported on first use.
func WithAlgorithm(alg Algorithm) Option {
	return func(h *Hasher) {
		if alg != "" {
			h.algorithm = alg
		}
	}
}

// WithRegisteredAlgorithm makes an additional algorithm available to this
// Hasher, or replaces a built-in one.
func WithRegisteredAlgorithm(alg Algorithm, ctor Constructor) Option {
	return func(h *Hasher) {
		if alg != "" && ctor != nil {
			h.algorithms[alg] = ctor
		}
	}
}

// New creates a Hasher using DefaultAlgorithm unless overridden. Each Hasher
// gets a fresh UUIDv7 session ID that scopes its identity tokens.
func New(opts ...Option) *Hasher {
	h := &Hasher{
		algorithm:  DefaultAlgorithm,
		algorithms: builtinAlgorithms(),
		session:    uuid.Must(uuid.NewV7()).String(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Algorithm returns the default algorithm.
func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// Session returns the identifier that scopes identity tokens.
func (h *Hasher) Session() string {
	return h.session
}

// Supports reports whether alg is registered.
func (h *Hasher) Supports(alg Algorithm) bool {
	_, ok := h.algorithms[alg]
	return ok
}

// Digest hashes value with the default algorithm.
func (h *Hasher) Digest(value any) (string, error) {
	return h.DigestWith(value, h.algorithm)
}

// DigestWith hashes value with the given algorithm. Returns
// ErrUnsupportedAlgorithm for unregistered algorithms and ErrUnhashable when
// the value has no canonical encoding.
func (h *Hasher) DigestWith(value any, alg Algorithm) (string, error) {
	ctor, err := h.constructor(alg)
	if err != nil {
		return "", err
	}

	data, err := h.encode(value)
	if err != nil {
		return "", err
	}

	return sum(ctor, data), nil
}

// DigestObject hashes the identity of an object-like value (pointer, channel
// or unsafe pointer) with the default algorithm. Any other value, including a
// nil pointer, yields ErrNotObject.
func (h *Hasher) DigestObject(value any) (string, error) {
	return h.DigestObjectWith(value, h.algorithm)
}

// DigestObjectWith is DigestObject with an explicit algorithm.
func (h *Hasher) DigestObjectWith(value any, alg Algorithm) (string, error) {
	ctor, err := h.constructor(alg)
	if err != nil {
		return "", err
	}

	rv := reflect.ValueOf(value)
	if !isObject(rv) || rv.IsNil() {
		return "", fmt.Errorf("%w: %T given", ErrNotObject, value)
	}

	return sum(ctor, []byte(h.identity(rv))), nil
}

func (h *Hasher) constructor(alg Algorithm) (Constructor, error) {
	ctor, ok := h.algorithms[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	return ctor, nil
}

func (h *Hasher) encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return []byte("null"), nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case proto.Message:
		data, err := proto.MarshalOptions{Deterministic: true}.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnhashable, err)
		}
		return data, nil
	}

	rv := reflect.ValueOf(value)
	if isObject(rv) {
		if rv.IsNil() {
			return []byte("null"), nil
		}
		return []byte(h.identity(rv)), nil
	}

	return h.canonicalize(rv, 0)
}

// identity is only meaningful while the referenced value is alive. The Go
// collector does not move heap objects, so the address is stable until then.
func (h *Hasher) identity(rv reflect.Value) string {
	return fmt.Sprintf("%s:%s:%x", h.session, rv.Type(), rv.Pointer())
}

func isObject(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

func sum(ctor Constructor, data []byte) string {
	hh := ctor()
	hh.Write(data)
	return hex.EncodeToString(hh.Sum(nil))
}
