package hashing

import (
	"crypto/sha1"
	"crypto/sha256"
	"hash"

	"github.com/cespare/xxhash/v2"
)

// Algorithm selects the digest function used by a Hasher.
type Algorithm string

// Built-in algorithms. Every Hasher starts with these registered.
const (
	SHA1     Algorithm = "sha1"
	SHA256   Algorithm = "sha256"
	XXHash64 Algorithm = "xxhash64"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = SHA1

// Constructor builds a fresh hash.Hash for a single digest.
type Constructor func() hash.Hash

func builtinAlgorithms() map[Algorithm]Constructor {
	return map[Algorithm]Constructor{
		SHA1:     sha1.New,
		SHA256:   sha256.New,
		XXHash64: func() hash.Hash { return xxhash.New() },
	}
}
