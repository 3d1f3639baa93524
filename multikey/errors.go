package multikey

import (
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/multikey/hashing"
)

// ErrInvalidArgument is shared with the hashing package so a single
// errors.Is check covers rejected calls and propagated digest failures.
var ErrInvalidArgument = hashing.ErrInvalidArgument

// Sentinel errors for map operations.
var (
	ErrEmptyKeys   = fmt.Errorf("%w: empty key list", ErrInvalidArgument)
	ErrEmptyDigest = fmt.Errorf("%w: hasher returned an empty digest", ErrInvalidArgument)
	ErrNoHasher    = errors.New("map has no hasher")
)
