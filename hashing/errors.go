package hashing

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the root of every error returned by this package.
var ErrInvalidArgument = errors.New("invalid argument")

// Sentinel errors for digest operations. Each wraps ErrInvalidArgument.
var (
	ErrUnsupportedAlgorithm = fmt.Errorf("%w: unsupported hash algorithm", ErrInvalidArgument)
	ErrNotObject            = fmt.Errorf("%w: value is not an object", ErrInvalidArgument)
	ErrUnhashable           = fmt.Errorf("%w: value cannot be canonically encoded", ErrInvalidArgument)
)
