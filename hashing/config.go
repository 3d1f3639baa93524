package hashing

import "fmt"

// Config holds Hasher initialization parameters.
type Config struct {
	Algorithm string `json:"algorithm,omitempty"`
}

// DefaultConfig returns the default hashing configuration (sha1).
func DefaultConfig() Config {
	return Config{Algorithm: string(DefaultAlgorithm)}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Algorithm != "" {
		c.Algorithm = source.Algorithm
	}
}

// NewFromConfig creates a Hasher from configuration. Unlike New, an
// unregistered algorithm fails here rather than on first use.
func NewFromConfig(cfg *Config, opts ...Option) (*Hasher, error) {
	h := New(append([]Option{WithAlgorithm(Algorithm(cfg.Algorithm))}, opts...)...)
	if !h.Supports(h.algorithm) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, h.algorithm)
	}
	return h, nil
}
