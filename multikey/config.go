package multikey

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/tailored-agentic-units/multikey/hashing"
)

// Config holds Map initialization parameters.
type Config struct {
	Hashing        hashing.Config `json:"hashing"`
	RegisterHashes bool           `json:"register_hashes,omitempty"`
	Capacity       int            `json:"capacity,omitempty"`
	Observer       string         `json:"observer,omitempty"`
}

// DefaultConfig returns a Config with no hash index, the default digest
// algorithm, and the noop observer.
func DefaultConfig() Config {
	return Config{
		Hashing:  hashing.DefaultConfig(),
		Observer: "noop",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Hashing.Merge(&source.Hashing)

	if source.RegisterHashes {
		c.RegisterHashes = true
	}
	if source.Capacity > 0 {
		c.Capacity = source.Capacity
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the result. Comments and trailing commas are accepted.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(standardized, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
