package ccl

import (
	"os"

	"github.com/BurntSushi/toml"
)

// AllocatorKind selects which Allocator Config wires up as the process
// default.
type AllocatorKind string

const (
	// AllocatorRuntime routes allocations through Go's runtime allocator.
	AllocatorRuntime AllocatorKind = "runtime"
	// AllocatorDebug wraps AllocatorRuntime with red-zone guard checking.
	AllocatorDebug AllocatorKind = "debug"
)

// Config gathers the process-wide tunables a deployment typically wants to
// set once at startup: allocator choice, dictionary tuning, and pool sizing.
type Config struct {
	Allocator struct {
		Kind AllocatorKind `toml:"kind"`
	} `toml:"allocator"`

	Dictionary struct {
		InitialBuckets int    `toml:"initial_buckets"`
		HashAlgorithm  string `toml:"hash_algorithm"` // "accumulator" or "xxhash"
	} `toml:"dictionary"`

	Pool struct {
		MaxFreeIndex int `toml:"max_free_index"`
	} `toml:"pool"`
}

// DefaultConfig returns sane defaults usable without reading any file.
func DefaultConfig() *Config {
	c := &Config{}
	c.Allocator.Kind = AllocatorRuntime
	c.Dictionary.InitialBuckets = 509
	c.Dictionary.HashAlgorithm = "accumulator"
	c.Pool.MaxFreeIndex = maxFreeIndex
	return c
}

// LoadConfig reads and parses a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, reportError(nil, "LoadConfig", FileOpen, err)
	}
	defer f.Close()

	c := DefaultConfig()
	if _, err := toml.NewDecoder(f).Decode(c); err != nil {
		return nil, reportError(nil, "LoadConfig", FileRead, err)
	}
	return c, nil
}

// Apply installs c's allocator choice as the process-wide current allocator.
func (c *Config) Apply() {
	switch c.Allocator.Kind {
	case AllocatorDebug:
		SetCurrentAllocator(NewDebugAllocator(runtimeAllocator{}, 0))
	default:
		SetCurrentAllocator(runtimeAllocator{})
	}
}

// HashFunc resolves the configured dictionary hash algorithm.
func (c *Config) HashFunc() HashFunc {
	if c.Dictionary.HashAlgorithm == "xxhash" {
		return xxhashString
	}
	return defaultHash
}
