// Package simconfig holds simulator-wide defaults and the overlay context
// (block height, timestamp, random seed) that the Context Builder merges into
// every VMContext.
package simconfig

import (
	"fmt"
	"os"
	"runtime"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/pelletier/go-toml"
)

var log = logger.GetOrCreate("simconfig")

// DefaultGas is the gas attached to a call when the caller does not specify one.
const DefaultGas uint64 = 300_000_000_000_000

// Config is the simulator-wide set of defaults and block overlay values.
type Config struct {
	DefaultGas     uint64 `toml:"default_gas"`
	BlockHeight    uint64 `toml:"block_height"`
	BlockTimestamp uint64 `toml:"block_timestamp"`
	RandomSeed     string `toml:"random_seed"`
}

// Default returns the built-in simulator configuration. It runs the platform
// check below; simulator.New runs the same check when given a non-nil
// Config, so the check fires on every public construction path.
func Default() *Config {
	AssertPOSIX()

	return &Config{
		DefaultGas: DefaultGas,
	}
}

// Load reads a TOML configuration file, falling back to Default() for any
// field left unset in the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading simulator config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing simulator config: %w", err)
	}

	log.Debug("loaded simulator config", "path", path)
	return cfg, nil
}

// AssertPOSIX terminates the process immediately with a diagnostic on
// non-POSIX hosts, per the simulator's platform contract.
func AssertPOSIX() {
	if runtime.GOOS == "windows" {
		log.Error("the contract simulator only supports POSIX hosts", "GOOS", runtime.GOOS)
		os.Exit(1)
	}
}
