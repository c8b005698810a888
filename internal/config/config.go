package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvOpponentDelayMS = "CRAZY8_OPPONENT_DELAY_MS"
	EnvSeed            = "CRAZY8_SEED"
	EnvLogLevel        = "CRAZY8_LOG_LEVEL"
	EnvListenAddr      = "CRAZY8_LISTEN_ADDR"
)

type Config struct {
	// OpponentDelay is how long the computer waits before acting so the human
	// can see the previous play. Zero runs the opponent immediately.
	OpponentDelay time.Duration
	// Seed for the game RNG. Zero seeds from the clock.
	Seed       uint64
	LogLevel   string
	ListenAddr string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		OpponentDelay: 1500 * time.Millisecond,
		LogLevel:      "info",
		ListenAddr:    ":8080",
	}
}

// Load reads an optional dotenv file and then the process environment.
// Variables already set in the environment win over the file. A missing file
// is not an error; an empty path skips the file.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, falling back to Default for anything
// unset.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvOpponentDelayMS); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return Config{}, fmt.Errorf("invalid %s %q: want a non-negative integer", EnvOpponentDelayMS, v)
		}
		cfg.OpponentDelay = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
		cfg.Seed = seed
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvListenAddr); ok && v != "" {
		cfg.ListenAddr = v
	}
	return cfg, nil
}

// SeedOrClock returns Seed, or the current time when Seed is zero.
func (c Config) SeedOrClock() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}
