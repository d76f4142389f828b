// Package config loads server settings from the environment
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting the server reads from the environment
type Config struct {
	// PrivilegedID is the player id that gets the privileged rule branch; 0 disables it
	PrivilegedID     int64         `env:"DKGAME_PRIVILEGED_ID"      envDefault:"0"`
	DataDir          string        `env:"DKGAME_DATA_DIR"           envDefault:"data"`
	// StrictLoad refuses to start when the snapshot backend cannot be read
	StrictLoad       bool          `env:"DKGAME_STRICT_LOAD"        envDefault:"false"`
	AutosaveInterval time.Duration `env:"DKGAME_AUTOSAVE_INTERVAL"  envDefault:"60s"`
	StorageType      string        `env:"STORAGE_TYPE"              envDefault:"file"`
	RedisURL         string        `env:"REDIS_URL"`
	SQLitePath       string        `env:"SQLITE_PATH"               envDefault:"data/dkgame.db"`
	Port             int           `env:"PORT"                      envDefault:"8080"`
	// GatewayTokenHash is a bcrypt hash; when empty the API accepts unauthenticated calls
	GatewayTokenHash string        `env:"GATEWAY_TOKEN_HASH"`
}

// Load parses the process environment
func Load() (Config, error) {
	return Parse(env.Options{})
}

// Parse parses with explicit options; tests pass Environment to avoid the real env
func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AutosaveInterval <= 0 {
		return Config{}, fmt.Errorf("DKGAME_AUTOSAVE_INTERVAL must be positive, got %s", cfg.AutosaveInterval)
	}
	if cfg.PrivilegedID < 0 {
		return Config{}, fmt.Errorf("DKGAME_PRIVILEGED_ID must not be negative")
	}
	return cfg, nil
}
