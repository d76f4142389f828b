package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/mcoot/demonkingdom/internal/autosave"
	"github.com/mcoot/demonkingdom/internal/dependencies/clock"
	"github.com/mcoot/demonkingdom/internal/dependencies/random"
	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/auth"
	"github.com/mcoot/demonkingdom/internal/services/battle"
	"github.com/mcoot/demonkingdom/internal/services/kingdom"
	"github.com/mcoot/demonkingdom/internal/services/progression"
	"github.com/mcoot/demonkingdom/internal/services/registry"
	"github.com/mcoot/demonkingdom/internal/services/transfer"
	"github.com/mcoot/demonkingdom/internal/storage"
	filestorage "github.com/mcoot/demonkingdom/internal/storage/file"
	"github.com/mcoot/demonkingdom/internal/storage/memory"
	redisstorage "github.com/mcoot/demonkingdom/internal/storage/redis"
	sqlitestorage "github.com/mcoot/demonkingdom/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeFile   = "file"
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Engine            *progression.Engine
	Store             *registry.Store
	BattleResolver    *battle.Resolver
	TransferService   *transfer.Service
	KingdomController *kingdom.Controller
	AuthService       *auth.Service
	Scheduler         *autosave.Scheduler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the snapshot backend ("file", "memory", "redis" or "sqlite")
	// If empty, defaults to "file"
	StorageType string
	// DataDir is where the file backend keeps its snapshots
	DataDir string
	// Fs is the filesystem for the file backend (optional, defaults to the OS filesystem)
	Fs afero.Fs
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// PrivilegedID selects the privileged player; 0 disables the privileged branch
	PrivilegedID model.PlayerID
	// StrictLoad makes Store.Load fail when the backend cannot be read
	StrictLoad bool
	// AutosaveInterval is the period between background saves
	AutosaveInterval time.Duration
	// AuthConfig holds the gateway token settings
	AuthConfig auth.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	store, err := newStorage(cfg, clk)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clk, rnd, cfg, logger), nil
}

func newStorage(cfg Config, clk clock.Clock) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeFile
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeFile:
		fs := cfg.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		dir := cfg.DataDir
		if dir == "" {
			dir = "data"
		}
		return filestorage.NewWithFs(fs, dir)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlitestorage.Open(cfg.SQLitePath, clk)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'file', 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(st storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	engine := progression.New()
	store := registry.New(st, engine, cfg.PrivilegedID, logger)
	store.SetStrictLoad(cfg.StrictLoad)
	battleResolver := battle.New(store, engine, rnd, logger)
	transferService := transfer.New(store, logger)
	kingdomController := kingdom.NewController(store, engine, logger)
	authService := auth.New(clk, cfg.AuthConfig, logger)
	scheduler := autosave.New(store, cfg.AutosaveInterval, clk, logger)

	return &App{
		Storage:           st,
		Clock:             clk,
		Random:            rnd,
		Engine:            engine,
		Store:             store,
		BattleResolver:    battleResolver,
		TransferService:   transferService,
		KingdomController: kingdomController,
		AuthService:       authService,
		Scheduler:         scheduler,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
