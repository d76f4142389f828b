package factory

import (
	"time"

	"github.com/mcoot/demonkingdom/internal/dependencies/mocks"
	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/storage/memory"
	"github.com/mcoot/demonkingdom/internal/testutil"
)

// TestPrivilegedID is the privileged player in apps built by NewTestApp
const TestPrivilegedID model.PlayerID = 999

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MemoryStorage *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(Config{})
}

// NewTestAppWithConfig is NewTestApp with auth and autosave settings taken from cfg.
// Storage is always in memory.
func NewTestAppWithConfig(cfg Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	if cfg.PrivilegedID == 0 {
		cfg.PrivilegedID = TestPrivilegedID
	}
	if cfg.AutosaveInterval == 0 {
		cfg.AutosaveInterval = time.Hour
	}

	app := newWithDependencies(store, mockClock, mockRandom, cfg, testutil.NopLogger())

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MemoryStorage: store,
	}
}
