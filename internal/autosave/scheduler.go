// Package autosave periodically flushes player state and performs the final
// flush on shutdown.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/demonkingdom/internal/dependencies/clock"
)

// DefaultInterval is used when no interval is configured
const DefaultInterval = 60 * time.Second

// Saver persists the full state
type Saver interface {
	Save(ctx context.Context) error
}

type state int

const (
	stateIdle state = iota
	stateRunning
	stateShuttingDown
)

// Scheduler calls Save on a fixed interval until Shutdown
type Scheduler struct {
	saver    Saver
	interval time.Duration
	clock    clock.Clock
	logger   *slog.Logger

	mu       sync.Mutex
	state    state
	lastSave time.Time
	cancel   context.CancelFunc
	done     chan struct{}

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a Scheduler; a non-positive interval falls back to DefaultInterval
func New(saver Saver, interval time.Duration, clk clock.Clock, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		saver:    saver,
		interval: interval,
		clock:    clk,
		logger:   logger,
	}
}

// Start launches the autosave loop. It does nothing if the loop is already
// running or shutdown has begun.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateIdle {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state = stateRunning

	// the ticker exists before Start returns so clock-driven ticks are never missed
	go s.run(loopCtx, s.clock.NewTicker(s.interval), s.done)

	s.logger.Info("autosave started",
		slog.Duration("interval", s.interval),
	)
}

func (s *Scheduler) run(ctx context.Context, ticker clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			// a tick racing with cancellation must not save
			if ctx.Err() != nil {
				return
			}
			s.save(ctx, "autosave")
		}
	}
}

func (s *Scheduler) save(ctx context.Context, reason string) error {
	if err := s.saver.Save(ctx); err != nil {
		s.logger.Error("save failed",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.mu.Lock()
	s.lastSave = s.clock.Now()
	s.mu.Unlock()

	s.logger.Debug("state saved", slog.String("reason", reason))
	return nil
}

// Shutdown stops the loop, waits for an in-flight tick and performs one final
// save. Only the first call does any work; later calls return the same error.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.state = stateShuttingDown
		cancel, done := s.cancel, s.done
		s.mu.Unlock()

		if cancel != nil {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				s.logger.Warn("timed out waiting for autosave loop")
			}
		}

		// the final save must not be cut short by the caller's deadline
		s.shutdownErr = s.save(context.WithoutCancel(ctx), "shutdown")
		if s.shutdownErr == nil {
			s.logger.Info("final save complete")
		}
	})
	return s.shutdownErr
}

// LastSave returns the time of the most recent successful save, or the zero
// time if none has happened
func (s *Scheduler) LastSave() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSave
}
