package auth

import (
	"crypto/sha256"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/demonkingdom/internal/dependencies/clock"
)

// Errors
var (
	ErrInvalidToken = errors.New("invalid gateway token")
)

// Config holds configuration for the gateway token check
type Config struct {
	// TokenHash is the bcrypt hash of the shared gateway token. Empty disables the check.
	TokenHash string
	// CacheDuration is how long a verified token skips the bcrypt comparison
	CacheDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		CacheDuration: 5 * time.Minute,
	}
}

// Service verifies the token the Dispatch Gateway presents on every call
type Service struct {
	clock  clock.Clock
	logger *slog.Logger

	tokenHash     []byte
	cacheDuration time.Duration

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]time.Time
}

// New creates a new AuthService
func New(clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.CacheDuration == 0 {
		cfg.CacheDuration = DefaultConfig().CacheDuration
	}
	return &Service{
		clock:         clock,
		logger:        logger,
		tokenHash:     []byte(cfg.TokenHash),
		cacheDuration: cfg.CacheDuration,
		verified:      make(map[[sha256.Size]byte]time.Time),
	}
}

// Enabled reports whether a token hash is configured
func (s *Service) Enabled() bool {
	return len(s.tokenHash) > 0
}

// Verify checks token against the configured hash. It always succeeds when
// the check is disabled.
func (s *Service) Verify(token string) error {
	if !s.Enabled() {
		return nil
	}
	if token == "" {
		return ErrInvalidToken
	}

	key := sha256.Sum256([]byte(token))
	now := s.clock.Now()

	s.mu.RLock()
	expires, ok := s.verified[key]
	s.mu.RUnlock()
	if ok && now.Before(expires) {
		return nil
	}

	if err := bcrypt.CompareHashAndPassword(s.tokenHash, []byte(token)); err != nil {
		s.logger.Warn("gateway token rejected")
		return ErrInvalidToken
	}

	s.mu.Lock()
	s.pruneExpired(now)
	s.verified[key] = now.Add(s.cacheDuration)
	s.mu.Unlock()
	return nil
}

// pruneExpired drops stale cache entries; callers hold s.mu
func (s *Service) pruneExpired(now time.Time) {
	for key, expires := range s.verified {
		if !now.Before(expires) {
			delete(s.verified, key)
		}
	}
}

// HashToken produces the value to put in GATEWAY_TOKEN_HASH
func HashToken(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
