package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	PlayerID  int64
	Token     string
	TokenFile string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	player, _ := strconv.ParseInt(os.Getenv("DKGAME_PLAYER"), 10, 64)
	return &Config{
		ServerURL: getEnvOrDefault("DKGAME_SERVER", "http://localhost:8080"),
		PlayerID:  player,
		Token:     os.Getenv("DKGAME_TOKEN"),
		TokenFile: getEnvOrDefault("DKGAME_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
	}
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dkgame/token"
	}
	return filepath.Join(home, ".dkgame", "token")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
