package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultDatabasePath = "~/.local/share/lyra/library.db"
	defaultCoverDir     = "~/.cache/lyra/covers"
	defaultDebounce     = 500 * time.Millisecond
	defaultLogLevel     = "info"
)

// AppConfig holds application configuration
type AppConfig struct {
	databasePath string
	coverDir     string
	follow       bool
	debounce     time.Duration
	logLevel     string
	logFile      string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is read first; variables already set take precedence.
func Load() *AppConfig {
	// a missing .env is not an error
	_ = godotenv.Load()

	return &AppConfig{
		databasePath: expandPath(getEnv("LYRA_DB_PATH", defaultDatabasePath)),
		coverDir:     expandPath(getEnv("LYRA_COVER_DIR", defaultCoverDir)),
		follow:       getEnvBool("LYRA_FOLLOW_NOW_PLAYING", true),
		debounce:     getEnvDuration("LYRA_DEBOUNCE", defaultDebounce),
		logLevel:     getEnv("LYRA_LOG_LEVEL", defaultLogLevel),
		logFile:      expandPath(os.Getenv("LYRA_LOG_FILE")),
	}
}

// Log reports the loaded values
func (c *AppConfig) Log(logger *zap.Logger) {
	logger.Info("Configuration loaded",
		zap.String("database", c.databasePath),
		zap.String("covers", c.coverDir),
		zap.Bool("followNowPlaying", c.follow),
		zap.Duration("debounce", c.debounce),
		zap.String("logLevel", c.logLevel),
		zap.String("logFile", c.logFile))
}

// GetDatabasePath returns the SQLite database location
func (c *AppConfig) GetDatabasePath() string {
	return c.databasePath
}

// GetCoverDir returns the directory for extracted cover thumbnails
func (c *AppConfig) GetCoverDir() string {
	return c.coverDir
}

// FollowNowPlaying reports whether other players are followed over MPRIS
func (c *AppConfig) FollowNowPlaying() bool {
	return c.follow
}

// GetDebounce returns the quiet period before a now-playing change is applied
func (c *AppConfig) GetDebounce() time.Duration {
	return c.debounce
}

// GetLogLevel returns the minimum log level name
func (c *AppConfig) GetLogLevel() string {
	return c.logLevel
}

// GetLogFile returns the rotated log file path, empty for stdout only
func (c *AppConfig) GetLogFile() string {
	return c.logFile
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// expandPath expands environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if len(p) > 0 && p[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
