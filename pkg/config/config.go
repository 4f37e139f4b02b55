package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// PODFEED_CACHE_MAX_AGE for cache.max_age
const EnvPrefix = "PODFEED"

var (
	mu          sync.Mutex
	initialized bool
	initErr     error

	configFile = filepath.Clean("./config/settings.yaml")
	envFile    = ".env"
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return initErr
	}
	initialized = true
	initErr = load()
	return initErr
}

// IsInitialized reports whether Init has run
func IsInitialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return initialized
}

// Reset clears viper and allows Init to run again
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	viper.Reset()
	initialized = false
	initErr = nil
}

func load() error {
	// .env only fills variables that are not already set
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading env file %s: %w", envFile, err)
	}

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		// A missing file means defaults and env vars only
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetDuration("feed.timeout") <= 0 {
		return fmt.Errorf("invalid feed timeout: %s", viper.GetString("feed.timeout"))
	}

	if viper.GetInt64("feed.max_size") <= 0 {
		return fmt.Errorf("invalid feed max size: %d", viper.GetInt64("feed.max_size"))
	}

	// Negative max age behaves like zero, caching off
	if viper.GetDuration("cache.max_age") < 0 {
		log.Printf("[WARN] cache.max_age is negative, disk cache disabled")
		viper.Set("cache.max_age", time.Duration(0))
	}

	if viper.GetString("database.path") == "" {
		log.Printf("[WARN] no database path configured")
	}

	if viper.GetFloat64("rate_limiting.feeds_rps") <= 0 {
		viper.Set("rate_limiting.feeds_rps", 2.0)
	}
	if viper.GetInt("rate_limiting.feeds_burst") <= 0 {
		viper.Set("rate_limiting.feeds_burst", 5)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("invalid feed timeout: %s", c.Feed.Timeout)
	}

	if c.Feed.MaxSize <= 0 {
		return fmt.Errorf("invalid feed max size: %d", c.Feed.MaxSize)
	}

	if c.Cache.MaxAge < 0 {
		c.Cache.MaxAge = 0
	}

	if c.RateLimiting.FeedsRPS <= 0 {
		c.RateLimiting.FeedsRPS = 2
	}
	if c.RateLimiting.FeedsBurst <= 0 {
		c.RateLimiting.FeedsBurst = 5
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/podfeed.db")
	viper.SetDefault("database.verbose", false)

	// Feed defaults
	viper.SetDefault("feed.timeout", 20*time.Second)
	viper.SetDefault("feed.max_size", 20<<20)

	// Disk cache, off unless max_age is set
	viper.SetDefault("cache.dir", filepath.Join(os.TempDir(), "podfeed"))
	viper.SetDefault("cache.max_age", time.Duration(0))

	viper.SetDefault("logging.level", "info")

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.feeds_rps", 2.0)
	viper.SetDefault("rate_limiting.feeds_burst", 5)

	// CORS
	viper.SetDefault("security.cors_origins", []string{"*"})
}
