package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the cfreminder CLI.
//
// Units: every interval is a time.Duration (e.g., 3*time.Second).
type Config struct {
	APIBaseURL          string        `envconfig:"API_BASE_URL"`
	RequestTimeout      time.Duration `envconfig:"REQUEST_TIMEOUT"`
	RetryAttempts       uint64        `envconfig:"RETRY_ATTEMPTS"`
	RetryBackoff        time.Duration `envconfig:"RETRY_BACKOFF"`
	StatusTTL           time.Duration `envconfig:"STATUS_TTL"`
	OnlineCheckInterval time.Duration `envconfig:"ONLINE_CHECK_INTERVAL"`
	DBPath              string        `envconfig:"DB_PATH"`
	LogLevel            string        `envconfig:"LOG_LEVEL"`
	LogFile             string        `envconfig:"LOG_FILE"`
	DefaultTimezone     string        `envconfig:"DEFAULT_TIMEZONE"`
	CFAPIKey            string        `envconfig:"CF_API_KEY"`
	CFAPISecret         string        `envconfig:"CF_API_SECRET"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 15 * time.Second
	c.RetryAttempts = 2
	c.RetryBackoff = 200 * time.Millisecond
	c.StatusTTL = 4 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DBPath = "cfreminder.db"
	c.LogLevel = "info"
	c.LogFile = "cfreminder.log"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.StatusTTL <= 0 {
		return errors.New("status ttl must be positive")
	}
	if (c.CFAPIKey == "") != (c.CFAPISecret == "") {
		return errors.New("both cf api key and cf api secret are required when supplying credentials")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment and from the JSON file at jsonPath (if non-empty). Later
// sources take precedence over earlier ones; command-line flags are applied
// by the caller on top (see Flags.Apply).
func LoadConfig(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, err
	}
	return cfg, nil
}
