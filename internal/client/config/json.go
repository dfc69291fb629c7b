package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/cfreminder/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Pointer fields distinguish
// "absent" from "zero" so only present keys override earlier sources.
type JsonConfig struct {
	APIBaseURL          *string         `json:"api_base_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	RetryAttempts       *uint64         `json:"retry_attempts"`
	RetryBackoff        *timex.Duration `json:"retry_backoff"`
	StatusTTL           *timex.Duration `json:"status_ttl"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DBPath              *string         `json:"db_path"`
	LogLevel            *string         `json:"log_level"`
	LogFile             *string         `json:"log_file"`
	DefaultTimezone     *string         `json:"default_timezone"`
	CFAPIKey            *string         `json:"cf_api_key"`
	CFAPISecret         *string         `json:"cf_api_secret"`
}

// parseJson overlays cfg with values loaded from the JSON file at path.
// An empty path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.DefaultTimezone, jc.DefaultTimezone)
	setString(&cfg.CFAPIKey, jc.CFAPIKey)
	setString(&cfg.CFAPISecret, jc.CFAPISecret)

	if jc.RetryAttempts != nil {
		cfg.RetryAttempts = *jc.RetryAttempts
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RetryBackoff != nil {
		cfg.RetryBackoff = jc.RetryBackoff.Duration
	}
	if jc.StatusTTL != nil {
		cfg.StatusTTL = jc.StatusTTL.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
