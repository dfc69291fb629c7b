package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable, e.g. CFR_API_BASE_URL.
const EnvPrefix = "CFR"

// parseEnv overlays cfg with CFR_* environment variables. Unset variables
// leave the current value untouched.
func parseEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("env config: %w", err)
	}
	return nil
}
