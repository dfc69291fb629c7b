// Package config loads runtime configuration for the cfreminder CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with CFR_ (see parseEnv).
//  3. Optional JSON file selected via -c or --config (see parseJson).
//  4. Command-line flags (see Flags), which override earlier values.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000",
//	  "request_timeout": "15s",
//	  "retry_attempts": 2,
//	  "status_ttl": "4s",
//	  "db_path": "cfreminder.db"
//	}
//
// Primary API
//
//   - type Config                          : runtime settings
//   - func LoadConfig(path) (*Config, error) : defaults, env, then JSON
//   - func RegisterFlags(fs) *Flags          : flag overrides
//   - func (*Config) Validate() error        : rejects unusable settings
package config
