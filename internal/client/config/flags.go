package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags binds command-line overrides to a flag set. Only flags the user
// actually set are applied, so defaults, env and JSON survive otherwise.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath      string
	apiBaseURL      string
	requestTimeout  time.Duration
	dbPath          string
	logLevel        string
	logFile         string
	defaultTimezone string
}

// RegisterFlags declares the supported flags on fs:
//
//	-c, --config string        path to a JSON config file
//	-a, --api string           base URL of the reminder backend
//	-t, --timeout duration     per-request timeout
//	    --db string            path to the local SQLite database
//	    --log-level string     debug|info|warn|error
//	    --log-file string      log destination
//	    --tz string            default timezone for contest listing
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to JSON config file")
	fs.StringVarP(&f.apiBaseURL, "api", "a", "", "base URL of the reminder backend")
	fs.DurationVarP(&f.requestTimeout, "timeout", "t", 0, "per-request timeout")
	fs.StringVar(&f.dbPath, "db", "", "path to the local database")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	fs.StringVar(&f.logFile, "log-file", "", "log file")
	fs.StringVar(&f.defaultTimezone, "tz", "", "default timezone for contest listing")
	return f
}

// Apply overlays explicitly set flags onto cfg.
func (f *Flags) Apply(cfg *Config) {
	if f.fs.Changed("api") {
		cfg.APIBaseURL = f.apiBaseURL
	}
	if f.fs.Changed("timeout") {
		cfg.RequestTimeout = f.requestTimeout
	}
	if f.fs.Changed("db") {
		cfg.DBPath = f.dbPath
	}
	if f.fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if f.fs.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if f.fs.Changed("tz") {
		cfg.DefaultTimezone = f.defaultTimezone
	}
}
