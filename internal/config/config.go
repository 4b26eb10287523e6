// Package config defines service configuration and its layered loading.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects "text" or "json" log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath is the sqlite database file. Empty keeps everything in memory.
	DBPath string `koanf:"db_path"`

	// SeedPath names a YAML seed file applied at startup.
	SeedPath string `koanf:"seed_path"`

	// RedisAddr enables the recruit read cache when set.
	RedisAddr string `koanf:"redis_addr"`

	// RecruitCacheTTLSeconds bounds how long cached recruits live.
	RecruitCacheTTLSeconds int `koanf:"recruit_cache_ttl_seconds"`

	// JWTSecret verifies bearer tokens. Empty disables sign-in.
	JWTSecret string `koanf:"jwt_secret"`

	// FanoutLimit caps concurrent per-recruit fetches.
	FanoutLimit int `koanf:"fanout_limit"`

	// ShutdownTimeoutSeconds bounds graceful HTTP shutdown.
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`

	// MetricsEnabled switches metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsRefreshSeconds is the system gauge refresh period.
	MetricsRefreshSeconds int `koanf:"metrics_refresh_seconds"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		RecruitCacheTTLSeconds: 60,
		FanoutLimit:            8,
		ShutdownTimeoutSeconds: 30,
		MetricsEnabled:         true,
		MetricsNamespace:       "wecruit",
		MetricsRefreshSeconds:  10,
	}
}

// RecruitCacheTTL returns RecruitCacheTTLSeconds as a duration.
func (c *Config) RecruitCacheTTL() time.Duration {
	return time.Duration(c.RecruitCacheTTLSeconds) * time.Second
}

// ShutdownTimeout returns ShutdownTimeoutSeconds as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// MetricsRefresh returns MetricsRefreshSeconds as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshSeconds) * time.Second
}
