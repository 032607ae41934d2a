package config

import (
	"strconv"
	"time"
)

// Environment variables that override file configuration.
const (
	EnvHome          = "HEALTHTRACK_HOME"
	EnvLogLevel      = "HEALTHTRACK_LOG_LEVEL"
	EnvLogFormat     = "HEALTHTRACK_LOG_FORMAT"
	EnvIndicatorURL  = "HEALTHTRACK_INDICATOR_URL"
	EnvCountriesURL  = "HEALTHTRACK_COUNTRIES_URL"
	EnvCachePath     = "HEALTHTRACK_CACHE_PATH"
	EnvServerAddr    = "HEALTHTRACK_SERVER_ADDR"
	EnvIndicatorWait = "HEALTHTRACK_INDICATOR_TIMEOUT"
)

// ApplyEnvOverrides copies any set environment variables onto cfg.
// lookupEnv is injected for testability (os.LookupEnv in production).
// Unparseable durations are ignored.
func ApplyEnvOverrides(cfg *Config, lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		cfg.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvIndicatorURL); ok && v != "" {
		cfg.Sources.Indicator.BaseURL = v
	}
	if v, ok := lookupEnv(EnvCountriesURL); ok && v != "" {
		cfg.Sources.Countries.BaseURL = v
	}
	if v, ok := lookupEnv(EnvCachePath); ok && v != "" {
		cfg.Cache.Path = v
	}
	if v, ok := lookupEnv(EnvServerAddr); ok && v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := lookupEnv(EnvIndicatorWait); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sources.Indicator.Timeout = d
		} else if secs, atoiErr := strconv.Atoi(v); atoiErr == nil {
			cfg.Sources.Indicator.Timeout = time.Duration(secs) * time.Second
		}
	}
}
