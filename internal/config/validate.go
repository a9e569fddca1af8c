package config

import (
	"fmt"
	"net/url"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}
	if c.Log.MaxSizeMB < 0 {
		errs = append(errs, fmt.Sprintf("log.max_size_mb: must not be negative, got %d", c.Log.MaxSizeMB))
	}
	if c.Log.MaxBackups < 0 {
		errs = append(errs, fmt.Sprintf("log.max_backups: must not be negative, got %d", c.Log.MaxBackups))
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}

	if c.Scheduler.Interval < time.Minute {
		errs = append(errs, fmt.Sprintf("scheduler.interval: must be at least 1m, got %s", c.Scheduler.Interval))
	}
	if c.Scheduler.RetryDelay <= 0 {
		errs = append(errs, fmt.Sprintf("scheduler.retry_delay: must be positive, got %s", c.Scheduler.RetryDelay))
	}

	if c.TVDB.APIKey == "" {
		errs = append(errs, "tvdb.api_key: required")
	}
	if len(c.TVDB.Language) != 3 {
		errs = append(errs, fmt.Sprintf("tvdb.language: must be a three-letter code, got %q", c.TVDB.Language))
	}

	errs = append(errs, validateService("sonarr", c.Sonarr.URL, c.Sonarr.APIKey)...)
	errs = append(errs, validateService("prowlarr", c.Prowlarr.URL, c.Prowlarr.APIKey)...)
	errs = append(errs, validateURL("qbittorrent.url", c.QBittorrent.URL)...)

	return errs
}

func validateService(section, rawURL, apiKey string) []string {
	errs := validateURL(section+".url", rawURL)
	if apiKey == "" {
		errs = append(errs, section+".api_key: required")
	}
	return errs
}

func validateURL(key, rawURL string) []string {
	if rawURL == "" {
		return []string{key + ": required"}
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return []string{fmt.Sprintf("%s: must be an http(s) URL, got %q", key, rawURL)}
	}
	return nil
}
