package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	cfg := Default()
	cfg.TVDB.APIKey = "tvdb-key"
	cfg.Sonarr = SonarrConfig{URL: "http://sonarr:8989", APIKey: "k"}
	cfg.Prowlarr = ProwlarrConfig{URL: "https://prowlarr.example.com", APIKey: "k"}
	cfg.QBittorrent = QBittorrentConfig{URL: "http://qbittorrent:8080"}
	return cfg
}

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidate_MinimalValid(t *testing.T) {
	errs := validTestConfig().Validate()
	assert.Empty(t, errs, "expected no errors for minimal valid config")
}

func TestValidate_Empty(t *testing.T) {
	errs := (&Config{}).Validate()
	for _, key := range []string{
		"server.port", "database.path", "scheduler.interval", "scheduler.retry_delay",
		"tvdb.api_key", "sonarr.url", "sonarr.api_key", "prowlarr.url", "prowlarr.api_key",
		"qbittorrent.url",
	} {
		assert.True(t, containsError(errs, key), "expected %s error, got %v", key, errs)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 99999 }, "server.port"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "verbose" }, "server.log_level"},
		{"negative log size", func(c *Config) { c.Log.MaxSizeMB = -1 }, "log.max_size_mb"},
		{"negative backups", func(c *Config) { c.Log.MaxBackups = -1 }, "log.max_backups"},
		{"short interval", func(c *Config) { c.Scheduler.Interval = 10 * time.Second }, "scheduler.interval"},
		{"zero retry delay", func(c *Config) { c.Scheduler.RetryDelay = 0 }, "scheduler.retry_delay"},
		{"bad language", func(c *Config) { c.TVDB.Language = "en" }, "tvdb.language"},
		{"sonarr scheme", func(c *Config) { c.Sonarr.URL = "ftp://sonarr" }, "sonarr.url"},
		{"prowlarr no host", func(c *Config) { c.Prowlarr.URL = "http://" }, "prowlarr.url"},
		{"qbittorrent garbage", func(c *Config) { c.QBittorrent.URL = "::not a url" }, "qbittorrent.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			errs := cfg.Validate()
			assert.Len(t, errs, 1, "errors: %v", errs)
			assert.True(t, containsError(errs, tt.want), "expected %s error, got %v", tt.want, errs)
		})
	}
}
