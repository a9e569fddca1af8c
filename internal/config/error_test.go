package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError_Empty(t *testing.T) {
	e := &ConfigError{Path: "config.toml"}
	assert.False(t, e.HasErrors())
	assert.Empty(t, e.Error())
}

func TestConfigError_Format(t *testing.T) {
	e := &ConfigError{
		Path: "/etc/arrfill/config.toml",
		Missing: []MissingVar{
			{Name: "QBITTORRENT_PASSWORD", Key: "qbittorrent.password"},
			{Name: "STRAY"},
		},
		Errors: []string{"server.port: must be between 1 and 65535, got 0"},
	}
	assert.True(t, e.HasErrors())
	want := "invalid config /etc/arrfill/config.toml:\n" +
		"unset environment variables:\n" +
		"  - QBITTORRENT_PASSWORD (qbittorrent.password)\n" +
		"  - STRAY\n" +
		"validation failed:\n" +
		"  - server.port: must be between 1 and 65535, got 0"
	assert.Equal(t, want, e.Error())
}
