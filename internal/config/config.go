// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
	Database    DatabaseConfig    `toml:"database"`
	Scheduler   SchedulerConfig   `toml:"scheduler"`
	TVDB        TVDBConfig        `toml:"tvdb"`
	Sonarr      SonarrConfig      `toml:"sonarr"`
	Prowlarr    ProwlarrConfig    `toml:"prowlarr"`
	QBittorrent QBittorrentConfig `toml:"qbittorrent"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// LogConfig configures the optional rotated JSON log file.
type LogConfig struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SchedulerConfig controls the periodic full sync.
type SchedulerConfig struct {
	Enabled    bool          `toml:"enabled"`
	Interval   time.Duration `toml:"interval"`
	RetryDelay time.Duration `toml:"retry_delay"` // re-run delay after failed exports
}

type TVDBConfig struct {
	APIKey   string `toml:"api_key"`
	Language string `toml:"language"`
}

type SonarrConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

type ProwlarrConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

type QBittorrentConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	SavePath string `toml:"save_path"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Host: "0.0.0.0", Port: 8585, LogLevel: "info"},
		Log:       LogConfig{MaxSizeMB: 10, MaxBackups: 3},
		Database:  DatabaseConfig{Path: "./data/arrfill.db"},
		Scheduler: SchedulerConfig{Enabled: true, Interval: time.Hour, RetryDelay: 5 * time.Minute},
		TVDB:      TVDBConfig{Language: "eng"},
	}
}

// Load reads and parses the configuration file. Unset keys keep their
// defaults. Unresolved ${VAR} references and validation failures are
// reported together as a *ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	cfg := Default()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// Full-line comments are left as written. Unset variables are left in place
// and returned sorted by name, each with the first key that references it.
func substituteEnvVars(content string) (string, []MissingVar) {
	var missing []MissingVar
	section := ""
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			continue
		case strings.HasPrefix(trimmed, "["):
			section, _, _ = strings.Cut(strings.TrimLeft(trimmed, "["), "]")
			section = strings.TrimSpace(section)
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			name := match[2 : len(match)-1]
			if value, ok := os.LookupEnv(name); ok {
				return value
			}
			if !slices.ContainsFunc(missing, func(m MissingVar) bool { return m.Name == name }) {
				missing = append(missing, MissingVar{Name: name, Key: lineKey(section, line)})
			}
			return match
		})
	}
	slices.SortFunc(missing, func(a, b MissingVar) int { return strings.Compare(a.Name, b.Name) })
	return strings.Join(lines, "\n"), missing
}

func lineKey(section, line string) string {
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return ""
	}
	key = strings.TrimSpace(key)
	if section == "" {
		return key
	}
	return section + "." + key
}
