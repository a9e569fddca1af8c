package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable that overrides discovery.
const EnvConfig = "ARRFILL_CONFIG"

const systemPath = "/etc/arrfill/config.toml"

// ErrNotFound is returned by Discover when no candidate file exists.
var ErrNotFound = errors.New("no arrfill config found")

// DefaultPath is where 'arrfill init' writes: $XDG_CONFIG_HOME/arrfill, or
// ~/.config/arrfill without XDG.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "arrfill", "config.toml")
}

// SearchPaths lists the candidates Discover checks after ARRFILL_CONFIG:
// the working directory, then DefaultPath, then /etc/arrfill.
func SearchPaths() []string {
	return []string{"./config.toml", DefaultPath(), systemPath}
}

// Discover returns the config file the daemon should load. ARRFILL_CONFIG
// must name an existing file when set; otherwise the first existing entry
// of SearchPaths wins.
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, envPath, err)
		}
		return envPath, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (checked %s)", ErrNotFound, strings.Join(paths, ", "))
}
