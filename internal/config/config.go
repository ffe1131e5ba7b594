// Package config handles the global configuration file and the on-disk
// layout of the application's data.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the global configuration stored in
// ~/.config/ethnos/config.yml.
type Config struct {
	APIBaseURL string `yaml:"api_base_url,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
	ExportDir  string `yaml:"export_dir,omitempty"`
	DataDir    string `yaml:"data_dir,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

const (
	// ConfigDirName is the directory name under XDG_CONFIG_HOME.
	ConfigDirName = "ethnos"
	// ConfigFileName is the config file name.
	ConfigFileName = "config.yml"
	// DBFileName is the SQLite database holding the personal list and
	// the durable caches.
	DBFileName = "ethnos.db"
)

// Path returns the global config file path. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/ethnos/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName, ConfigFileName)
}

// Load reads the global config, applies environment overrides, and fills
// defaults. A missing file is not an error.
func Load() (*Config, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if v := os.Getenv("ETHNOS_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("ETHNOS_API_KEY"); v != "" {
		cfg.APIKey = v
	}

	cfg.ExportDir = ExpandTilde(cfg.ExportDir)
	cfg.DataDir = ExpandTilde(cfg.DataDir)
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	return cfg, nil
}

// Save writes the config back to the global path, creating the directory
// when needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// DBPath returns the path of the SQLite database under the data
// directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFileName)
}

// defaultDataDir resolves XDG_DATA_HOME, falling back to
// ~/.local/share/ethnos.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ConfigDirName
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, ConfigDirName)
}

// ExpandTilde expands a leading "~/" to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
