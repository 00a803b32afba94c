package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the CLI configuration, loaded from a TOML file.
// All fields have working defaults; a missing config file is not an error.
type Config struct {
	Server ServerConfig `toml:"server"`
	Mongo  MongoConfig  `toml:"mongo"`
	Redis  RedisConfig  `toml:"redis"`
	Cache  CacheConfig  `toml:"cache"`
	Branch BranchConfig `toml:"branch"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address for `storyloom serve`.
	Addr string `toml:"addr"`
}

// MongoConfig configures story persistence. An empty URI selects the
// in-memory store.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// RedisConfig configures the shared layout cache. An empty Addr selects
// the file cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CacheConfig configures the local file cache.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// BranchConfig configures the branch collaborator.
type BranchConfig struct {
	// ServiceURL points branch operations at a remote API. Empty means
	// branches are managed in-process.
	ServiceURL string `toml:"service_url"`

	// RootID names the mainline branch.
	RootID string `toml:"root_id"`

	// RootLabel is the display label of the mainline branch.
	RootLabel string `toml:"root_label"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Mongo:  MongoConfig{Database: appName},
		Branch: BranchConfig{RootID: "main", RootLabel: "Mainline"},
	}
}

// LoadConfig reads the TOML config at path. An empty path falls back to
// the default location (~/.config/storyloom/config.toml); a missing file
// at the default location yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// configDir returns the config directory using XDG standard
// (~/.config/storyloom/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
