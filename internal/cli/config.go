package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/framespec/pkg/analysis"
)

// configFileName is the file looked up in the working directory.
const configFileName = "framespec.toml"

// Config holds the settings loaded from the TOML config file.
//
// Lookup order: ./framespec.toml, then $XDG_CONFIG_HOME/framespec/config.toml
// (~/.config/framespec/config.toml when XDG_CONFIG_HOME is unset). A missing
// file yields the defaults; a malformed file is an error.
//
// Precedence for the token is flag > FIGMA_TOKEN env > config file.
type Config struct {
	// Token is the personal access token. The FIGMA_TOKEN environment
	// variable and the --token flag both override it.
	Token string `toml:"token"`

	// OutputDir is where --all artifact sets and downloaded assets land
	// when no --output is given. Defaults to the working directory.
	OutputDir string `toml:"output_dir"`

	// Cache selects and configures the response cache backend.
	Cache CacheConfig `toml:"cache"`

	// Thresholds tune the analysis heuristics. Keys present in the file
	// override the calibrated defaults field by field.
	Thresholds analysis.Thresholds `toml:"thresholds"`
}

// CacheConfig selects the cache backend for CLI runs.
type CacheConfig struct {
	// Backend is one of "file" (default), "redis", "mongo", "null".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	// Redis connection settings, used when Backend is "redis".
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// Mongo connection settings, used when Backend is "mongo".
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// defaultConfig returns the configuration used when no file is found.
func defaultConfig() *Config {
	return &Config{
		Cache:      CacheConfig{Backend: "file"},
		Thresholds: analysis.DefaultThresholds(),
	}
}

// loadConfig reads the config file if one exists. The returned Config always
// has thresholds filled in, so callers can pass cfg.Thresholds directly.
func loadConfig() (*Config, error) {
	cfg := defaultConfig()

	path, ok := findConfigFile()
	if !ok {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validateBackend(cfg.Cache.Backend); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// findConfigFile returns the first config path that exists.
func findConfigFile() (string, bool) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, true
	}
	dir, err := configDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}

// configDir returns the config directory using the XDG standard
// (~/.config/framespec/).
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

func validateBackend(backend string) error {
	switch backend {
	case "", "file", "redis", "mongo", "null":
		return nil
	}
	return fmt.Errorf("unknown cache backend: %q (must be 'file', 'redis', 'mongo', or 'null')", backend)
}

// ResolveToken applies the token precedence: the --token flag wins, then the
// FIGMA_TOKEN environment variable, then the config file.
func (c *Config) ResolveToken(flagToken string) string {
	if flagToken != "" {
		return flagToken
	}
	if env := os.Getenv("FIGMA_TOKEN"); env != "" {
		return env
	}
	return c.Token
}
