// Package cli implements the framespec command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/framespec/pkg/buildinfo"
	"github.com/matzehuels/framespec/pkg/cache"
	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "framespec"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfgOnce sync.Once
	cfg     *Config
	cfgErr  error
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "framespec",
		Short:        "Framespec compiles design files into agent-ready artifacts",
		Long:         `Framespec is a CLI tool that compiles Figma files and frames into deterministic text artifacts a coding agent can implement from: a design spec, design tokens, a content inventory, and an implementation plan.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.compileCommand())
	root.AddCommand(c.tokensCommand())
	root.AddCommand(c.contentCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.authCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the TOML config once and caches the result for all commands.
func (c *CLI) config() (*Config, error) {
	c.cfgOnce.Do(func() {
		c.cfg, c.cfgErr = loadConfig()
	})
	return c.cfg, c.cfgErr
}

// resolveToken returns the access token for API commands, honoring the
// flag > FIGMA_TOKEN > config file precedence.
func (c *CLI) resolveToken(flagToken string) (string, error) {
	cfg, err := c.config()
	if err != nil {
		return "", err
	}
	token := cfg.ResolveToken(flagToken)
	if token == "" {
		return "", errors.New(errors.ErrCodeUnauthorized, "no access token configured").
			WithRemediation("set FIGMA_TOKEN, pass --token, or add token to framespec.toml")
	}
	return token, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use, backed by the configured
// cache. The context is only used to establish redis/mongo connections.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	switch cfg.Cache.Backend {
	case "null":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	case "mongo":
		return cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        cfg.Cache.MongoURI,
			Database:   cfg.Cache.MongoDatabase,
			Collection: cfg.Cache.MongoCollection,
		})
	default:
		dir, err := c.cacheFileDir()
		if err != nil {
			// No usable directory just means no caching.
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheFileDir returns the directory for the file cache backend, honoring
// the config override before the XDG default.
func (c *CLI) cacheFileDir() (string, error) {
	if cfg, err := c.config(); err == nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/framespec/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
