// Package cli implements the repertree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/repertree/repertree/pkg/buildinfo"
	"github.com/repertree/repertree/pkg/cache"
	"github.com/repertree/repertree/pkg/pipeline"
	"github.com/repertree/repertree/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "repertree"
)

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
	Config *Config

	out        io.Writer
	status     printer
	viper      *viper.Viper
	configPath string
}

// New creates a CLI that logs and prints status lines to w. Command output
// goes to stdout until [CLI.SetOutput] redirects it.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		status: printer{w: w},
		viper:  newViper(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (PGN, outlines, listings).
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Repertree turns opening repertoires into PGN study trees",
		Long:         `Repertree converts a chess opening repertoire, stored as a graph of positions, into a single PGN game whose variations cover every prepared line. Transpositions are written once and cut short everywhere else.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/repertree/config.yaml)")

	// Register all subcommands
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config once. Commands run without the root
// command (tests) load it lazily through config().
func (c *CLI) loadConfig() error {
	if c.Config != nil {
		return nil
	}
	cfg, err := loadConfig(c.viper, c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *CLI) config() *Config {
	if c.Config == nil {
		if err := c.loadConfig(); err != nil {
			c.Logger.Warn("ignoring config", "error", err)
			c.Config = defaultConfig()
		}
	}
	return c.Config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config()
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured repertoire store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg := c.config()
	switch cfg.Store.Backend {
	case backendFile:
		dir := cfg.Store.Dir
		if dir == "" {
			d, err := dataDir()
			if err != nil {
				return nil, fmt.Errorf("get data dir: %w", err)
			}
			dir = d
		}
		return store.NewFileStore(dir)
	case backendMongo:
		return store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.MongoDB, store.DefaultCollection)
	}
	return store.NewMemoryStore(), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// exportFlags are the header flags shared by export and serve.
type exportFlags struct {
	date, event, site, white, black string
	noCache, refresh                bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "PGN Date tag (YYYY.MM.DD, default ????.??.??)")
	cmd.Flags().StringVar(&f.event, "event", "", "PGN Event tag (default: repertoire name)")
	cmd.Flags().StringVar(&f.site, "site", "", "PGN Site tag")
	cmd.Flags().StringVar(&f.white, "white", "", "PGN White tag")
	cmd.Flags().StringVar(&f.black, "black", "", "PGN Black tag")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached exports")
}

// options merges flags over the configured defaults.
func (f *exportFlags) options(cfg *Config) pipeline.Options {
	opts := pipeline.Options{
		Date:    f.date,
		Event:   f.event,
		Site:    f.site,
		White:   f.white,
		Black:   f.black,
		Refresh: f.refresh,
	}
	if opts.Event == "" {
		opts.Event = cfg.PGN.Event
	}
	if opts.Site == "" {
		opts.Site = cfg.PGN.Site
	}
	return opts
}
