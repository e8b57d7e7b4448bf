package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/plumehq/plume"
)

var (
	verbose bool
	dataDir string
)

// fileConfig is the optional YAML config, looked up at $PLUME_CONFIG or
// ~/.config/plume/config.yaml. Flags win over config values.
type fileConfig struct {
	DataDir       string `yaml:"data_dir"`
	FlushInterval string `yaml:"flush_interval"`
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plume",
	Short: "A local-first data layer for notes, tasks, and notebooks",
	Long: `Plume keeps your notes, tasks, and notebooks in durable JSON snapshots
under a local data directory. Every mutation is written through immediately;
a fresh start rehydrates exactly what the last session left behind.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory (default from config or ~/.plume)")
}

func loadConfig() fileConfig {
	path := os.Getenv("PLUME_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fileConfig{}
		}
		path = filepath.Join(home, ".config", "plume", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		slog.Warn("ignoring malformed config", "path", path, "error", err)
		return fileConfig{}
	}
	return cfg
}

// openApp resolves the data directory (flag > config > ~/.plume) and builds
// the registry.
func openApp() *plume.App {
	cfg := loadConfig()

	dir := dataDir
	if dir == "" {
		dir = cfg.DataDir
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fatal("Failed to resolve home directory", err)
		}
		dir = filepath.Join(home, ".plume")
	}

	opts := []plume.Option{plume.WithLogger(slog.Default())}
	if cfg.FlushInterval != "" {
		if d, err := time.ParseDuration(cfg.FlushInterval); err == nil {
			opts = append(opts, plume.WithFlushInterval(d))
		} else {
			slog.Warn("ignoring invalid flush_interval", "value", cfg.FlushInterval)
		}
	}

	app, err := plume.Open(dir, opts...)
	if err != nil {
		fatal("Failed to open data directory", err)
	}
	return app
}
