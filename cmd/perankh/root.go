// Root command for the perankh CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/becked/per-ankh-sub000/internal/paths"
	"github.com/becked/per-ankh-sub000/internal/store"
	"github.com/becked/per-ankh-sub000/pkg/perankh"
)

// Global flag values.
var (
	flagConfigDir string
	flagDatabase  string
	flagJSON      bool
	flagVerbose   bool
)

// configDatabase and configWorkers hold values loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use them.
var (
	configDatabase string
	configWorkers  int
)

var rootCmd = &cobra.Command{
	Use:           "perankh",
	Short:         "Perankh archives Old World game saves into a queryable database",
	Version:       perankh.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDatabase = cfg.GetString(cfgKeyDatabase)
		configWorkers = cfg.GetInt(cfgKeyWorkers)
		setupLogging(cfg.GetString(cfgKeyLogLevel))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "db", "", "database file (default: platform data dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(resetCmd)
}

// setupLogging configures the process-wide slog default. The --verbose flag
// overrides the configured level.
func setupLogging(level string) {
	lvl := slog.LevelWarn
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	if flagVerbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// resolveConfigDir returns the configuration directory following the
// precedence flag > PERANKH_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// openStore resolves the database path and opens it, creating the schema on
// first run. The caller must Close it.
func openStore() (*store.Store, error) {
	path, err := paths.ResolveDatabasePath(flagDatabase, configDatabase)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	return store.Open(path, slog.Default())
}
