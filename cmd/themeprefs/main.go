// Package main provides the themeprefs CLI: an HTTP server that remembers
// each browser's light/dark theme, plus commands to inspect and flip a
// stored preference from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CreativeUnicorns/themeprefs/config"
)

type cliOptions struct {
	configFile string
	envFile    string
	v          *viper.Viper
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "themeprefs",
		Short:         "Light/dark theme preference service",
		Long:          `themeprefs resolves, persists and toggles a light/dark theme preference per session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (yaml, json or toml)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Dotenv file loaded before reading THEMEPREFS_* variables")
	flags.String("log-level", "info", "Log level (debug|info|warn|error)")
	flags.String("log-format", config.LogFormatJSON, "Log format (json|text|zap)")
	flags.String("storage-type", config.StorageMemory, "Storage backend (memory|sqlite|sqlite-pure|postgres)")
	flags.String("storage-dsn", "", "SQLite file path or PostgreSQL connection string")
	flags.String("cache-type", config.CacheNone, "Cache in front of storage (none|memory|redis)")

	bind := map[string]string{
		"log.level":    "log-level",
		"log.format":   "log-format",
		"storage.type": "storage-type",
		"storage.dsn":  "storage-dsn",
		"cache.type":   "cache-type",
	}
	for key, flag := range bind {
		if err := opts.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding %s flag: %v", flag, err))
		}
	}

	rootCmd.AddCommand(newServeCmd(opts), newStatusCmd(opts), newToggleCmd(opts))
	return rootCmd
}

func (o *cliOptions) load() (*config.Config, error) {
	return config.Load(o.v, o.configFile, o.envFile)
}
