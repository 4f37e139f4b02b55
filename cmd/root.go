package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/killallgit/podfeed/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "podfeed",
	Short: "Podcast RSS feed loader",
	Long: `podfeed - Load podcast RSS feeds into podcasts and episodes

Feeds are fetched over HTTP with a bounded timeout and can optionally be
served from a disk cache while the cached copy is younger than a given age.

Commands:
  fetch    Load one feed and print it
  serve    Run the HTTP API
  migrate  Manage the podcast library database`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		return configureLogging(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
}

// configureLogging sets up the global logger. Logs go to stderr so command
// output stays clean for pipes.
func configureLogging(level string) error {
	opts := []log.Option{log.Out(os.Stderr), log.Err(os.Stderr), log.Msec}

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		opts = append(opts, log.Trace)
	case "debug":
		opts = append(opts, log.Debug)
	case "", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", level)
	}

	log.Setup(opts...)
	return nil
}

// loadConfig initializes the configuration for commands that need it. The
// configured log level applies unless --log-level was given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if !config.IsInitialized() {
		if err := config.Init(); err != nil {
			return nil, fmt.Errorf("initializing config: %w", err)
		}
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	if !cmd.Flags().Changed("log-level") {
		if err := configureLogging(cfg.Logging.Level); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
