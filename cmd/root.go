package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kayz/motion/internal/config"
	"github.com/kayz/motion/internal/logger"
	"github.com/kayz/motion/internal/settings"
)

var (
	logLevel  string
	sparksDir string
)

var rootCmd = &cobra.Command{
	Use:   "motion",
	Short: "motion spark-to-prompt client",
	Long: `motion watches a folder of short note files ("sparks"), compiles
them together with your saved instruction and context into one prompt,
and sends it to a local Ollama server.

Modes:
  motion watch      Watch the sparks folder and generate hourly
  motion generate   One-shot: compile the prompt and print the reply
  motion prompt     Print the compiled prompt without calling the model
  motion serve      Expose the pipeline as MCP tools over stdio`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Parse and set log level
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&sparksDir, "sparks", "",
		"Sparks directory (overrides config and auto-detection)")
}

// loadEnv loads the config file and opens the settings store.
func loadEnv() (*config.Config, *settings.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.Logging.File != "" {
		if err := logger.SetFile(cfg.Logging.File); err != nil {
			logger.Warn("log file unavailable: %v", err)
		}
	}

	store, err := settings.Open(cfg.ResolveSettingsPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open settings: %w", err)
	}
	return cfg, store, nil
}

// resolveSparksDir applies the --sparks flag over the config.
func resolveSparksDir(cfg *config.Config) string {
	if sparksDir != "" {
		return sparksDir
	}
	return cfg.ResolveSparksDir()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
