// Package main provides the betabot CLI: request parsing, board tools, route generation
// and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/betabot/internal/config"
	"github.com/jonathan/betabot/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath  string
	verboseFlag bool
	boardFlag   string

	// appConfig and logger are resolved before any subcommand runs
	appConfig config.Config
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "betabot",
	Short: "Route guidance synthesis for LED climbing boards",
	Long: `betabot turns a setter's free-text request ("v5 crimpy, sit start") into a
role-colored route on a board, ready for an LED controller.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&boardFlag, "board", "", "Board definition path or URL (overrides BETABOT_BOARD)")
}

// setup layers defaults, config file, environment and flags, then builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(configPath, os.Getenv)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("board") {
		cfg.Board = boardFlag
	}
	cfg.Verbose = cfg.Verbose || verboseFlag
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg

	logger, err = logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
