// =============================================================================
// InventoryGen - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (inventorygen)
//   ├── generateCmd (inventorygen generate)
//   ├── validateCmd (inventorygen validate)
//   └── versionCmd  (inventorygen version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the main configuration
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ginjaninja78/inventorygen/internal/config"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// mainConfig and logger are set up before any subcommand runs.
var (
	mainConfig *config.MainConfig
	logger     *slog.Logger
	logCloser  io.Closer
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "inventorygen",
	Short: "InventoryGen - Build inventory XML files for digitization batches",
	Long: `InventoryGen turns document manifests (YAML, CSV or XLSX) into inventory
XML files: one <inventory> per manifest, listing every document with its
paper metadata and languages.

Example Usage:
  inventorygen generate                       # Every manifest in the input directory
  inventorygen generate batch-01.csv          # A single manifest
  inventorygen generate --config ./my.yaml    # Use a custom configuration file
  inventorygen validate batch-01.csv          # Lint a manifest without writing`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initialize()
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file; defaults apply if it does not exist",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// initialize loads the configuration and builds the logger.
func initialize() error {
	cfg, err := config.LoadMainConfigOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	mainConfig = cfg

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
		logCloser = file
	}

	logger = newLogger(out, level)
	slog.SetDefault(logger)
	logger.Debug("configuration loaded", "config", cfgFile, "input_dir", cfg.InputDir, "output_dir", cfg.OutputDir)
	return nil
}

// newLogger creates a text logger writing to out at the named level.
func newLogger(out io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}))
}
