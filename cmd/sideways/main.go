// sideways is a turn-based block puzzle played in the terminal.
//
// Usage:
//
//	sideways levels            - List levels and your progress
//	sideways play [level]      - Play a level, or pick one interactively
//	sideways check [level...]  - Validate levels and their stored solutions
//	sideways progress          - Show completed levels
//	sideways serve             - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>  - Config file (default: search ~/.sideways, ./configs)
//	--db <path>      - Progress database (overrides the config)
//	--levels <dir>   - Level directory (overrides the config)
//	--verbose        - Debug logging to stderr
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sideways/internal/config"
	"github.com/vovakirdan/sideways/internal/levels"
	"github.com/vovakirdan/sideways/internal/sim"
)

var (
	// Global flags
	flagConfig    string
	flagDBPath    string
	flagLevelsDir string
	flagVerbose   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sideways",
	Short: "Sideways - a block puzzle about rolling on your sides",
	Long: `Sideways is a deterministic, turn-based block puzzle. Every block has
four sides and every side can carry an effect: jump, slide, magnet and more.
Roll the players into the goals.

Available commands:
  levels    - Show all levels
  play      - Play a level
  check     - Validate levels and their solutions
  progress  - Show completed levels
  serve     - Start SSH server for remote play

Examples:
  sideways levels
  sideways play lvl01
  sideways check --levels ./levels
  sideways serve --ssh :2323`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to progress database")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Path to level directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the config and applies the global flag overrides.
// Exits on a broken config file.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLevelsDir != "" {
		cfg.Play.LevelsDir = flagLevelsDir
	}
	return cfg
}

// newLogger returns the stderr logger. Turn-level simulation logging is only
// routed to it in verbose mode.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sideways",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
		sim.SetLogger(logger.WithPrefix("sim"))
	}
	return logger
}

// loadLevels loads every level of the configured directory. Exits on error.
func loadLevels(cfg config.Config, logger *log.Logger) []levels.Level {
	loader := levels.NewLoader(cfg.Play.LevelsDir)
	loader.Logger = logger
	all, err := loader.LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}
	return all
}

// findLevel returns the level with the given id. Exits if there is none.
func findLevel(all []levels.Level, id string) levels.Level {
	for _, l := range all {
		if l.ID == id {
			return l
		}
	}
	fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", id)
	fmt.Fprintln(os.Stderr, "Run 'sideways levels' to see available levels.")
	os.Exit(1)
	return levels.Level{}
}
