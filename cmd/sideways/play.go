package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sideways/internal/platform/tui"
	"github.com/vovakirdan/sideways/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Play the given level, or pick one from a list.

Controls:
  Left/H, Right/L  - Roll left / right
  Space            - Wait a turn
  Tab / Shift+Tab  - Switch player
  U / Ctrl+R       - Undo / redo
  R                - Restart
  S / O            - Save / load
  Esc              - Back to the level list
  Q/Ctrl+C         - Quit

Examples:
  sideways play
  sideways play lvl01`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger()
	all := loadLevels(cfg, logger)

	// Progress is optional; play on without it
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open progress database", "error", err)
	} else {
		defer store.Close()
	}

	opts := tui.PlayOptions{
		Sim:      cfg.SimConfig(),
		AutoStep: cfg.AutoStep(),
		Store:    store,
		Logger:   logger,
	}

	if len(args) == 1 {
		level := findLevel(all, args[0])
		if err := tui.RunPlay(level, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	if err := tui.RunSession(all, opts, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
