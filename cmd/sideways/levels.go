package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sideways/internal/storage"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all levels",
	Long: `Display all levels of the level directory with their goal count and
your best turn count.

Examples:
  sideways levels
  sideways levels --levels ./my-levels`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger()
	all := loadLevels(cfg, logger)

	if len(all) == 0 {
		fmt.Printf("No levels found in %s\n", cfg.Play.LevelsDir)
		return
	}

	progress := map[string]storage.LevelProgress{}
	if store, err := storage.Open(cfg.Storage.DBPath); err != nil {
		logger.Warn("could not open progress database", "error", err)
	} else {
		if p, err := store.Progress(); err == nil {
			progress = p
		}
		store.Close()
	}

	maxIDLen := len("ID")
	for _, l := range all {
		if len(l.ID) > maxIDLen {
			maxIDLen = len(l.ID)
		}
	}

	fmt.Printf("  %-*s  %-5s  %-5s  %s\n", maxIDLen, "ID", "Goals", "Best", "Name")
	fmt.Printf("  %-*s  %-5s  %-5s  %s\n", maxIDLen, "--", "-----", "----", "----")
	for _, l := range all {
		best := "-"
		if p, ok := progress[l.ID]; ok {
			best = fmt.Sprintf("%d", p.BestTurns)
		}
		fmt.Printf("  %-*s  %-5d  %-5s  %s\n", maxIDLen, l.ID, len(l.Goals), best, l.Name)
	}
}
