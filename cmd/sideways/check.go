package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sideways/internal/levels"
)

var checkCmd = &cobra.Command{
	Use:   "check [level...]",
	Short: "Validate levels and their solutions",
	Long: `Check levels for structural problems and play their stored solutions
through the engine. Exits with status 1 if any level fails.

Examples:
  sideways check
  sideways check lvl01 lvl03`,
	Run: runCheck,
}

func runCheck(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger()
	all := loadLevels(cfg, logger)

	selected := all
	if len(args) > 0 {
		selected = make([]levels.Level, 0, len(args))
		for _, id := range args {
			selected = append(selected, findLevel(all, id))
		}
	}

	failed := 0
	for i := range selected {
		l := &selected[i]
		errs := levels.Validate(l, cfg.SimConfig(), cfg.Play.MaxSettleTurns)
		if len(errs) == 0 {
			status := "ok"
			if l.Solution == "" {
				status = "ok (no solution)"
			}
			fmt.Printf("%-12s %s\n", l.ID, status)
			continue
		}
		failed++
		fmt.Printf("%-12s FAIL\n", l.ID)
		for _, e := range errs {
			fmt.Printf("  %s\n", e)
		}
		logger.Debug("level failed", "level", l.ID, "file", l.FilePath, "errors", len(errs))
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d of %d levels failed\n", failed, len(selected))
		os.Exit(1)
	}
}
