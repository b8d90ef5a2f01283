package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sideways/internal/storage"
)

var flagRuns int

var progressCmd = &cobra.Command{
	Use:   "progress [level]",
	Short: "Show completed levels",
	Long: `Display your best turn count for every completed level, or the best
runs of a single level.

Examples:
  sideways progress
  sideways progress lvl02 --runs 5`,
	Args: cobra.MaximumNArgs(1),
	Run:  runProgress,
}

func init() {
	progressCmd.Flags().IntVar(&flagRuns, "runs", 10, "Number of runs to show for a single level")
}

func runProgress(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger()
	all := loadLevels(cfg, logger)

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 1 {
		level := findLevel(all, args[0])
		runs, err := store.Completions(level.ID, flagRuns)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Best runs - %s\n", level.Name)
		fmt.Println("─────────────────────────────────")
		if len(runs) == 0 {
			fmt.Println("  Not completed yet")
			return
		}
		for i, r := range runs {
			fmt.Printf("  %2d. %4d turns  %s  %s\n", i+1, r.Turns, r.CreatedAt.Format("2006-01-02 15:04"), r.Inputs)
		}
		return
	}

	progress, err := store.Progress()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving progress: %v\n", err)
		os.Exit(1)
	}

	solved := 0
	fmt.Println("Progress")
	fmt.Println("─────────────────────────────────")
	for _, l := range all {
		p, ok := progress[l.ID]
		if !ok {
			fmt.Printf("  [ ] %-10s %s\n", l.ID, l.Name)
			continue
		}
		solved++
		fmt.Printf("  [x] %-10s %s  (best %d turns, %d runs)\n", l.ID, l.Name, p.BestTurns, p.Runs)
	}
	fmt.Printf("\n%d of %d levels solved\n", solved, len(all))
}
