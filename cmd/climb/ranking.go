package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sky-climb/internal/games/climb"
	"github.com/vovakirdan/sky-climb/internal/platform/tui"
	"github.com/vovakirdan/sky-climb/internal/ranking"
	"github.com/vovakirdan/sky-climb/internal/storage"
)

var (
	flagResetRanking bool
	flagInteractive  bool
)

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Show the top 10",
	Long: `Display the stored top 10: best score first, faster summits
first on equal scores, climbs that ran out of time last.

Examples:
  climb ranking
  climb ranking --interactive
  climb ranking --reset`,
	Args: cobra.NoArgs,
	Run:  runRanking,
}

func init() {
	rankingCmd.Flags().BoolVar(&flagResetRanking, "reset", false, "Clear the top 10")
	rankingCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the top 10 and the history in a table")
}

func runRanking(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening ranking database: %v", err)
	}
	defer store.Close()

	if flagInteractive {
		cfg := runtimeConfig()
		if _, err := tui.RunRanking(store, cfg.ScreenW, cfg.ScreenH, nil); err != nil {
			fail("%v", err)
		}
		return
	}

	logger := log.NewWithOptions(io.Discard, log.Options{})
	r := ranking.New(store, logger)

	if flagResetRanking {
		if err := r.Reset(); err != nil {
			fail("resetting ranking: %v", err)
		}
		fmt.Println("Ranking cleared.")
		return
	}

	entries := r.Load()
	fmt.Println("Sky Climb - Top 10")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No climbs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'climb play' to set the first score!")
		return
	}

	for i, e := range entries {
		fmt.Printf("  %s\n", climb.FormatEntry(i+1, e))
	}
}
