package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sky-climb/internal/games/climb"
	"github.com/vovakirdan/sky-climb/internal/storage"
)

var flagClearStats bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics over all recorded climbs",
	Long: `Summarise the score history: climbs played, summits reached,
best and average scores, the fastest summit, and a per-player table.
With --clear the score history is deleted instead; the top 10 is kept.`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagClearStats, "clear", false, "Delete the score history")
}

func runStats(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening ranking database: %v", err)
	}
	defer store.Close()

	if flagClearStats {
		if err := store.ClearScores(climb.GameID); err != nil {
			fail("%v", err)
		}
		fmt.Println("Score history cleared.")
		return
	}

	stats, err := store.GetGameStats(climb.GameID)
	if err != nil {
		fail("%v", err)
	}

	fmt.Println("Sky Climb - Statistics")
	fmt.Println()

	if stats.GamesCount == 0 {
		fmt.Println("No climbs recorded yet.")
		return
	}

	fmt.Printf("  Climbs:        %d\n", stats.GamesCount)
	fmt.Printf("  Summits:       %d\n", stats.Wins)
	fmt.Printf("  Best score:    %d\n", stats.HighScore)
	fmt.Printf("  Average score: %.1f\n", stats.AvgScore)
	fmt.Printf("  Total climbed: %d\n", stats.TotalScore)
	if stats.BestTime > 0 {
		fmt.Printf("  Fastest:       %s\n", climb.FormatClock(stats.BestTime))
	}
	fmt.Printf("  Last played:   %s\n", stats.LastPlayed.Local().Format("2006-01-02 15:04"))

	players, err := store.GetPlayerStats(climb.GameID)
	if err != nil {
		fail("%v", err)
	}
	printPlayers(players)
}

func printPlayers(players []storage.PlayerStats) {
	if len(players) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("  %-14s  %6s  %7s  %5s  %7s\n", "Player", "Climbs", "Summits", "Best", "Average")
	fmt.Printf("  %-14s  %6s  %7s  %5s  %7s\n", "------", "------", "-------", "----", "-------")
	for _, p := range players {
		fmt.Printf("  %-14s  %6d  %7d  %5d  %7.1f\n", p.Name, p.GamesCount, p.Wins, p.HighScore, p.AvgScore)
	}
}
