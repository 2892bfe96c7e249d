package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sky-climb/internal/games/climb"
	"github.com/vovakirdan/sky-climb/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a course and difficulty interactively",
	Long: `Start Sky Climb in interactive menu mode.

Use arrow keys or j/k to pick a course, left/right to change the
difficulty, Enter to climb. Leaving a climb returns to the menu.

Controls:
  Up/Down/j/k    - Choose course
  Left/Right     - Choose difficulty
  Enter/Space    - Climb
  Tab            - Ranking
  Q              - Quit

Examples:
  climb menu
  climb menu --fps 30
  climb menu --db ./climb.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
}

func runMenu(_ *cobra.Command, _ []string) {
	tuning, _ := loadTuning()
	lib := courseLibrary()

	logger, closeLog := openLogger()
	defer closeLog()

	store := openStore(logger)
	setup := tui.GameSetup{
		GameID:  climb.GameID,
		Tuning:  tuning,
		Store:   store,
		Courses: lib,
		Logger:  logger,
		Audio:   os.Stdout,
	}

	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(lib, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsRanking {
			goBack, rkErr := tui.RunRanking(store, cfg.ScreenW, cfg.ScreenH, logger)
			if rkErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", rkErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from the ranking
		}

		game, gameCfg, err := setup.NewGame(menuResult.Course, menuResult.Preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// A fresh tower for each climb unless a seed was given
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		opts := tui.Options{
			Store:      store,
			Course:     gameCfg.World.Course,
			HoldWindow: tui.HoldWindow(gameCfg),
			Logger:     logger,
		}
		if err := tui.Run(game, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
