package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/games/climb"
	"github.com/vovakirdan/sky-climb/internal/platform/tui"
	"github.com/vovakirdan/sky-climb/internal/world"
)

var (
	flagConfig     string
	flagDifficulty string
	flagCourse     string
	flagWatch      bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Climb a course",
	Long: `Start climbing the selected course.

Controls:
  W/S, Up/Down   - Move forward/back
  A/D            - Strafe
  Q/E, Left/Right - Turn
  Space          - Jump (double jump in the air)
  Enter          - Start / resume
  P/Esc          - Pause
  R              - Restart (paused or finished)
  Tab            - Ranking, X resets it
  Ctrl+S         - Screenshot
  B              - Leave (paused or finished)
  Ctrl+C         - Quit

Difficulty options:
  easy   - Longer clock, lower summit, respawn after falls
  normal - Default clock, platforms speed up as you climb
  hard   - Short clock, a fall ends the climb
  fixed  - No progression, stays at config's initial level

Examples:
  climb play
  climb play --course spiral
  climb play --difficulty hard --seed 42
  climb play --config ./my-climb.yaml --watch`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagCourse, "course", "", "Course ID (see 'climb courses'), default from the tuning file")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the tuning file when it changes (applies on restart)")
}

// loadTuning reads the tuning file and checks the difficulty flag.
func loadTuning() (config.ClimbConfig, config.DifficultyPreset) {
	tuning, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	preset := config.ParsePreset(flagDifficulty)
	if flagDifficulty != "" && preset == "" {
		fail("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	return tuning, preset
}

// checkCourse exits when course is not in the library.
func checkCourse(lib world.CourseLibrary, course string) {
	if course == "" || course == world.TowerCourseID {
		return
	}
	if _, err := lib.Find(course); err != nil {
		if errors.Is(err, world.ErrUnknownCourse) {
			fmt.Fprintf(os.Stderr, "Error: unknown course %q\n", course)
			fmt.Fprintln(os.Stderr, "Run 'climb courses' to see available courses.")
			os.Exit(1)
		}
		fail("%v", err)
	}
}

func runPlay(_ *cobra.Command, _ []string) {
	tuning, preset := loadTuning()
	lib := courseLibrary()
	checkCourse(lib, flagCourse)

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
	game, cfg, err := setup.NewGame(flagCourse, preset)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fail("creating game: %v", err)
	}

	opts := tui.Options{
		Store:      store,
		Course:     cfg.World.Course,
		HoldWindow: tui.HoldWindow(cfg),
		Logger:     logger,
		Retune: func(c config.ClimbConfig) config.ClimbConfig {
			return tui.Retune(c, flagCourse, preset)
		},
	}

	if flagWatch {
		path := config.ResolvePath(flagConfig)
		if path == "" {
			fmt.Fprintln(os.Stderr, "Warning: no tuning file to watch, using built-in defaults")
		} else if w, werr := config.NewWatcher(path); werr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", werr)
		} else {
			logger.Info("watching tuning file", "path", w.Path())
			opts.Watcher = w
			defer w.Close()
		}
	}

	// Run the game
	runErr := tui.Run(game, runtimeConfig(), opts)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
