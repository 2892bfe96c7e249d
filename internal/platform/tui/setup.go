package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/registry"
	"github.com/vovakirdan/sky-climb/internal/storage"
	"github.com/vovakirdan/sky-climb/internal/world"
)

// GameSetup holds everything needed to create a game for a player.
type GameSetup struct {
	GameID  string
	Tuning  config.ClimbConfig
	Store   *storage.Store // nil keeps the ranking in memory
	Courses world.CourseLibrary
	Logger  *log.Logger
	Audio   io.Writer
}

// Retune applies a course choice and a difficulty preset on top of cfg.
// An empty course keeps the one cfg names.
func Retune(cfg config.ClimbConfig, course string, preset config.DifficultyPreset) config.ClimbConfig {
	if course != "" {
		cfg.World.Course = course
	}
	config.ApplyPreset(&cfg, preset)
	return cfg
}

// NewGame creates the game for course and preset.
func (s GameSetup) NewGame(course string, preset config.DifficultyPreset) (registry.Game, config.ClimbConfig, error) {
	cfg := Retune(s.Tuning, course, preset)
	env := registry.Env{
		Config:  &cfg,
		Courses: s.Courses,
		Logger:  s.Logger,
		Audio:   s.Audio,
	}
	// A nil *Store inside the interface would not compare equal to nil.
	if s.Store != nil {
		env.Store = s.Store
	}
	game, err := registry.Create(s.GameID, env)
	if err != nil {
		return nil, cfg, err
	}
	return game, cfg, nil
}

// Options configures a game Model.
type Options struct {
	Store         *storage.Store // Score history, may be nil
	Watcher       *config.Watcher
	Retune        func(config.ClimbConfig) config.ClimbConfig // Applied to reloaded tuning
	Course        string                                      // Recorded with each score
	HoldWindow    time.Duration
	Logger        *log.Logger
	ScreenshotDir string // Defaults to ~/.climb/screenshots
	Embedded      bool   // Back returns to a menu instead of quitting
}

// HoldWindow converts the configured hold window.
func HoldWindow(cfg config.ClimbConfig) time.Duration {
	return time.Duration(cfg.Input.HoldWindowMS) * time.Millisecond
}
