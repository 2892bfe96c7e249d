// climb is Sky Climb: a race up a field of floating platforms, played in
// the terminal or over SSH.
//
// Usage:
//
//	climb play               - Climb the configured course
//	climb menu               - Pick a course and difficulty interactively
//	climb courses            - List available courses
//	climb ranking            - Show the top 10
//	climb stats              - Show aggregate statistics
//	climb serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for the random tower
//	--db <path>     - Set database path (default: ~/.climb/climb.db)
//	--name <name>   - Name recorded in the ranking
package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sky-climb/internal/core"
	"github.com/vovakirdan/sky-climb/internal/storage"
	"github.com/vovakirdan/sky-climb/internal/world"

	// Import games to register them
	_ "github.com/vovakirdan/sky-climb/internal/games/climb"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagName   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "climb",
	Short: "Sky Climb - race to the top before the clock runs out",
	Long: `Sky Climb is a first-person climbing game for the terminal.
Jump between floating platforms and reach the summit before the
countdown ends. Your best altitude is your score.

Available commands:
  play     - Climb a course directly
  menu     - Interactive course picker
  courses  - List available courses
  ranking  - Show or reset the top 10
  stats    - Show aggregate statistics
  serve    - Start SSH server for remote play

Examples:
  climb play
  climb play --course spiral --difficulty easy
  climb menu
  climb serve --ssh :2222
  climb ranking`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for the random tower (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath(), "Path to ranking database")
	rootCmd.PersistentFlags().StringVar(&flagName, "name", "", "Player name for the ranking (default: login name)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}

// playerName resolves the name recorded in the ranking.
func playerName() string {
	if flagName != "" {
		return flagName
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return core.DefaultConfig().PlayerName
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.PlayerName = playerName()
	return cfg
}

// courseLibrary returns the builtin courses plus ~/.climb/courses.
func courseLibrary() world.CourseLibrary {
	return world.CourseLibrary{UserDir: world.DefaultUserCourseDir()}
}

// openLogger logs to ~/.climb/climb.log. The terminal belongs to the game
// while it runs, so nothing may be written to stderr.
func openLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".climb")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "climb.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "climb",
	})
	return logger, func() { f.Close() }
}

// openStore opens the ranking database, or returns nil with a warning so
// the game still runs with an in-memory ranking.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open ranking database: %v\n", err)
		logger.Warn("ranking database unavailable", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// fail prints an error and exits with status 1.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
