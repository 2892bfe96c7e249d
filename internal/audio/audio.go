// Package audio plays the game's sound cues. Terminals cannot mix sampled
// audio, so a loaded clip is played as a terminal bell on the player's
// output. Clips load in the background and stay silent until they are
// ready.
package audio

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// bell is the sequence written when a clip plays.
const bell = "\a"

// Clip is a sound cue loaded from a file.
type Clip struct {
	Name string
	Path string

	ready   atomic.Bool
	playing atomic.Bool
	done    chan struct{}
	size    int64
}

// Ready reports whether the clip finished loading.
func (c *Clip) Ready() bool {
	return c != nil && c.ready.Load()
}

// Wait blocks until the load attempt finished, successful or not.
func (c *Clip) Wait() {
	if c != nil && c.done != nil {
		<-c.done
	}
}

// Load starts loading the clip at path in a goroutine and returns at once.
// An empty path yields a clip that never becomes ready. Failures are logged
// and leave the clip silent.
func Load(name, path string, logger *log.Logger) *Clip {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Clip{Name: name, Path: path, done: make(chan struct{})}
	if path == "" {
		close(c.done)
		return c
	}

	go func() {
		defer close(c.done)
		size, err := probe(path)
		if err != nil {
			logger.Warn("audio clip unavailable", "clip", name, "err", err)
			return
		}
		c.size = size
		c.ready.Store(true)
		logger.Debug("audio clip loaded", "clip", name, "bytes", size)
	}()
	return c
}

func probe(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("audio: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("audio: %s is a directory", path)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("audio: %s is empty", path)
	}
	return info.Size(), nil
}

// Player writes cues to an output. A nil Player and a nil output are both
// silent.
type Player struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	played  int
}

// NewPlayer creates a player writing to out.
func NewPlayer(out io.Writer, enabled bool) *Player {
	return &Player{out: out, enabled: enabled}
}

// Play starts a clip. Unready clips and clips already playing are ignored.
func (p *Player) Play(c *Clip) {
	if p == nil || !c.Ready() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled || p.out == nil {
		return
	}
	if !c.playing.CompareAndSwap(false, true) {
		return
	}
	//nolint:errcheck // Best-effort cue, game continues regardless
	io.WriteString(p.out, bell)
	p.played++
}

// Stop ends a clip so it can be played again.
func (p *Player) Stop(c *Clip) {
	if p == nil || c == nil {
		return
	}
	c.playing.Store(false)
}

// Played returns how many cues were written.
func (p *Player) Played() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}
