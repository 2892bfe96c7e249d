package world

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/core"
)

//go:embed courses/*.yaml
var embeddedCourses embed.FS

// ErrUnknownCourse is returned when no course file has the requested ID.
var ErrUnknownCourse = errors.New("world: unknown course")

// Course is a hand-authored platform layout.
type Course struct {
	ID        string           `yaml:"id"`
	Name      string           `yaml:"name"`
	WinY      float64          `yaml:"win_y,omitempty"`
	SpawnPad  float64          `yaml:"spawn_pad,omitempty"`
	Platforms []CoursePlatform `yaml:"platforms"`

	FilePath string `yaml:"-"`
}

// CoursePlatform is one box in a course file. Position is the box centre.
type CoursePlatform struct {
	X    float64     `yaml:"x"`
	Y    float64     `yaml:"y"`
	Z    float64     `yaml:"z"`
	W    float64     `yaml:"w"`
	H    float64     `yaml:"h"`
	D    float64     `yaml:"d"`
	Move *CourseMove `yaml:"move,omitempty"`
}

// CourseMove makes a platform oscillate.
type CourseMove struct {
	Axis      string  `yaml:"axis"` // "x" or "z"
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
	Phase     float64 `yaml:"phase,omitempty"`
}

// CourseInfo describes an available course for menus and listings.
type CourseInfo struct {
	ID        string
	Name      string
	Platforms int
	Source    string // "builtin", "user", or "generated"
}

// ParseCourse decodes and validates a course file.
func ParseCourse(data []byte) (Course, error) {
	var c Course
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Course{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if c.ID == "" {
		return Course{}, errors.New("course has no id")
	}
	if c.ID == TowerCourseID {
		return Course{}, fmt.Errorf("course id %q is reserved", TowerCourseID)
	}
	if c.Name == "" {
		c.Name = c.ID
	}
	if c.SpawnPad <= 0 {
		c.SpawnPad = SpawnPadSize
	}
	for i, p := range c.Platforms {
		if p.W <= 0 || p.H <= 0 || p.D <= 0 {
			return Course{}, fmt.Errorf("platform %d: size must be positive", i)
		}
		if p.Move != nil && p.Move.Axis != "x" && p.Move.Axis != "z" {
			return Course{}, fmt.Errorf("platform %d: move axis must be x or z, got %q", i, p.Move.Axis)
		}
	}
	return c, nil
}

// Build creates the world for this course.
func (c Course) Build() *World {
	bodies := make([]*Body, 0, len(c.Platforms)+1)
	bodies = append(bodies, NewSpawnPad(0, c.SpawnPad))

	for _, p := range c.Platforms {
		center := core.V3(p.X, p.Y, p.Z)
		b := NewBox(len(bodies), center, p.W, p.H, p.D)
		if p.Move != nil && p.Move.Period > 0 {
			axis := core.V3(1, 0, 0)
			if p.Move.Axis == "z" {
				axis = core.V3(0, 0, 1)
			}
			b.Mover = &Oscillator{
				Origin:    center,
				Axis:      axis,
				Amplitude: p.Move.Amplitude,
				Period:    p.Move.Period,
				Phase:     p.Move.Phase,
			}
			b.Center = b.Mover.reset()
		}
		bodies = append(bodies, b)
	}

	w := New(bodies)
	w.winY = c.WinY
	return w
}

// CourseLibrary finds course files in the embedded set and in a user
// directory. User courses shadow builtin ones with the same ID.
type CourseLibrary struct {
	UserDir string
}

// DefaultUserCourseDir returns ~/.climb/courses, or empty if the home
// directory is unavailable.
func DefaultUserCourseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".climb", "courses")
}

// LoadAll returns every valid course sorted by ID. Invalid files are skipped.
func (l CourseLibrary) LoadAll() ([]Course, error) {
	byID := make(map[string]Course)

	err := fs.WalkDir(embeddedCourses, "courses", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isCourseFile(path) {
			return nil
		}
		data, err := embeddedCourses.ReadFile(path)
		if err != nil {
			return err
		}
		c, err := ParseCourse(data)
		if err != nil {
			return nil
		}
		c.FilePath = path
		byID[c.ID] = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("world: reading builtin courses: %w", err)
	}

	if l.UserDir != "" {
		entries, err := os.ReadDir(l.UserDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("world: reading %s: %w", l.UserDir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !isCourseFile(e.Name()) {
				continue
			}
			path := filepath.Join(l.UserDir, e.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			c, err := ParseCourse(data)
			if err != nil {
				continue
			}
			c.FilePath = path
			byID[c.ID] = c
		}
	}

	courses := make([]Course, 0, len(byID))
	for _, c := range byID {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].ID < courses[j].ID
	})
	return courses, nil
}

// Find returns the course with the given ID.
func (l CourseLibrary) Find(id string) (Course, error) {
	courses, err := l.LoadAll()
	if err != nil {
		return Course{}, err
	}
	for _, c := range courses {
		if c.ID == id {
			return c, nil
		}
	}
	return Course{}, fmt.Errorf("%w %q", ErrUnknownCourse, id)
}

// List returns course infos with the generated tower first.
func (l CourseLibrary) List() ([]CourseInfo, error) {
	courses, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	infos := []CourseInfo{{ID: TowerCourseID, Name: "Random Tower", Source: "generated"}}
	for _, c := range courses {
		source := "builtin"
		if !strings.HasPrefix(c.FilePath, "courses/") {
			source = "user"
		}
		infos = append(infos, CourseInfo{
			ID:        c.ID,
			Name:      c.Name,
			Platforms: len(c.Platforms),
			Source:    source,
		})
	}
	return infos, nil
}

// Build creates the world named by cfg.Course: the seeded tower or a
// course file from the library.
func (l CourseLibrary) Build(cfg config.WorldConfig, seed int64) (*World, error) {
	if cfg.Course == "" || cfg.Course == TowerCourseID {
		return GenerateTower(cfg.Tower, seed), nil
	}
	c, err := l.Find(cfg.Course)
	if err != nil {
		return nil, err
	}
	return c.Build(), nil
}

func isCourseFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
