package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/core"
	"github.com/vovakirdan/sky-climb/internal/world"
)

// presets is the cycle offered by the menu. The empty preset keeps the
// tuning file's own settings.
var presets = []config.DifficultyPreset{
	"",
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

// presetLabel names a preset for display.
func presetLabel(p config.DifficultyPreset) string {
	if p == "" {
		return "as configured"
	}
	return string(p)
}

// MenuItem is the course and difficulty chosen in the menu.
type MenuItem struct {
	Course string
	Name   string
	Preset config.DifficultyPreset
}

// MenuModel is the Bubble Tea model for the course picker.
type MenuModel struct {
	items       []world.CourseInfo
	cursor      int
	preset      int
	width       int
	height      int
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	quitting    bool
	selected    *MenuItem // Set when user selects a course
	openRanking bool      // True if user pressed Tab for the ranking
}

// NewMenuModel lists the courses in the library. A library that cannot be
// read still offers the generated tower.
func NewMenuModel(courses world.CourseLibrary, cfg core.RuntimeConfig, logger *log.Logger) MenuModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	items, err := courses.List()
	if err != nil {
		logger.Warn("could not list courses", "err", err)
		items = []world.CourseInfo{{ID: world.TowerCourseID, Name: "Random Tower", Source: "generated"}}
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.preset = (m.preset + len(presets) - 1) % len(presets)

	case MenuActionRight:
		m.preset = (m.preset + 1) % len(presets)

	case MenuActionSelect:
		if len(m.items) > 0 {
			item := m.items[m.cursor]
			m.selected = &MenuItem{Course: item.ID, Name: item.Name, Preset: presets[m.preset]}
			return m, tea.Quit // Exit menu to start game
		}

	case MenuActionRanking:
		m.openRanking = true
		return m, tea.Quit // Exit menu to show the ranking
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("  S K Y   C L I M B  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a course", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		detail := item.Source
		if item.Platforms > 0 {
			detail = fmt.Sprintf("%s, %d platforms", item.Source, item.Platforms)
		}
		line := fmt.Sprintf("%s%-16s (%s)", cursor, item.Name, detail)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("< Difficulty: %s >", presetLabel(presets[m.preset])), m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Course  |  Left/Right: Difficulty  |  Enter: Climb  |  Tab: Ranking  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRanking returns true if user requested the ranking.
func (m MenuModel) WantsRanking() bool {
	return m.openRanking
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Course       string
	Preset       config.DifficultyPreset
	Config       core.RuntimeConfig
	WantsRanking bool
	Quit         bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(courses world.CourseLibrary, cfg core.RuntimeConfig, logger *log.Logger) (MenuResult, error) {
	model := NewMenuModel(courses, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
	}

	if m.WantsRanking() {
		result.WantsRanking = true
		return result, nil
	}

	if m.IsQuitting() {
		result.Quit = true
		return result, nil
	}

	if sel := m.Selected(); sel != nil {
		result.Course = sel.Course
		result.Preset = sel.Preset
	} else {
		result.Quit = true
	}

	return result, nil
}
