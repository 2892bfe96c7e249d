package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sky-climb/internal/games/climb"
	"github.com/vovakirdan/sky-climb/internal/ranking"
	"github.com/vovakirdan/sky-climb/internal/storage"
)

// Ranking screen layout constants
const (
	maxHistory    = 100 // Max history rows to load
	tableMinWidth = 50
)

// RankingView selects the table shown by the ranking screen.
type RankingView int

const (
	ViewTop RankingView = iota
	ViewHistory
)

// RankingKeyMap defines the key bindings for the ranking screen.
type RankingKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Reset  key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RankingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Reset, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RankingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Switch},
		{k.Reset, k.Back, k.Quit},
	}
}

// DefaultRankingKeyMap returns default key bindings.
func DefaultRankingKeyMap() RankingKeyMap {
	return RankingKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab", "left", "right"),
			key.WithHelp("tab", "top 10 / history"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset top 10"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RankingModel is the Bubble Tea model for the ranking screen: the stored
// top 10 and the history of finished climbs.
type RankingModel struct {
	ranking   *ranking.Ranking
	store     *storage.Store
	logger    *log.Logger
	view      RankingView
	entries   []ranking.Entry
	history   []storage.ScoreRecord
	table     table.Model
	help      help.Model
	keys      RankingKeyMap
	width     int
	height    int
	embedded  bool // Back returns to the caller instead of quitting
	quitting  bool
	goingBack bool
}

// NewRankingModel creates a ranking screen backed by store. A nil store
// shows empty tables.
func NewRankingModel(store *storage.Store, width, height int, logger *log.Logger) RankingModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var kv ranking.KV = ranking.NewMemoryKV()
	if store != nil {
		kv = store
	}

	h := help.New()
	h.ShowAll = false

	m := RankingModel{
		ranking: ranking.New(kv, logger),
		store:   store,
		logger:  logger,
		keys:    DefaultRankingKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
	m.reload()
	return m
}

// createTable creates a table with the columns of the current view.
func (m *RankingModel) createTable() table.Model {
	var columns []table.Column
	switch m.view {
	case ViewHistory:
		columns = []table.Column{
			{Title: "Player", Width: 12},
			{Title: "Course", Width: 10},
			{Title: "Score", Width: 6},
			{Title: "Time", Width: 6},
			{Title: "Date", Width: 13},
		}
	default:
		columns = []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Player", Width: 14},
			{Title: "Score", Width: 7},
			{Title: "Time", Width: 6},
		}
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// reload reads both tables and rebuilds the visible one.
func (m *RankingModel) reload() {
	m.entries = m.ranking.Load()
	m.history = nil
	if m.store != nil {
		history, err := m.store.TopScores(climb.GameID, maxHistory)
		if err != nil {
			m.logger.Warn("could not load score history", "err", err)
		} else {
			m.history = history
		}
	}
	m.table = m.createTable()
	m.table.SetRows(m.rows())
	m.table.GotoTop()
}

// rows formats the current view.
func (m RankingModel) rows() []table.Row {
	if m.view == ViewHistory {
		rows := make([]table.Row, len(m.history))
		for i, r := range m.history {
			t := "--:--"
			if r.Won {
				t = climb.FormatClock(r.Duration)
			}
			rows[i] = table.Row{r.Name, r.Course, fmt.Sprintf("%d", r.Score), t, r.CreatedAt.Format("Jan 02 15:04")}
		}
		return rows
	}

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		t := "--:--"
		if e.Time != nil {
			t = climb.FormatClock(*e.Time)
		}
		rows[i] = table.Row{fmt.Sprintf("#%d", i+1), e.Name, fmt.Sprintf("%d", e.Score), t}
	}
	return rows
}

// Init initializes the ranking model.
func (m RankingModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the ranking screen.
func (m RankingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Switch):
			if m.view == ViewTop {
				m.view = ViewHistory
			} else {
				m.view = ViewTop
			}
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Reset):
			if m.view != ViewTop {
				return m, nil
			}
			if err := m.ranking.Reset(); err != nil {
				m.logger.Error("could not reset ranking", "err", err)
			}
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.reload()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the ranking screen.
func (m RankingModel) View() string {
	if m.quitting || (m.goingBack && !m.embedded) {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "SKY CLIMB - TOP 10"
	if m.view == ViewHistory {
		title = "SKY CLIMB - HISTORY"
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	if m.width >= tableMinWidth {
		tableStyle = tableStyle.MarginLeft((m.width - tableMinWidth) / 2)
	}
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m RankingModel) renderTableContent() string {
	empty := len(m.entries) == 0
	if m.view == ViewHistory {
		empty = len(m.history) == 0
	}
	if empty {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No climbs recorded yet.\nReach for the sky!")
	}

	return m.table.View()
}

// Entries returns the loaded top 10.
func (m RankingModel) Entries() []ranking.Entry {
	return m.entries
}

// CurrentView returns the table being shown.
func (m RankingModel) CurrentView() RankingView {
	return m.view
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RankingModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RankingModel) IsQuitting() bool {
	return m.quitting
}

// RunRanking runs the ranking screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunRanking(store *storage.Store, width, height int, logger *log.Logger) (goBack bool, err error) {
	model := NewRankingModel(store, width, height, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(RankingModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
