package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fixie/internal/session"
	"github.com/vovakirdan/fixie/internal/storage"
)

// Leaderboard layout constants
const (
	maxRows       = 100 // Max rows to load per view
	remoteTimeout = 5 * time.Second
)

// RemoteLeaderboard is the source of the online leaderboard view.
type RemoteLeaderboard interface {
	Leaderboard(ctx context.Context, limit int) ([]session.LeaderboardEntry, error)
}

// leaderboardView is one tab of the leaderboard screen.
type leaderboardView int

const (
	viewTopRides leaderboardView = iota
	viewBestLevels
	viewPlayerRides
	viewOnline
)

func (v leaderboardView) title(player string) string {
	switch v {
	case viewTopRides:
		return "Top rides"
	case viewBestLevels:
		return "Best levels"
	case viewPlayerRides:
		return player + "'s rides"
	case viewOnline:
		return "Online"
	}
	return ""
}

// LeaderboardKeyMap defines the key bindings for the leaderboard.
type LeaderboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	PrevView key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.PrevView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Back, k.Quit},
	}
}

// DefaultLeaderboardKeyMap returns default key bindings.
func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "m"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// onlineLoadedMsg carries the result of a remote leaderboard fetch.
type onlineLoadedMsg struct {
	entries []session.LeaderboardEntry
	err     error
}

// LeaderboardModel is the Bubble Tea model for the leaderboard screen.
type LeaderboardModel struct {
	store  *storage.Store
	remote RemoteLeaderboard
	player string

	views  []leaderboardView
	cursor int
	rows   []table.Row
	status string // shown instead of the table when set

	online       []session.LeaderboardEntry
	onlineErr    error
	onlineLoaded bool

	table     table.Model
	help      help.Model
	keys      LeaderboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewLeaderboardModel creates a leaderboard over store. The player tab is
// shown when player is set and the online tab when remote is non-nil.
func NewLeaderboardModel(store *storage.Store, remote RemoteLeaderboard, player string, width, height int) LeaderboardModel {
	views := []leaderboardView{viewTopRides, viewBestLevels}
	if player != "" {
		views = append(views, viewPlayerRides)
	}
	if remote != nil {
		views = append(views, viewOnline)
	}

	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := LeaderboardModel{
		store:  store,
		remote: remote,
		player: player,
		views:  views,
		keys:   DefaultLeaderboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.load()
	return m
}

// createTable creates a table sized for the current view and terminal.
func (m *LeaderboardModel) createTable() table.Model {
	columns := m.columns()

	// Let the widest column absorb the spare space.
	tableWidth := m.width - 6
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if spare := tableWidth - used; spare > 0 {
		columns[1].Width += min(spare, 12)
	}

	height := m.height - 9 // Leave room for header, tabs, help and margins
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

func (m LeaderboardModel) columns() []table.Column {
	switch m.view() {
	case viewBestLevels:
		return []table.Column{
			{Title: "Level", Width: 6},
			{Title: "Player", Width: 14},
			{Title: "Time", Width: 10},
		}
	case viewPlayerRides:
		return []table.Column{
			{Title: "Date", Width: 13},
			{Title: "Outcome", Width: 10},
			{Title: "Level", Width: 6},
			{Title: "Distance", Width: 10},
			{Title: "Time", Width: 9},
			{Title: "Clean", Width: 6},
		}
	case viewOnline:
		return []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Player", Width: 14},
			{Title: "Distance", Width: 10},
			{Title: "Time", Width: 9},
		}
	default:
		return []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Player", Width: 12},
			{Title: "Distance", Width: 10},
			{Title: "Time", Width: 9},
			{Title: "Top", Width: 6},
			{Title: "Outcome", Width: 10},
		}
	}
}

func (m LeaderboardModel) view() leaderboardView {
	if len(m.views) == 0 {
		return viewTopRides
	}
	return m.views[m.cursor]
}

// load fills rows for the current view.
func (m *LeaderboardModel) load() {
	m.rows = nil
	m.status = ""

	switch v := m.view(); {
	case v == viewOnline:
		m.loadOnline()
	case m.store == nil:
		m.status = "No local database."
	default:
		if err := m.loadLocal(v); err != nil {
			m.status = "Could not read rides: " + err.Error()
		} else if len(m.rows) == 0 {
			m.status = "No rides recorded yet.\nGo for a ride to set a record!"
		}
	}

	m.table = m.createTable()
	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func (m *LeaderboardModel) loadLocal(v leaderboardView) error {
	switch v {
	case viewBestLevels:
		best, err := m.store.BestLevelTimes()
		if err != nil {
			return err
		}
		for _, b := range best {
			m.rows = append(m.rows, table.Row{
				fmt.Sprintf("%d", b.Level),
				b.Player,
				formatSeconds(b.Seconds),
			})
		}

	case viewPlayerRides:
		rides, err := m.store.PlayerRides(m.player, maxRows)
		if err != nil {
			return err
		}
		for _, r := range rides {
			outcome := r.Outcome
			if !r.Finished() {
				outcome = "riding"
			}
			m.rows = append(m.rows, table.Row{
				r.StartedAt.Local().Format("Jan 02 15:04"),
				outcome,
				fmt.Sprintf("%d", r.LevelReached),
				formatMeters(r.TotalDistance),
				formatSeconds(r.TotalTime),
				fmt.Sprintf("%.0f%%", r.SuccessRatio*100),
			})
		}

	default:
		rides, err := m.store.TopRides(maxRows)
		if err != nil {
			return err
		}
		for i, r := range rides {
			m.rows = append(m.rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				r.Player,
				formatMeters(r.TotalDistance),
				formatSeconds(r.TotalTime),
				fmt.Sprintf("%.1f", r.MaxSpeed),
				r.Outcome,
			})
		}
	}
	return nil
}

func (m *LeaderboardModel) loadOnline() {
	switch {
	case !m.onlineLoaded:
		m.status = "Loading online leaderboard..."
	case m.onlineErr != nil:
		m.status = "Online leaderboard unavailable:\n" + m.onlineErr.Error()
	case len(m.online) == 0:
		m.status = "Nobody has posted a ride yet."
	}
	for i, e := range m.online {
		m.rows = append(m.rows, table.Row{
			fmt.Sprintf("#%d", i+1),
			e.Username,
			formatMeters(e.TotalDistance),
			formatSeconds(e.CompletionTime),
		})
	}
}

// fetchOnline returns a command loading the remote leaderboard.
func (m LeaderboardModel) fetchOnline() tea.Cmd {
	remote := m.remote
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		entries, err := remote.Leaderboard(ctx, maxRows)
		return onlineLoadedMsg{entries: entries, err: err}
	}
}

func formatMeters(m float64) string {
	if m >= 1000 {
		return fmt.Sprintf("%.2f km", m/1000)
	}
	return fmt.Sprintf("%.0f m", m)
}

func formatSeconds(s float64) string {
	if s >= 60 {
		return fmt.Sprintf("%d:%04.1f", int(s)/60, s-float64(int(s)/60*60))
	}
	return fmt.Sprintf("%.1fs", s)
}

// Init starts the online fetch when the remote is configured.
func (m LeaderboardModel) Init() tea.Cmd {
	if m.remote != nil {
		return m.fetchOnline()
	}
	return nil
}

// Update handles messages for the leaderboard.
func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView):
			m.cursor = (m.cursor + 1) % len(m.views)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevView):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.views) - 1
			}
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case onlineLoadedMsg:
		m.online = msg.entries
		m.onlineErr = msg.err
		m.onlineLoaded = true
		if m.view() == viewOnline {
			m.load()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard.
func (m LeaderboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := titleStyle.MarginBottom(1).Render(centerText("LEADERBOARD", m.width))
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m LeaderboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.views))
	for i, v := range m.views {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(v.title(m.player))
		} else {
			tabs[i] = tabStyle.Render(" " + v.title(m.player) + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or the status message.
func (m LeaderboardModel) renderTableContent() string {
	if m.status != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return statusStyle.Render(m.status)
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m LeaderboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m LeaderboardModel) IsQuitting() bool {
	return m.quitting
}

// RunLeaderboard runs the leaderboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunLeaderboard(store *storage.Store, remote RemoteLeaderboard, player string, width, height int) (goBack bool, err error) {
	model := NewLeaderboardModel(store, remote, player, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(LeaderboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
