package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fixie/internal/core"
	"github.com/vovakirdan/fixie/internal/levels"
	"github.com/vovakirdan/fixie/internal/ride"
	"github.com/vovakirdan/fixie/internal/storage"
)

// GameFactory builds a fresh ride starting at the given level.
type GameFactory func(startLevel int) *ride.Game

// AppOptions wires the full session flow.
type AppOptions struct {
	Runtime core.RuntimeConfig
	Catalog *levels.Catalog
	NewGame GameFactory
	Store   *storage.Store    // may be nil
	Remote  RemoteLeaderboard // may be nil
	Clock   core.Clock        // nil uses the monotonic clock
}

type appScreen int

const (
	screenMenu appScreen = iota
	screenRide
	screenLeaderboard
)

// AppModel manages the full session flow: menu -> ride -> menu, with the
// leaderboard reachable from both. It is the top-level model for local and
// SSH sessions.
type AppModel struct {
	opts   AppOptions
	screen appScreen

	menu        MenuModel
	rideModel   *RideModel
	leaderboard *LeaderboardModel

	quitting bool
}

// NewAppModel creates a session starting at the menu.
func NewAppModel(opts AppOptions) AppModel {
	if opts.Clock == nil {
		opts.Clock = core.NewMonotonicClock()
	}
	if opts.Catalog == nil {
		opts.Catalog = levels.Default()
	}
	return AppModel{
		opts: opts,
		menu: NewMenuModel(opts.Catalog, opts.Runtime),
	}
}

// Init initializes the session.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenRide:
		return m.updateRide(msg)
	case screenLeaderboard:
		return m.updateLeaderboard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsLeaderboard():
		return m.openLeaderboard()

	case m.menu.Selected() != nil:
		return m.startRide(m.menu.Selected().Level)
	}

	return m, cmd
}

// updateRide handles updates when riding.
func (m AppModel) updateRide(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.rideModel.Update(msg)
	if rideModel, ok := newModel.(RideModel); ok {
		m.rideModel = &rideModel
	}

	switch {
	case m.rideModel.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.rideModel.WantsLeaderboard():
		m.rideModel = nil
		return m.openLeaderboard()

	case m.rideModel.BackToMenu():
		m.rideModel = nil
		return m.openMenu()
	}

	return m, cmd
}

// updateLeaderboard handles updates when the leaderboard is shown.
func (m AppModel) updateLeaderboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.leaderboard.Update(msg)
	if lb, ok := newModel.(LeaderboardModel); ok {
		m.leaderboard = &lb
	}

	switch {
	case m.leaderboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.leaderboard.IsGoingBack():
		m.leaderboard = nil
		return m.openMenu()
	}

	return m, cmd
}

func (m AppModel) openMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.opts.Catalog, m.opts.Runtime)
	return m, m.menu.Init()
}

func (m AppModel) openLeaderboard() (tea.Model, tea.Cmd) {
	lb := NewLeaderboardModel(m.opts.Store, m.opts.Remote, m.opts.Runtime.Player,
		m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
	m.leaderboard = &lb
	m.screen = screenLeaderboard
	return m, lb.Init()
}

func (m AppModel) startRide(level int) (tea.Model, tea.Cmd) {
	game := m.opts.NewGame(level)
	rm := NewRideModel(game, m.opts.Clock, m.opts.Runtime)
	m.rideModel = &rm
	m.screen = screenRide
	return m, rm.Init()
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenRide:
		return m.rideModel.View()
	case screenLeaderboard:
		return m.leaderboard.View()
	}
	return m.menu.View()
}

// Close ends the ride in progress, if any, so it gets reported.
func (m AppModel) Close() {
	if m.rideModel != nil {
		m.rideModel.Game().EndGame(m.opts.Clock.NowMillis())
	}
}

// RunApp runs the full menu-driven session until the player quits.
func RunApp(opts AppOptions) error {
	p := tea.NewProgram(
		NewAppModel(opts),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if m, ok := finalModel.(AppModel); ok {
		m.Close()
	}
	return err
}
