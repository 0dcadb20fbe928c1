package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fixie/internal/core"
	"github.com/vovakirdan/fixie/internal/physics"
	"github.com/vovakirdan/fixie/internal/ride"
)

// Feedback shown after a pedal stroke.
const (
	msgGood      = "Good!"
	msgAlternate = "Alternate left and right!"
	msgTiming    = "Too fast or too slow!"

	messageDurationMs = 1000
)

// RideModel is the Bubble Tea model for the ride screen.
type RideModel struct {
	id        int
	game      *ride.Game
	clock     core.Clock
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	help      help.Model

	lastTick  int64
	message   string
	messageAt int64

	quitting         bool
	backToMenu       bool
	wantsLeaderboard bool
}

// NewRideModel creates a ride screen for game. A nil clock uses the
// monotonic wall clock.
func NewRideModel(game *ride.Game, clock core.Clock, cfg core.RuntimeConfig) RideModel {
	if clock == nil {
		clock = core.NewMonotonicClock()
	}
	h := help.New()
	h.Width = cfg.ScreenW

	m := RideModel{
		id:        nextID(),
		game:      game,
		clock:     clock,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		help:      h,
		lastTick:  clock.NowMillis(),
	}
	m.drainEvents(m.lastTick)
	return m
}

// Init starts the tick loop.
func (m RideModel) Init() tea.Cmd {
	return tickCmd(m.id, m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m RideModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.ID != m.id {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m RideModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := m.clock.NowMillis()
	action, quit := m.keyMapper.MapKey(msg)
	if quit {
		m.game.EndGame(now)
		m.quitting = true
		return m, tea.Quit
	}

	over := m.game.GameOver() || m.game.AllLevelsComplete()

	switch action {
	case core.ActionPedalLeft:
		m.game.HandlePedalInput(physics.SideLeft, now)

	case core.ActionPedalRight:
		m.game.HandlePedalInput(physics.SideRight, now)

	case core.ActionConfirm:
		m.game.AdvanceLevel()

	case core.ActionPause:
		m.game.TogglePause(now)

	case core.ActionRestart:
		if over {
			m.game.Restart()
			m.lastTick = now
			m.message = ""
		}

	case core.ActionScoreboard:
		if over {
			m.wantsLeaderboard = true
			return m, tea.Quit
		}

	case core.ActionBack:
		if over || m.game.Paused() {
			m.game.EndGame(now)
			m.backToMenu = true
			return m, tea.Quit
		}
	}

	m.drainEvents(now)
	return m, nil
}

// handleTick advances the simulation by the real time since the last tick.
func (m RideModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu || m.wantsLeaderboard {
		return m, nil
	}

	now := m.clock.NowMillis()
	dt := now - m.lastTick
	m.lastTick = now
	if dt > 0 {
		m.game.Tick(float64(dt), now)
	}
	m.drainEvents(now)

	return m, tickCmd(m.id, m.config.TickRate)
}

// drainEvents turns ride events into on-screen feedback.
func (m *RideModel) drainEvents(now int64) {
	p := m.game.Physics().Params()
	for _, ev := range m.game.DrainEvents() {
		switch e := ev.(type) {
		case ride.PedalEvent:
			m.setMessage(pedalMessage(e, p), now)
		case ride.LevelStartedEvent:
			m.setMessage(fmt.Sprintf("Level %d: ride %.0f m", e.Level, e.Target), now)
		case ride.LevelCompleteEvent:
			m.setMessage(fmt.Sprintf("Level %d done in %.1fs", e.Level, e.Seconds), now)
		}
	}
}

func (m *RideModel) setMessage(text string, now int64) {
	m.message = text
	m.messageAt = now
}

// pedalMessage picks the feedback for one stroke.
func pedalMessage(e ride.PedalEvent, p physics.Params) string {
	switch {
	case !e.Accepted && e.Reason == ride.RejectSameSide:
		return msgAlternate
	case !e.Accepted:
		return msgTiming
	case e.Interval == 0:
		return msgGood
	case e.Interval < p.MinPedalInterval || e.Interval > p.MaxPedalInterval:
		return msgTiming
	}
	return msgGood
}

// currentMessage returns the feedback text while it is still fresh.
func (m RideModel) currentMessage(now int64) string {
	if m.message == "" || now-m.messageAt >= messageDurationMs {
		return ""
	}
	return m.message
}

// View renders the ride screen.
func (m RideModel) View() string {
	if m.quitting || m.backToMenu || m.wantsLeaderboard {
		return ""
	}

	now := m.clock.NowMillis()
	snap := m.game.Snapshot(now)
	return RenderRide(snap, m.currentMessage(now), m.config.ScreenW) +
		"\n" + dimStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// Game returns the ride being shown.
func (m RideModel) Game() *ride.Game {
	return m.game
}

// IsQuitting returns true if user requested to quit entirely.
func (m RideModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m RideModel) BackToMenu() bool {
	return m.backToMenu
}

// WantsLeaderboard returns true if user asked for the leaderboard after a run.
func (m RideModel) WantsLeaderboard() bool {
	return m.wantsLeaderboard
}

// RideResult reports how a standalone ride screen was left.
type RideResult struct {
	Summary          ride.Summary
	Reported         bool
	BackToMenu       bool
	WantsLeaderboard bool
}

// RunRide runs the ride screen for game until the player leaves it.
// The run is always closed and reported before RunRide returns.
func RunRide(game *ride.Game, clock core.Clock, cfg core.RuntimeConfig) (RideResult, error) {
	model := NewRideModel(game, clock, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	game.EndGame(model.clock.NowMillis())
	if err != nil {
		return RideResult{}, err
	}

	result := RideResult{}
	result.Summary, result.Reported = game.Summary()
	if m, ok := finalModel.(RideModel); ok {
		result.BackToMenu = m.BackToMenu()
		result.WantsLeaderboard = m.WantsLeaderboard()
	}
	return result, nil
}
