package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fixie/internal/core"
	"github.com/vovakirdan/fixie/internal/ride"
)

func newTestApp(t *testing.T) (AppModel, *[]*ride.Game) {
	t.Helper()
	cat := testCatalog(t)
	var games []*ride.Game
	m := NewAppModel(AppOptions{
		Runtime: core.DefaultConfig(),
		Catalog: cat,
		Clock:   core.NewManualClock(1000),
		NewGame: func(level int) *ride.Game {
			g := ride.New(ride.Options{Catalog: cat, StartLevel: level})
			games = append(games, g)
			return g
		},
	})
	return m, &games
}

func sendApp(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	am, ok := updated.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T, expected AppModel", updated)
	}
	return am, cmd
}

func TestAppMenuToRideAndBack(t *testing.T) {
	m, games := newTestApp(t)

	m, cmd := sendApp(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenRide || len(*games) != 1 {
		t.Fatalf("screen = %v, games = %d after enter", m.screen, len(*games))
	}
	if cmd == nil {
		t.Error("starting a ride did not start the tick loop")
	}

	m, _ = sendApp(t, m, runeKey('p'))
	m, _ = sendApp(t, m, runeKey('m'))
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, expected menu", m.screen)
	}
	if !(*games)[0].Ended() {
		t.Error("ride was not ended when leaving for the menu")
	}
	if m.menu.Selected() != nil {
		t.Error("menu kept the previous selection")
	}
}

func TestAppLeaderboardRoundTrip(t *testing.T) {
	m, _ := newTestApp(t)

	m, _ = sendApp(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenLeaderboard {
		t.Fatalf("screen = %v, expected leaderboard", m.screen)
	}

	m, _ = sendApp(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Errorf("screen = %v after esc, expected menu", m.screen)
	}
}

func TestAppQuitFromRide(t *testing.T) {
	m, games := newTestApp(t)

	m, _ = sendApp(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := sendApp(t, m, runeKey('q'))
	if !m.quitting || cmd == nil {
		t.Fatal("q in a ride did not quit the app")
	}
	if (*games)[0].Reason() != ride.EndQuit {
		t.Errorf("Reason = %v, expected quit", (*games)[0].Reason())
	}
	if m.View() != "" {
		t.Error("View() after quit is not empty")
	}
}

func TestAppCloseEndsOpenRide(t *testing.T) {
	m, games := newTestApp(t)

	m, _ = sendApp(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = sendApp(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m.Close()

	if !(*games)[0].Ended() {
		t.Error("Close() left the ride open")
	}
}

func TestOpenRidesCloseAll(t *testing.T) {
	rides := &openRides{clock: core.NewManualClock(0)}
	done := ride.New(ride.Options{})
	done.EndGame(0)
	open := ride.New(ride.Options{})
	rides.track(done)
	rides.track(open)

	if n := rides.closeAll(); n != 1 {
		t.Errorf("closeAll() = %d, expected 1", n)
	}
	if !open.Ended() {
		t.Error("open ride not ended")
	}
	if n := rides.closeAll(); n != 0 {
		t.Errorf("second closeAll() = %d, expected 0", n)
	}
}
