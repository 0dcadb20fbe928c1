package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fixie/internal/core"
)

func sendMenu(t *testing.T, m MenuModel, msg tea.Msg) MenuModel {
	t.Helper()
	updated, _ := m.Update(msg)
	mm, ok := updated.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T, expected MenuModel", updated)
	}
	return mm
}

func TestMenuItems(t *testing.T) {
	m := NewMenuModel(testCatalog(t), core.DefaultConfig())

	// Two levels, leaderboard, quit.
	if len(m.items) != 4 {
		t.Fatalf("items = %+v", m.items)
	}
	if m.items[1].Kind != MenuItemRide || m.items[1].Level != 2 {
		t.Errorf("second item = %+v, expected level 2", m.items[1])
	}
	if m.items[3].Kind != MenuItemQuit {
		t.Errorf("last item = %+v, expected quit", m.items[3])
	}
}

func TestMenuSelectLevel(t *testing.T) {
	m := NewMenuModel(testCatalog(t), core.DefaultConfig())

	m = sendMenu(t, m, tea.KeyMsg{Type: tea.KeyUp}) // stays at the top
	m = sendMenu(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = sendMenu(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Selected() == nil || m.Selected().Level != 2 {
		t.Errorf("Selected() = %+v, expected level 2", m.Selected())
	}
}

func TestMenuLeaderboardAndQuit(t *testing.T) {
	m := NewMenuModel(testCatalog(t), core.DefaultConfig())
	if lb := sendMenu(t, m, tea.KeyMsg{Type: tea.KeyTab}); !lb.WantsLeaderboard() {
		t.Error("tab did not open the leaderboard")
	}

	for range 10 {
		m = sendMenu(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = sendMenu(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.IsQuitting() || m.Selected() != nil {
		t.Error("selecting the last item did not quit")
	}
}

func TestMenuResize(t *testing.T) {
	m := NewMenuModel(testCatalog(t), core.DefaultConfig())
	m = sendMenu(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if cfg := m.Config(); cfg.ScreenW != 120 || cfg.ScreenH != 40 {
		t.Errorf("Config() = %+v after resize", cfg)
	}
}
