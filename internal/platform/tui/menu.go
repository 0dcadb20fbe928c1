package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fixie/internal/core"
	"github.com/vovakirdan/fixie/internal/levels"
)

// MenuItemKind is what selecting a menu entry does.
type MenuItemKind int

const (
	MenuItemRide MenuItemKind = iota
	MenuItemLeaderboard
	MenuItemQuit
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Kind  MenuItemKind
	Title string
	Level int // start level for MenuItemRide
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items           []MenuItem
	cursor          int
	width           int
	height          int
	config          core.RuntimeConfig
	keyMapper       *KeyMapper
	quitting        bool
	selected        *MenuItem // Set when user picks a level
	openLeaderboard bool
}

// NewMenuModel creates a menu with one ride entry per level of catalog.
func NewMenuModel(catalog *levels.Catalog, cfg core.RuntimeConfig) MenuModel {
	if catalog == nil {
		catalog = levels.Default()
	}

	items := make([]MenuItem, 0, catalog.MaxLevel()+2)
	for _, lvl := range catalog.Levels() {
		title := fmt.Sprintf("Level %d  ·  %s", lvl.Number, formatMeters(lvl.Distance))
		if lvl.Number == 1 {
			title = fmt.Sprintf("Ride from the start  ·  %s total", formatMeters(catalog.TotalDistance()))
		}
		items = append(items, MenuItem{Kind: MenuItemRide, Title: title, Level: lvl.Number})
	}
	items = append(items,
		MenuItem{Kind: MenuItemLeaderboard, Title: "Leaderboard"},
		MenuItem{Kind: MenuItemQuit, Title: "Quit"},
	)

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

	case MenuActionSelect:
		switch item := m.items[m.cursor]; item.Kind {
		case MenuItemRide:
			m.selected = &item
		case MenuItemLeaderboard:
			m.openLeaderboard = true
		case MenuItemQuit:
			m.quitting = true
		}
		return m, tea.Quit

	case MenuActionScoreboard:
		m.openLeaderboard = true
		return m, tea.Quit
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
	b.WriteString(centerText(titleStyle.Render("  F I X I E   D A S H  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(dimStyle.Render("Alternate your pedals. Keep the rhythm."), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		b.WriteString(centerText(style.Render(cursor+item.Title), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Leaderboard  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected ride entry, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsLeaderboard returns true if user requested the leaderboard.
func (m MenuModel) WantsLeaderboard() bool {
	return m.openLeaderboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
