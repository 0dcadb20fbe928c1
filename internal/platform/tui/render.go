package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fixie/internal/core"
	"github.com/vovakirdan/fixie/internal/physics"
	"github.com/vovakirdan/fixie/internal/ride"
)

// Pedal timing bar tuning, in milliseconds.
const (
	sweetSpotMs = 150 // half-width of the green zone around the target interval
	fadeMs      = 600 // distance from the green zone at which the bar is fully red
)

const (
	minBarWidth = 10
	maxBarWidth = 50
	labelWidth  = 10
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(labelWidth)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	speedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	markerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	messageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("57")).
			Padding(1, 3).
			Align(lipgloss.Center)
)

// barWidth picks a bar width that fits the terminal.
func barWidth(screenW int) int {
	return core.Clamp(screenW-labelWidth-24, minBarWidth, maxBarWidth)
}

// renderBar draws a horizontal gauge filled to frac.
func renderBar(frac float64, width int, fill lipgloss.Style) string {
	filled := int(math.Round(core.ClampF(frac, 0, 1) * float64(width)))
	return fill.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled))
}

// staminaStyle colors stamina by how much is left.
func staminaStyle(frac float64) lipgloss.Style {
	switch {
	case frac > 0.5:
		return goodStyle
	case frac > 0.2:
		return warnStyle
	default:
		return badStyle
	}
}

// timingStyle colors a point on the timing bar by its distance from the
// interval that would hold the current speed.
func timingStyle(distance float64) lipgloss.Style {
	switch {
	case distance <= sweetSpotMs:
		return goodStyle
	case distance <= sweetSpotMs+fadeMs/2:
		return warnStyle
	default:
		return badStyle
	}
}

// renderTimingBar draws the pedal timing gauge from 0 to MaxPedalInterval.
// The green zone marks the target interval; the white marker is the time
// since the last accepted stroke.
func renderTimingBar(snap ride.Snapshot, width int) string {
	if snap.MaxPedalInterval <= 0 || width <= 0 {
		return ""
	}
	if snap.LastSide == physics.SideNone {
		return emptyStyle.Render(strings.Repeat("▒", width))
	}

	span := float64(snap.MaxPedalInterval)
	marker := int(float64(snap.SinceLastPedal) / span * float64(width))
	marker = core.Clamp(marker, 0, width-1)

	var b strings.Builder
	for i := range width {
		if i == marker {
			b.WriteString(markerStyle.Render("┃"))
			continue
		}
		t := (float64(i) + 0.5) / float64(width) * span
		d := math.Abs(t - float64(snap.TargetInterval))
		b.WriteString(timingStyle(d).Render("▒"))
	}
	return b.String()
}

func hudRow(label, bar, value string) string {
	return labelStyle.Render(label) + bar + " " + valueStyle.Render(value)
}

// renderHeader shows level, clocks and overall distance.
func renderHeader(snap ride.Snapshot) string {
	return fmt.Sprintf("%s   %s %s   %s %s   %s %s",
		titleStyle.Render(fmt.Sprintf("LEVEL %d/%d", snap.Level, snap.MaxLevel)),
		dimStyle.Render("level"), valueStyle.Render(fmt.Sprintf("%.1fs", snap.LevelTime)),
		dimStyle.Render("total"), valueStyle.Render(fmt.Sprintf("%.1fs", snap.TotalTime)),
		dimStyle.Render("ridden"), valueStyle.Render(fmt.Sprintf("%.0f m", snap.TotalDistance)),
	)
}

// renderGauges shows the progress, speed, stamina and timing bars.
func renderGauges(snap ride.Snapshot, width int) string {
	rows := []string{
		hudRow("Progress", renderBar(snap.Progress, width, goodStyle),
			fmt.Sprintf("%.0f/%.0f m", snap.Distance, snap.Target)),
		hudRow("Speed", renderBar(core.Ratio(snap.Speed, snap.MaxSpeed), width, speedStyle),
			fmt.Sprintf("%.1f", snap.Speed)),
	}
	staminaFrac := core.Ratio(snap.Stamina, snap.MaxStamina)
	rows = append(rows,
		hudRow("Stamina", renderBar(staminaFrac, width, staminaStyle(staminaFrac)),
			fmt.Sprintf("%.0f", snap.Stamina)),
		hudRow("Timing", renderTimingBar(snap, width), renderPrediction(snap)),
	)
	return strings.Join(rows, "\n")
}

// renderPrediction shows what a stroke right now would do.
func renderPrediction(snap ride.Snapshot) string {
	if snap.LastSide == physics.SideNone {
		return dimStyle.Render("next stroke starts the ride")
	}
	return fmt.Sprintf("%s %+.1f  %s %+.0f",
		dimStyle.Render("speed"), snap.PredictedSpeed,
		dimStyle.Render("stamina"), snap.PredictedStamina)
}

// renderOverlay returns the phase banner, or "" while riding.
func renderOverlay(snap ride.Snapshot) string {
	switch {
	case snap.Paused:
		return overlayStyle.Render(titleStyle.Render("PAUSED") + "\n\np to resume  ·  m for menu")

	case snap.Phase == ride.PhaseAwaitingFirstPedal:
		return overlayStyle.Render(fmt.Sprintf(
			"%s\n%.0f m to go\n\nAlternate ← and → to start pedaling",
			titleStyle.Render(fmt.Sprintf("LEVEL %d", snap.Level)), snap.Target))

	case snap.Phase == ride.PhaseLevelComplete:
		return overlayStyle.Render(fmt.Sprintf(
			"%s\nTime %.1fs\n\nPress Enter for level %d",
			goodStyle.Bold(true).Render(fmt.Sprintf("LEVEL %d COMPLETE", snap.Level)),
			snap.LevelTime, snap.Level+1))

	case snap.Phase == ride.PhaseAllComplete:
		return overlayStyle.Render(fmt.Sprintf(
			"%s\n\n%s\n\nr restart  ·  l leaderboard  ·  q quit",
			goodStyle.Bold(true).Render("YOU FINISHED ALL LEVELS!"), renderTotals(snap)))

	case snap.Phase == ride.PhaseGameOver:
		return overlayStyle.Render(fmt.Sprintf(
			"%s\nYou %s on level %d\n\n%s\n\nr restart  ·  l leaderboard  ·  m menu",
			badStyle.Bold(true).Render("GAME OVER"), snap.Reason, snap.Level, renderTotals(snap)))
	}
	return ""
}

func renderTotals(snap ride.Snapshot) string {
	return fmt.Sprintf("Distance %.0f m  ·  Time %.1fs\nTop speed %.1f  ·  Clean strokes %.0f%%",
		snap.TotalDistance, snap.TotalTime, snap.TopSpeed, snap.SuccessRatio*100)
}

// RenderRide draws one frame of the ride screen.
func RenderRide(snap ride.Snapshot, message string, screenW int) string {
	width := barWidth(screenW)

	var b strings.Builder
	b.WriteString(renderHeader(snap))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(renderGauges(snap, width)))
	b.WriteString("\n")
	if message != "" {
		b.WriteString(messageStyle.Render(message))
	}
	b.WriteString("\n")

	if overlay := renderOverlay(snap); overlay != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(lipgloss.Width(b.String()), lipgloss.Center, overlay))
	}
	return b.String()
}
