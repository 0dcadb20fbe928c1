package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fixie/internal/physics"
	"github.com/vovakirdan/fixie/internal/ride"
)

func baseSnapshot() ride.Snapshot {
	return ride.Snapshot{
		Phase:            ride.PhaseInLevel,
		Level:            1,
		MaxLevel:         4,
		Target:           1000,
		MinPedalInterval: 150,
		MaxPedalInterval: 3000,
		MaxSpeed:         35,
		MaxStamina:       100,
		Stamina:          100,
	}
}

func TestRenderBarWidth(t *testing.T) {
	for _, frac := range []float64{-1, 0, 0.33, 1, 2} {
		if w := lipgloss.Width(renderBar(frac, 20, goodStyle)); w != 20 {
			t.Errorf("renderBar(%v) width = %d, expected 20", frac, w)
		}
	}
}

func TestBarWidthClamps(t *testing.T) {
	if w := barWidth(0); w != minBarWidth {
		t.Errorf("barWidth(0) = %d, expected %d", w, minBarWidth)
	}
	if w := barWidth(500); w != maxBarWidth {
		t.Errorf("barWidth(500) = %d, expected %d", w, maxBarWidth)
	}
}

func TestRenderTimingBar(t *testing.T) {
	snap := baseSnapshot()

	idle := renderTimingBar(snap, 30)
	if lipgloss.Width(idle) != 30 || strings.Contains(idle, "┃") {
		t.Errorf("idle timing bar = %q", idle)
	}

	snap.LastSide = physics.SideLeft
	snap.TargetInterval = 600
	for _, since := range []int64{0, 1500, 2999, 9000} {
		snap.SinceLastPedal = since
		bar := renderTimingBar(snap, 30)
		if lipgloss.Width(bar) != 30 {
			t.Errorf("since=%d: width = %d, expected 30", since, lipgloss.Width(bar))
		}
		if strings.Count(bar, "┃") != 1 {
			t.Errorf("since=%d: expected exactly one marker in %q", since, bar)
		}
	}
}

func TestTimingStyleZones(t *testing.T) {
	if timingStyle(0).GetForeground() != goodStyle.GetForeground() {
		t.Error("target interval not green")
	}
	if timingStyle(sweetSpotMs+1).GetForeground() != warnStyle.GetForeground() {
		t.Error("just outside the sweet spot not yellow")
	}
	if timingStyle(sweetSpotMs+fadeMs).GetForeground() != badStyle.GetForeground() {
		t.Error("far from the target not red")
	}
}

func TestRenderRideOverlays(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ride.Snapshot)
		want   string
	}{
		{"riding", func(*ride.Snapshot) {}, "LEVEL 1/4"},
		{"awaiting", func(s *ride.Snapshot) { s.Phase = ride.PhaseAwaitingFirstPedal }, "to start pedaling"},
		{"paused", func(s *ride.Snapshot) { s.Paused = true }, "PAUSED"},
		{"level complete", func(s *ride.Snapshot) { s.Phase = ride.PhaseLevelComplete }, "LEVEL 1 COMPLETE"},
		{"finished", func(s *ride.Snapshot) { s.Phase = ride.PhaseAllComplete }, "YOU FINISHED ALL LEVELS!"},
		{"stalled", func(s *ride.Snapshot) {
			s.Phase = ride.PhaseGameOver
			s.Reason = ride.EndStalled
		}, "GAME OVER"},
		{"exhausted", func(s *ride.Snapshot) {
			s.Phase = ride.PhaseGameOver
			s.Reason = ride.EndExhausted
		}, ride.EndExhausted.String()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := baseSnapshot()
			tc.modify(&snap)
			out := RenderRide(snap, "", 100)
			if !strings.Contains(out, tc.want) {
				t.Errorf("RenderRide() missing %q:\n%s", tc.want, out)
			}
		})
	}
}

func TestRenderRideMessage(t *testing.T) {
	out := RenderRide(baseSnapshot(), msgGood, 80)
	if !strings.Contains(out, msgGood) {
		t.Errorf("RenderRide() missing message:\n%s", out)
	}
	if strings.Contains(RenderRide(baseSnapshot(), "", 80), msgGood) {
		t.Error("RenderRide() shows a message it was not given")
	}
}
