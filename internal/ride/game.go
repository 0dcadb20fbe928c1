// Package ride drives a run: levels, pedal input, failure detection and
// session reporting on top of the physics engine.
//
// A Game is single-writer. The host calls HandlePedalInput for every key
// press and Tick once per frame, always passing a monotonic timestamp in
// milliseconds. Nothing in here reads the wall clock or blocks.
package ride

import (
	"github.com/vovakirdan/fixie/internal/core"
	"github.com/vovakirdan/fixie/internal/levels"
	"github.com/vovakirdan/fixie/internal/physics"
	"github.com/vovakirdan/fixie/internal/stats"
)

// Options configures a new Game. Zero values fall back to defaults. Params
// that fail validation have their zero fields filled from the defaults and,
// if still invalid, are replaced by the defaults.
type Options struct {
	Params     physics.Params
	Catalog    *levels.Catalog
	Reporter   SessionReporter
	StartLevel int
}

// Game is the level state machine for one player.
type Game struct {
	engine   *physics.Engine
	catalog  *levels.Catalog
	tracker  *stats.Tracker
	reporter SessionReporter

	level         int
	levelComplete bool
	allComplete   bool
	gameOver      bool
	reason        EndReason
	completedAt   int64

	paused   bool
	pausedAt int64

	sessionID string
	ended     bool
	summary   Summary

	events []Event
}

// New creates a game, starts a session and prepares the first level.
func New(opts Options) *Game {
	params := resolveParams(opts.Params)
	catalog := opts.Catalog
	if catalog == nil {
		catalog = levels.Default()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}

	g := &Game{
		engine:   physics.NewEngine(params),
		catalog:  catalog,
		tracker:  stats.NewTracker(),
		reporter: reporter,
	}

	start := opts.StartLevel
	if !catalog.Has(start) {
		start = 1
	}
	g.enterLevel(start)
	g.sessionID = g.reporter.StartSession()
	return g
}

func resolveParams(p physics.Params) physics.Params {
	if valid, err := physics.NewParams(p); err == nil {
		return valid
	}
	if filled, err := physics.NewParams(p.WithDefaults()); err == nil {
		return filled
	}
	return physics.DefaultParams()
}

// PrepareLevel marks the level timer as not started.
func (g *Game) PrepareLevel(level int) {
	g.tracker.PrepareLevel(level)
}

// HandlePedalInput feeds one key press into the engine. It returns whether
// the stroke was accepted.
func (g *Game) HandlePedalInput(side physics.Side, now int64) bool {
	if g.gameOver || g.paused || g.levelComplete || g.allComplete {
		return false
	}

	g.tracker.StartLevelTimer(g.level, now)

	prevInterval := g.engine.LastPedalInterval()
	hadPedaled := g.engine.HasPedaled()
	sameSide := side != physics.SideNone && side == g.engine.LastPedalSide()

	accepted := g.engine.HandlePedal(side, now)
	g.tracker.RecordAttempt(accepted, g.engine.Speed())

	ev := PedalEvent{
		Side:     side,
		Accepted: accepted,
		Speed:    g.engine.Speed(),
		Stamina:  g.engine.Stamina(),
	}
	if accepted {
		if hadPedaled {
			ev.Interval = g.engine.LastPedalInterval()
		}
	} else {
		ev.Interval = prevInterval
		if sameSide {
			ev.Reason = RejectSameSide
		}
	}
	g.emit(ev)
	return accepted
}

// Tick advances the simulation by dt milliseconds ending at now.
func (g *Game) Tick(dt float64, now int64) {
	if g.gameOver || g.paused || g.levelComplete {
		return
	}

	g.engine.Update(dt, now)

	p := g.engine.Params()
	if g.engine.HasPedaled() && g.engine.TimeSinceLastPedal(now) > p.MaxPedalInterval {
		g.fail(EndStalled, now)
		return
	}
	if g.engine.Stamina() <= 0 {
		g.fail(EndExhausted, now)
		return
	}

	if g.engine.Distance() >= g.catalog.Target(g.level) {
		g.levelComplete = true
		g.completedAt = now
		secs := g.tracker.CompleteLevel(g.level, now)
		g.emit(LevelCompleteEvent{Level: g.level, Seconds: secs})
	}
}

// AdvanceLevel moves on from a completed level. On the last level it
// finishes the run instead. It reports whether anything changed.
func (g *Game) AdvanceLevel() bool {
	if !g.levelComplete || g.allComplete || g.gameOver {
		return false
	}

	if g.level >= g.catalog.MaxLevel() {
		g.allComplete = true
		g.reason = EndFinished
		g.emit(FinishedEvent{
			TotalDistance: g.TotalDistance(),
			TotalTime:     g.TotalTime(g.completedAt),
		})
		g.EndGame(g.completedAt)
		return true
	}

	g.engine.Reset()
	g.enterLevel(g.level + 1)
	return true
}

// EndGame closes the run and reports it. Calling it again has no effect.
// When the run is still in progress it is recorded as quit.
func (g *Game) EndGame(now int64) {
	if g.ended {
		return
	}
	if g.paused {
		now = g.pausedAt
	}
	if !g.gameOver && !g.allComplete {
		g.gameOver = true
		g.reason = EndQuit
	}
	if !g.tracker.IsCompleted(g.level) {
		g.tracker.EndLevel(g.level, now)
	}
	g.ended = true
	g.summary = g.buildSummary(now)
	g.reporter.EndSession(g.sessionID, g.summary)
}

// Restart discards the current run and starts over from level 1 with a new
// session. An unfinished run is dropped without being reported; reporters
// implementing SessionDiscarder are told to forget its session.
func (g *Game) Restart() {
	if !g.ended && g.sessionID != "" {
		if d, ok := g.reporter.(SessionDiscarder); ok {
			d.DiscardSession(g.sessionID)
		}
	}
	g.engine.Reset()
	g.tracker = stats.NewTracker()
	g.levelComplete = false
	g.allComplete = false
	g.gameOver = false
	g.reason = EndNone
	g.completedAt = 0
	g.paused = false
	g.pausedAt = 0
	g.ended = false
	g.summary = Summary{}
	g.events = nil
	g.enterLevel(1)
	g.sessionID = g.reporter.StartSession()
}

// SetPaused freezes or resumes the run. Time spent paused counts neither
// as inactivity nor as level time.
func (g *Game) SetPaused(paused bool, now int64) {
	if paused == g.paused {
		return
	}
	if paused {
		if g.gameOver || g.allComplete {
			return
		}
		g.paused = true
		g.pausedAt = now
		return
	}

	g.paused = false
	delta := now - g.pausedAt
	if delta > 0 && !g.levelComplete {
		g.engine.ShiftClock(delta)
		g.tracker.ShiftLevel(g.level, delta)
	}
}

// TogglePause flips the paused state.
func (g *Game) TogglePause(now int64) {
	g.SetPaused(!g.paused, now)
}

// TotalDistance returns meters covered across all levels of the run.
func (g *Game) TotalDistance() float64 {
	total := 0.0
	for _, lvl := range g.tracker.CompletedLevels() {
		total += g.catalog.Target(lvl)
	}
	switch {
	case !g.levelComplete:
		total += g.engine.Distance()
	case !g.tracker.IsCompleted(g.level):
		total += g.catalog.Target(g.level)
	}
	return total
}

// TotalTime returns seconds spent riding across all levels of the run.
func (g *Game) TotalTime(now int64) float64 {
	total := g.tracker.TotalCompletionTime()
	if !g.levelComplete && g.tracker.LevelStarted(g.level) {
		total += g.LevelTime(now)
	}
	return total
}

// LevelTime returns seconds spent on the current level.
func (g *Game) LevelTime(now int64) float64 {
	if g.paused {
		now = g.pausedAt
	}
	return g.tracker.CurrentLevelTime(g.level, now)
}

// Progress returns the fraction of the current level covered.
func (g *Game) Progress() float64 {
	if g.levelComplete {
		return 1
	}
	return core.Ratio(g.engine.Distance(), g.catalog.Target(g.level))
}

// Phase returns the current state of the run.
func (g *Game) Phase() Phase {
	switch {
	case g.gameOver:
		return PhaseGameOver
	case g.allComplete:
		return PhaseAllComplete
	case g.levelComplete:
		return PhaseLevelComplete
	case !g.engine.HasPedaled():
		return PhaseAwaitingFirstPedal
	default:
		return PhaseInLevel
	}
}

func (g *Game) Level() int { return g.level }
func (g *Game) MaxLevel() int { return g.catalog.MaxLevel() }
func (g *Game) Target() float64 { return g.catalog.Target(g.level) }
func (g *Game) Speed() float64 { return g.engine.Speed() }
func (g *Game) Stamina() float64 { return g.engine.Stamina() }
func (g *Game) GameOver() bool { return g.gameOver }
func (g *Game) Reason() EndReason { return g.reason }
func (g *Game) LevelComplete() bool { return g.levelComplete }
func (g *Game) AllLevelsComplete() bool { return g.allComplete }
func (g *Game) Paused() bool { return g.paused }
func (g *Game) Ended() bool { return g.ended }
func (g *Game) SessionID() string { return g.sessionID }
func (g *Game) SuccessRatio() float64 { return g.tracker.SuccessRatio() }
func (g *Game) Physics() physics.Reader { return g.engine }
func (g *Game) Stats() *stats.Tracker { return g.tracker }
func (g *Game) Catalog() *levels.Catalog { return g.catalog }

// Summary returns the report produced by EndGame, or false if the run has
// not ended yet.
func (g *Game) Summary() (Summary, bool) {
	return g.summary, g.ended
}

// DrainEvents returns and clears pending events.
func (g *Game) DrainEvents() []Event {
	ev := g.events
	g.events = nil
	return ev
}

func (g *Game) enterLevel(level int) {
	g.level = level
	g.levelComplete = false
	g.completedAt = 0
	g.tracker.PrepareLevel(level)
	g.emit(LevelStartedEvent{Level: level, Target: g.catalog.Target(level)})
}

func (g *Game) fail(reason EndReason, now int64) {
	g.gameOver = true
	g.reason = reason
	g.emit(GameOverEvent{Reason: reason, Level: g.level})
	g.EndGame(now)
}

func (g *Game) emit(ev Event) {
	g.events = append(g.events, ev)
}

func (g *Game) buildSummary(now int64) Summary {
	return Summary{
		Outcome:          g.reason,
		Level:            g.level,
		LevelsCompleted:  len(g.tracker.CompletedLevels()),
		MaxSpeed:         g.tracker.MaxSpeed(),
		TotalDistance:    g.TotalDistance(),
		TotalTime:        g.TotalTime(now),
		TotalPedals:      g.tracker.TotalPedals(),
		SuccessfulPedals: g.tracker.SuccessfulPedals(),
		SuccessRatio:     g.tracker.SuccessRatio(),
		LevelTimes:       g.tracker.LevelTimes(now),
	}
}
