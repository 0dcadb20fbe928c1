package ride

import "github.com/vovakirdan/fixie/internal/stats"

// Summary is the final account of a run handed to the SessionReporter.
type Summary struct {
	Outcome          EndReason
	Level            int // level the run ended on
	LevelsCompleted  int
	MaxSpeed         float64
	TotalDistance    float64 // meters
	TotalTime        float64 // seconds
	TotalPedals      int
	SuccessfulPedals int
	SuccessRatio     float64
	LevelTimes       []stats.LevelTime
}

// SessionReporter receives run start and end notifications.
// Implementations must return promptly and absorb their own failures: the
// simulation never waits on them and never inspects their outcome.
type SessionReporter interface {
	// StartSession is called once when a run starts. It returns a session
	// identifier, or "" when none is available.
	StartSession() string

	// EndSession is called once when a run ends, with the identifier
	// returned by StartSession.
	EndSession(sessionID string, summary Summary)
}

// SessionDiscarder is implemented by reporters that keep per-session state.
// Restart calls DiscardSession for a run that was started but never ended,
// so the reporter can forget it without reporting an outcome.
type SessionDiscarder interface {
	DiscardSession(sessionID string)
}

// NopReporter discards all session notifications.
type NopReporter struct{}

// StartSession returns no identifier.
func (NopReporter) StartSession() string { return "" }

// EndSession does nothing.
func (NopReporter) EndSession(string, Summary) {}
