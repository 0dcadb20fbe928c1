package ride

import "github.com/vovakirdan/fixie/internal/physics"

// Event is something the presentation layer may want to react to.
type Event interface {
	rideEvent()
}

// RejectReason explains why a pedal stroke was refused.
type RejectReason int

const (
	RejectNone     RejectReason = iota
	RejectSameSide              // same pedal twice in a row
)

// PedalEvent is emitted for every stroke the engine evaluated.
type PedalEvent struct {
	Side     physics.Side
	Accepted bool
	Reason   RejectReason
	Speed    float64
	Stamina  float64
	Interval int64 // ms since the previous accepted stroke, 0 for the first
}

func (PedalEvent) rideEvent() {}

// LevelStartedEvent is emitted when a level is entered.
type LevelStartedEvent struct {
	Level  int
	Target float64
}

func (LevelStartedEvent) rideEvent() {}

// LevelCompleteEvent is emitted when the distance goal is reached.
type LevelCompleteEvent struct {
	Level   int
	Seconds float64
}

func (LevelCompleteEvent) rideEvent() {}

// GameOverEvent is emitted when a run fails.
type GameOverEvent struct {
	Reason EndReason
	Level  int
}

func (GameOverEvent) rideEvent() {}

// FinishedEvent is emitted when the final level has been passed.
type FinishedEvent struct {
	TotalDistance float64
	TotalTime     float64
}

func (FinishedEvent) rideEvent() {}
