package ride

// Phase is the state of a run.
type Phase int

const (
	PhaseAwaitingFirstPedal Phase = iota
	PhaseInLevel
	PhaseLevelComplete
	PhaseAllComplete
	PhaseGameOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingFirstPedal:
		return "awaiting_first_pedal"
	case PhaseInLevel:
		return "in_level"
	case PhaseLevelComplete:
		return "level_complete"
	case PhaseAllComplete:
		return "all_complete"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// EndReason tells how a run ended.
type EndReason int

const (
	EndNone      EndReason = iota
	EndStalled             // no stroke for longer than the max pedal interval
	EndExhausted           // stamina ran out
	EndFinished            // every level completed
	EndQuit                // host ended the run early
)

// String returns a short message for the reason.
func (r EndReason) String() string {
	switch r {
	case EndStalled:
		return "stopped pedaling too long"
	case EndExhausted:
		return "ran out of stamina"
	case EndFinished:
		return "all levels complete"
	case EndQuit:
		return "quit"
	default:
		return ""
	}
}

// Code returns a stable identifier used for persistence.
func (r EndReason) Code() string {
	switch r {
	case EndStalled:
		return "stalled"
	case EndExhausted:
		return "exhausted"
	case EndFinished:
		return "finished"
	case EndQuit:
		return "quit"
	default:
		return "none"
	}
}
