package core

// Action represents a semantic ride action, abstracted from physical key presses.
// This allows the ride to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionPedalLeft         // Left arrow, A
	ActionPedalRight        // Right arrow, D
	ActionConfirm           // Enter - continue to the next level
	ActionPause             // P, Escape - pause/unpause
	ActionRestart           // R key - restart after game over or finish
	ActionScoreboard        // L key - open leaderboard
	ActionBack              // M, B - back to menu
	ActionQuit              // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPedalLeft:
		return "PedalLeft"
	case ActionPedalRight:
		return "PedalRight"
	case ActionConfirm:
		return "Confirm"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionScoreboard:
		return "Scoreboard"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsPedal reports whether the action is a pedal stroke.
func (a Action) IsPedal() bool {
	return a == ActionPedalLeft || a == ActionPedalRight
}
