package ride

import "github.com/vovakirdan/fixie/internal/physics"

// Snapshot is a copy of everything the HUD shows for one frame.
type Snapshot struct {
	Phase     Phase
	Level     int
	MaxLevel  int
	Paused    bool
	Reason    EndReason
	SessionID string

	Speed    float64
	Stamina  float64
	Distance float64
	Target   float64
	Progress float64

	LastSide         physics.Side
	SinceLastPedal   int64
	LastInterval     int64
	TargetInterval   int64
	PredictedSpeed   float64
	PredictedStamina float64
	MinPedalInterval int64
	MaxPedalInterval int64
	MaxSpeed         float64
	MaxStamina       float64
	TopSpeed         float64
	SuccessRatio     float64
	LevelTime        float64
	TotalTime        float64
	TotalDistance    float64
	CompletedLevels  int
}

// Snapshot captures the current state as seen at now.
func (g *Game) Snapshot(now int64) Snapshot {
	if g.paused {
		now = g.pausedAt
	}
	p := g.engine.Params()
	return Snapshot{
		Phase:     g.Phase(),
		Level:     g.level,
		MaxLevel:  g.catalog.MaxLevel(),
		Paused:    g.paused,
		Reason:    g.reason,
		SessionID: g.sessionID,

		Speed:    g.engine.Speed(),
		Stamina:  g.engine.Stamina(),
		Distance: g.engine.Distance(),
		Target:   g.catalog.Target(g.level),
		Progress: g.Progress(),

		LastSide:         g.engine.LastPedalSide(),
		SinceLastPedal:   g.engine.TimeSinceLastPedal(now),
		LastInterval:     g.engine.LastPedalInterval(),
		TargetInterval:   g.engine.CurrInterval(),
		PredictedSpeed:   g.engine.PredictSpeedChange(now),
		PredictedStamina: g.engine.PredictStaminaChange(now),
		MinPedalInterval: p.MinPedalInterval,
		MaxPedalInterval: p.MaxPedalInterval,
		MaxSpeed:         p.MaxSpeed,
		MaxStamina:       p.MaxStamina,
		TopSpeed:         g.tracker.MaxSpeed(),
		SuccessRatio:     g.tracker.SuccessRatio(),
		LevelTime:        g.LevelTime(now),
		TotalTime:        g.TotalTime(now),
		TotalDistance:    g.TotalDistance(),
		CompletedLevels:  len(g.tracker.CompletedLevels()),
	}
}
