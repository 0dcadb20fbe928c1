package physics

import "math"

// State is the mutable physics state. Only Engine mutates it.
type State struct {
	Speed             float64
	DistanceTraveled  float64 // internal units, see Params.DistanceScale
	Stamina           float64
	LastPedalSide     Side
	LastPedalTime     int64 // ms
	LastPedalInterval int64 // ms between the last two accepted strokes
}

// Reader is the read-only view of an Engine. Every method is pure: calling it
// never changes the state.
type Reader interface {
	Params() Params
	State() State
	Speed() float64
	Distance() float64
	Stamina() float64
	HasPedaled() bool
	LastPedalSide() Side
	LastPedalTime() int64
	LastPedalInterval() int64
	TimeSinceLastPedal(now int64) int64
	CurrInterval() int64
	PredictSpeedChange(now int64) float64
	PredictStaminaChange(now int64) float64
}

// Engine owns a State and applies pedal strokes and time steps to it.
type Engine struct {
	params Params
	state  State
}

var _ Reader = (*Engine)(nil)

// NewEngine creates an engine at rest with full stamina.
// p must be valid; see NewParams.
func NewEngine(p Params) *Engine {
	e := &Engine{params: p.withDerived()}
	e.Reset()
	return e
}

// Reset reinitializes the state to its defaults.
func (e *Engine) Reset() {
	e.state = State{
		Speed:   e.params.MinSpeed,
		Stamina: e.params.MaxStamina,
	}
}

// Params returns the engine tuning.
func (e *Engine) Params() Params {
	return e.params
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state
}

// Speed returns the current speed.
func (e *Engine) Speed() float64 {
	return e.state.Speed
}

// Distance returns the distance traveled in meters.
func (e *Engine) Distance() float64 {
	return e.state.DistanceTraveled / e.params.DistanceScale
}

// Stamina returns the current stamina.
func (e *Engine) Stamina() float64 {
	return e.state.Stamina
}

// HasPedaled reports whether any stroke has been accepted since the last reset.
func (e *Engine) HasPedaled() bool {
	return e.state.LastPedalSide != SideNone
}

// LastPedalSide returns the side of the last accepted stroke.
func (e *Engine) LastPedalSide() Side {
	return e.state.LastPedalSide
}

// LastPedalTime returns the timestamp of the last accepted stroke.
func (e *Engine) LastPedalTime() int64 {
	return e.state.LastPedalTime
}

// LastPedalInterval returns the interval that produced the last accepted stroke.
func (e *Engine) LastPedalInterval() int64 {
	return e.state.LastPedalInterval
}

// TimeSinceLastPedal returns ms since the last stroke, or 0 before the first.
func (e *Engine) TimeSinceLastPedal(now int64) int64 {
	if !e.HasPedaled() {
		return 0
	}
	return now - e.state.LastPedalTime
}

// CurrInterval returns the interval that would exactly hold the current speed.
func (e *Engine) CurrInterval() int64 {
	return e.params.IntervalForSpeed(e.state.Speed)
}

// PredictSpeedChange returns the speed delta a stroke at now would cause.
// Strokes faster than MinPedalInterval change nothing.
func (e *Engine) PredictSpeedChange(now int64) float64 {
	if !e.HasPedaled() {
		return e.params.MinMovingSpeed
	}

	interval := now - e.state.LastPedalTime
	if interval < e.params.MinPedalInterval {
		return 0
	}
	return e.params.SpeedForInterval(interval) - e.state.Speed
}

// PredictStaminaChange returns the stamina delta a stroke at now would cause.
// Late strokes lose stamina linearly with lateness (gaining a little when only
// slightly late); early strokes gain up to 200ms ahead of the sweet spot and
// lose beyond that. Spamming costs SpamStaminaPenalty.
func (e *Engine) PredictStaminaChange(now int64) float64 {
	if !e.HasPedaled() {
		return 0
	}

	interval := now - e.state.LastPedalTime
	if interval < e.params.MinPedalInterval {
		return SpamStaminaPenalty
	}

	diff := float64(interval - e.CurrInterval())
	if diff > 0 {
		return math.Trunc(-0.075*diff + 15)
	}
	return math.Trunc(0.075 * (diff + 200))
}

// HandlePedal registers a stroke. A repeat of the last side is rejected and
// leaves the state untouched.
func (e *Engine) HandlePedal(side Side, now int64) bool {
	if side == SideNone {
		return false
	}
	if e.HasPedaled() && side == e.state.LastPedalSide {
		return false
	}

	if e.HasPedaled() {
		staminaChange := e.PredictStaminaChange(now)
		speedChange := e.PredictSpeedChange(now)
		p := e.params
		e.state.Speed = math.Min(math.Max(p.MinSpeed, e.state.Speed+speedChange), p.MaxSpeed)
		e.state.Stamina = math.Min(math.Max(p.MinStamina, e.state.Stamina+staminaChange), p.MaxStamina)
		e.state.LastPedalInterval = now - e.state.LastPedalTime
	} else {
		e.state.Speed = e.params.MinMovingSpeed
	}

	e.state.LastPedalSide = side
	e.state.LastPedalTime = now
	return true
}

// Update advances distance by dt milliseconds of riding. After MaxPedalInterval
// without a stroke the rider stalls: stamina drops to the minimum and no
// distance is covered.
func (e *Engine) Update(dt float64, now int64) {
	if e.HasPedaled() && now-e.state.LastPedalTime > e.params.MaxPedalInterval {
		e.state.Stamina = e.params.MinStamina
		return
	}

	if e.state.Speed > 0 && dt > 0 {
		e.state.DistanceTraveled += e.state.Speed * e.params.DistancePerSpeed * (dt / 1000.0)
	}
}

// ShiftClock moves the last stroke forward by delta ms, so a pause of delta
// does not count as time without pedaling.
func (e *Engine) ShiftClock(delta int64) {
	if e.HasPedaled() && delta > 0 {
		e.state.LastPedalTime += delta
	}
}
