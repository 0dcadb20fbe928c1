// Package physics converts alternating, timed pedal strokes into speed, stamina
// and distance using closed-form interval formulas.
//
// The speed/interval relationship is a straight line and is invertible:
//
//	speedAtZeroMs = maxSpeed + maxSpeed*minInterval/(maxInterval-minInterval)
//	speed(i)      = speedAtZeroMs - i*maxSpeed/(maxInterval-minInterval)
//	interval(s)   = (speedAtZeroMs - s)*(maxInterval-minInterval)/maxSpeed
//
// Stamina compares the actual interval against interval(currentSpeed), the
// interval that would exactly hold the current speed.
package physics

import (
	"errors"
	"fmt"
)

// Default tuning values.
const (
	DefaultMaxSpeed         = 35.0
	DefaultMinSpeed         = 0.0
	DefaultMinMovingSpeed   = 1.0
	DefaultMaxStamina       = 100.0
	DefaultMinStamina       = 0.0
	DefaultMinPedalInterval = 150  // ms
	DefaultMaxPedalInterval = 3000 // ms
	DefaultDistancePerSpeed = 10.0 // internal distance units per speed unit per second
	DefaultDistanceScale    = 3.0  // internal distance units per meter
)

// Stamina penalty applied when strokes come faster than MinPedalInterval.
const SpamStaminaPenalty = -100.0

// ErrInvalidParams is returned by Validate for inconsistent tuning.
var ErrInvalidParams = errors.New("physics: invalid parameters")

// Params is the immutable tuning of an Engine.
type Params struct {
	MaxSpeed         float64
	MinSpeed         float64
	MinMovingSpeed   float64
	MaxStamina       float64
	MinStamina       float64
	MinPedalInterval int64
	MaxPedalInterval int64
	DistancePerSpeed float64
	DistanceScale    float64

	speedAtZeroMs float64
}

// DefaultParams returns the standard tuning.
func DefaultParams() Params {
	p, _ := NewParams(Params{
		MaxSpeed:         DefaultMaxSpeed,
		MinSpeed:         DefaultMinSpeed,
		MinMovingSpeed:   DefaultMinMovingSpeed,
		MaxStamina:       DefaultMaxStamina,
		MinStamina:       DefaultMinStamina,
		MinPedalInterval: DefaultMinPedalInterval,
		MaxPedalInterval: DefaultMaxPedalInterval,
		DistancePerSpeed: DefaultDistancePerSpeed,
		DistanceScale:    DefaultDistanceScale,
	})
	return p
}

// NewParams validates p and computes the derived speed at a zero interval.
func NewParams(p Params) (Params, error) {
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p.withDerived(), nil
}

// WithDefaults returns p with every zero field replaced by its default.
// MinSpeed and MinStamina default to zero and are left as they are.
func (p Params) WithDefaults() Params {
	if p.MaxSpeed == 0 {
		p.MaxSpeed = DefaultMaxSpeed
	}
	if p.MinMovingSpeed == 0 {
		p.MinMovingSpeed = DefaultMinMovingSpeed
	}
	if p.MaxStamina == 0 {
		p.MaxStamina = DefaultMaxStamina
	}
	if p.MinPedalInterval == 0 {
		p.MinPedalInterval = DefaultMinPedalInterval
	}
	if p.MaxPedalInterval == 0 {
		p.MaxPedalInterval = DefaultMaxPedalInterval
	}
	if p.DistancePerSpeed == 0 {
		p.DistancePerSpeed = DefaultDistancePerSpeed
	}
	if p.DistanceScale == 0 {
		p.DistanceScale = DefaultDistanceScale
	}
	return p
}

// withDerived fills in the values computed from the public fields.
func (p Params) withDerived() Params {
	if w := p.window(); w > 0 && p.MaxSpeed > 0 {
		p.speedAtZeroMs = p.MaxSpeed + p.MaxSpeed*float64(p.MinPedalInterval)/float64(w)
	}
	return p
}

// Validate checks the tuning for values the formulas cannot work with.
func (p Params) Validate() error {
	switch {
	case p.MaxSpeed <= 0:
		return fmt.Errorf("%w: max speed %v must be positive", ErrInvalidParams, p.MaxSpeed)
	case p.MinSpeed < 0 || p.MinSpeed > p.MaxSpeed:
		return fmt.Errorf("%w: min speed %v outside [0, %v]", ErrInvalidParams, p.MinSpeed, p.MaxSpeed)
	case p.MinMovingSpeed < p.MinSpeed || p.MinMovingSpeed > p.MaxSpeed:
		return fmt.Errorf("%w: min moving speed %v outside [%v, %v]", ErrInvalidParams, p.MinMovingSpeed, p.MinSpeed, p.MaxSpeed)
	case p.MaxStamina <= p.MinStamina:
		return fmt.Errorf("%w: max stamina %v must exceed min stamina %v", ErrInvalidParams, p.MaxStamina, p.MinStamina)
	case p.MinPedalInterval < 0:
		return fmt.Errorf("%w: min pedal interval %d is negative", ErrInvalidParams, p.MinPedalInterval)
	case p.MaxPedalInterval <= p.MinPedalInterval:
		return fmt.Errorf("%w: max pedal interval %d must exceed min pedal interval %d",
			ErrInvalidParams, p.MaxPedalInterval, p.MinPedalInterval)
	case p.DistanceScale <= 0:
		return fmt.Errorf("%w: distance scale %v must be positive", ErrInvalidParams, p.DistanceScale)
	case p.DistancePerSpeed < 0:
		return fmt.Errorf("%w: distance per speed %v is negative", ErrInvalidParams, p.DistancePerSpeed)
	}
	return nil
}

// SpeedAtZeroMs is the theoretical speed of a zero-length interval.
func (p Params) SpeedAtZeroMs() float64 {
	return p.speedAtZeroMs
}

// SpeedForInterval maps an interval in ms to the speed it sustains.
// Not clamped: shorter intervals give higher speeds and very long ones go negative.
func (p Params) SpeedForInterval(interval int64) float64 {
	return p.speedAtZeroMs - float64(interval)*p.MaxSpeed/float64(p.window())
}

// IntervalForSpeed is the inverse of SpeedForInterval, truncated to whole ms.
func (p Params) IntervalForSpeed(speed float64) int64 {
	return int64((p.speedAtZeroMs - speed) * float64(p.window()) / p.MaxSpeed)
}

func (p Params) window() int64 {
	return p.MaxPedalInterval - p.MinPedalInterval
}
