package physics

import (
	"errors"
	"math"
	"testing"
)

func paramsWithMaxSpeed(t *testing.T, maxSpeed float64) Params {
	t.Helper()
	p := DefaultParams()
	p.MaxSpeed = maxSpeed
	p, err := NewParams(p)
	if err != nil {
		t.Fatalf("NewParams() failed: %v", err)
	}
	return p
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	want := 35.0 + 35.0*150.0/2850.0
	if math.Abs(p.SpeedAtZeroMs()-want) > 1e-9 {
		t.Errorf("SpeedAtZeroMs() = %v, expected %v", p.SpeedAtZeroMs(), want)
	}

	// The line passes through MaxSpeed at MinPedalInterval and zero at MaxPedalInterval.
	if got := p.SpeedForInterval(p.MinPedalInterval); math.Abs(got-p.MaxSpeed) > 1e-9 {
		t.Errorf("SpeedForInterval(min) = %v, expected %v", got, p.MaxSpeed)
	}
	if got := p.SpeedForInterval(p.MaxPedalInterval); math.Abs(got) > 1e-9 {
		t.Errorf("SpeedForInterval(max) = %v, expected 0", got)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero max speed", func(p *Params) { p.MaxSpeed = 0 }},
		{"min speed above max", func(p *Params) { p.MinSpeed = 40 }},
		{"moving speed below min", func(p *Params) { p.MinSpeed = 2; p.MinMovingSpeed = 1 }},
		{"inverted stamina", func(p *Params) { p.MaxStamina = 0 }},
		{"negative min interval", func(p *Params) { p.MinPedalInterval = -1 }},
		{"window collapsed", func(p *Params) { p.MaxPedalInterval = p.MinPedalInterval }},
		{"zero distance scale", func(p *Params) { p.DistanceScale = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			if _, err := NewParams(p); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("NewParams() error = %v, expected ErrInvalidParams", err)
			}
		})
	}

	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("default params should validate, got %v", err)
	}
}

func TestParamsWithDefaults(t *testing.T) {
	p := Params{MaxSpeed: 25, MinPedalInterval: 200}.WithDefaults()
	if p.MaxSpeed != 25 || p.MinPedalInterval != 200 {
		t.Errorf("set fields changed: %+v", p)
	}
	if p.MaxPedalInterval != DefaultMaxPedalInterval || p.DistanceScale != DefaultDistanceScale {
		t.Errorf("zero fields not filled: %+v", p)
	}
	if _, err := NewParams(p); err != nil {
		t.Errorf("filled params invalid: %v", err)
	}

	if (Params{}).WithDefaults() != (Params{
		MaxSpeed:         DefaultMaxSpeed,
		MinMovingSpeed:   DefaultMinMovingSpeed,
		MaxStamina:       DefaultMaxStamina,
		MinPedalInterval: DefaultMinPedalInterval,
		MaxPedalInterval: DefaultMaxPedalInterval,
		DistancePerSpeed: DefaultDistancePerSpeed,
		DistanceScale:    DefaultDistanceScale,
	}) {
		t.Error("empty params should take every default")
	}
}

func TestFirstPedal(t *testing.T) {
	e := NewEngine(DefaultParams())

	if got := e.PredictSpeedChange(0); got != e.Params().MinMovingSpeed {
		t.Errorf("PredictSpeedChange before first pedal = %v, expected %v", got, e.Params().MinMovingSpeed)
	}
	if got := e.PredictStaminaChange(0); got != 0 {
		t.Errorf("PredictStaminaChange before first pedal = %v, expected 0", got)
	}

	if !e.HandlePedal(SideLeft, 0) {
		t.Fatal("first pedal should be accepted")
	}
	if e.Speed() != 1.0 {
		t.Errorf("speed after first pedal = %v, expected 1.0", e.Speed())
	}
	if e.Stamina() != 100.0 {
		t.Errorf("stamina after first pedal = %v, expected 100.0", e.Stamina())
	}
	if e.LastPedalSide() != SideLeft {
		t.Errorf("last side = %v, expected left", e.LastPedalSide())
	}
	if !e.HasPedaled() {
		t.Error("HasPedaled() should be true after a stroke at t=0")
	}
}

func TestSameSideRejected(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.HandlePedal(SideLeft, 0)
	before := e.State()

	if e.HandlePedal(SideLeft, 400) {
		t.Error("same side twice should be rejected")
	}
	if e.State() != before {
		t.Errorf("state changed on rejection: before %+v, after %+v", before, e.State())
	}

	// Immediate repeat one millisecond later is rejected as well.
	e.HandlePedal(SideRight, 900)
	before = e.State()
	if e.HandlePedal(SideRight, 901) {
		t.Error("same side at t+1 should be rejected")
	}
	if e.State() != before {
		t.Error("state changed on t+1 rejection")
	}
}

func TestSideNoneRejected(t *testing.T) {
	e := NewEngine(DefaultParams())
	if e.HandlePedal(SideNone, 10) {
		t.Error("SideNone should never be accepted")
	}
	if e.HasPedaled() {
		t.Error("rejected stroke should not count as pedaling")
	}
}

func TestAlternationInvariant(t *testing.T) {
	e := NewEngine(DefaultParams())

	inputs := []Side{SideLeft, SideLeft, SideRight, SideRight, SideLeft, SideRight, SideRight, SideLeft}
	var accepted []Side
	now := int64(0)
	for _, side := range inputs {
		now += 700
		if e.HandlePedal(side, now) {
			accepted = append(accepted, side)
		}
		if len(accepted) > 0 && e.LastPedalSide() != accepted[len(accepted)-1] {
			t.Fatalf("last side = %v, expected %v", e.LastPedalSide(), accepted[len(accepted)-1])
		}
	}

	for i := 1; i < len(accepted); i++ {
		if accepted[i] == accepted[i-1] {
			t.Errorf("accepted strokes %d and %d share side %v", i-1, i, accepted[i])
		}
	}
	// L, R, L, R, L: every repeat of the previous side is dropped.
	if len(accepted) != 5 {
		t.Errorf("accepted %d strokes, expected 5", len(accepted))
	}
}

func TestSecondPedalAppliesFormulas(t *testing.T) {
	p := paramsWithMaxSpeed(t, 25)
	e := NewEngine(p)

	e.HandlePedal(SideLeft, 0)
	expected := e.CurrInterval()
	wantSpeedChange := p.SpeedForInterval(900) - e.Speed()
	wantStaminaChange := math.Trunc(0.075 * (float64(900-expected) + 200))
	if 900-expected > 0 {
		wantStaminaChange = math.Trunc(-0.075*float64(900-expected) + 15)
	}

	if got := e.PredictSpeedChange(900); math.Abs(got-wantSpeedChange) > 1e-9 {
		t.Errorf("PredictSpeedChange(900) = %v, expected %v", got, wantSpeedChange)
	}
	if got := e.PredictStaminaChange(900); got != wantStaminaChange {
		t.Errorf("PredictStaminaChange(900) = %v, expected %v", got, wantStaminaChange)
	}

	speedBefore, staminaBefore := e.Speed(), e.Stamina()
	if !e.HandlePedal(SideRight, 900) {
		t.Fatal("alternating pedal should be accepted")
	}

	wantSpeed := math.Min(math.Max(0, speedBefore+wantSpeedChange), 25)
	wantStamina := math.Min(math.Max(0, staminaBefore+wantStaminaChange), 100)
	if math.Abs(e.Speed()-wantSpeed) > 1e-9 {
		t.Errorf("speed = %v, expected %v", e.Speed(), wantSpeed)
	}
	if e.Stamina() != wantStamina {
		t.Errorf("stamina = %v, expected %v", e.Stamina(), wantStamina)
	}
	if e.LastPedalInterval() != 900 {
		t.Errorf("last interval = %d, expected 900", e.LastPedalInterval())
	}
	// 900ms sustains roughly 18.4 at max speed 25.
	if e.Speed() < 18.4 || e.Speed() > 18.43 {
		t.Errorf("speed = %v, expected about 18.42", e.Speed())
	}
}

func TestSpamStroke(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.HandlePedal(SideLeft, 1000)

	if got := e.PredictSpeedChange(1100); got != 0 {
		t.Errorf("PredictSpeedChange for spam = %v, expected 0", got)
	}
	if got := e.PredictStaminaChange(1100); got != -100 {
		t.Errorf("PredictStaminaChange for spam = %v, expected -100", got)
	}

	if !e.HandlePedal(SideRight, 1100) {
		t.Fatal("spam stroke on the other side is still accepted")
	}
	if e.Speed() != 1.0 {
		t.Errorf("spam should not change speed, got %v", e.Speed())
	}
	if e.Stamina() != 0 {
		t.Errorf("spam should drain stamina to 0, got %v", e.Stamina())
	}
}

func TestStaminaBranches(t *testing.T) {
	tests := []struct {
		name string
		diff int64
		want float64
	}{
		{"on time", 0, 15},
		{"slightly late", 100, 7},
		{"break-even late", 200, 0},
		{"very late", 300, -7},
		{"slightly early", -100, 7},
		{"break-even early", -200, 0},
		{"very early", -300, -7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine(DefaultParams())
			e.state.Speed = 20
			e.state.LastPedalSide = SideLeft
			e.state.LastPedalTime = 10000

			now := 10000 + e.CurrInterval() + tc.diff
			if got := e.PredictStaminaChange(now); got != tc.want {
				t.Errorf("PredictStaminaChange(diff=%d) = %v, expected %v", tc.diff, got, tc.want)
			}
		})
	}
}

func TestPredictionsArePure(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.HandlePedal(SideLeft, 0)
	e.HandlePedal(SideRight, 800)
	before := e.State()

	for now := int64(800); now < 5000; now += 37 {
		_ = e.PredictSpeedChange(now)
		_ = e.PredictStaminaChange(now)
		_ = e.CurrInterval()
		_ = e.TimeSinceLastPedal(now)
	}

	if e.State() != before {
		t.Errorf("predictions mutated state: %+v -> %+v", before, e.State())
	}
}

func TestClampingProperty(t *testing.T) {
	e := NewEngine(DefaultParams())
	p := e.Params()

	intervals := []int64{10, 160, 300, 2900, 50, 200, 220, 180, 1500, 151, 3000, 149, 400, 250, 170}
	now := int64(0)
	side := SideLeft
	for round := 0; round < 20; round++ {
		for _, iv := range intervals {
			now += iv
			e.HandlePedal(side, now)
			side = side.Opposite()
			e.Update(float64(iv), now)

			if e.Speed() < p.MinSpeed || e.Speed() > p.MaxSpeed {
				t.Fatalf("speed %v out of [%v, %v]", e.Speed(), p.MinSpeed, p.MaxSpeed)
			}
			if e.Stamina() < p.MinStamina || e.Stamina() > p.MaxStamina {
				t.Fatalf("stamina %v out of [%v, %v]", e.Stamina(), p.MinStamina, p.MaxStamina)
			}
		}
	}
}

func TestCurrIntervalRoundTrip(t *testing.T) {
	e := NewEngine(DefaultParams())
	p := e.Params()
	// CurrInterval truncates to whole milliseconds, worth at most this much speed.
	tolerance := p.MaxSpeed / float64(p.MaxPedalInterval-p.MinPedalInterval)

	for speed := p.MinSpeed; speed <= p.MaxSpeed; speed += 0.37 {
		e.state.Speed = speed
		got := p.SpeedForInterval(e.CurrInterval())
		if math.Abs(got-speed) > tolerance+1e-9 {
			t.Errorf("round trip at speed %v gave %v", speed, got)
		}
	}
}

func TestUpdateDistance(t *testing.T) {
	e := NewEngine(DefaultParams())

	// Not moving before the first stroke.
	e.Update(1000, 1000)
	if e.Distance() != 0 {
		t.Errorf("distance before pedaling = %v, expected 0", e.Distance())
	}

	e.HandlePedal(SideLeft, 1000)
	e.state.Speed = 10
	e.Update(1000, 2000)

	// 10 speed * 10 units * 1s = 100 units = 33.33m
	if math.Abs(e.Distance()-100.0/3.0) > 1e-9 {
		t.Errorf("distance = %v, expected %v", e.Distance(), 100.0/3.0)
	}
}

func TestStallDrainsStamina(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.HandlePedal(SideLeft, 0)
	e.Update(500, 500)
	distance := e.Distance()

	e.Update(16, 3001)

	if e.Stamina() != 0 {
		t.Errorf("stamina after stall = %v, expected 0", e.Stamina())
	}
	if e.Distance() != distance {
		t.Errorf("stall advanced distance from %v to %v", distance, e.Distance())
	}

	// Exactly at the limit is not a stall yet.
	e2 := NewEngine(DefaultParams())
	e2.HandlePedal(SideLeft, 0)
	e2.Update(16, 3000)
	if e2.Stamina() != 100 {
		t.Errorf("stamina at the limit = %v, expected 100", e2.Stamina())
	}
}

func TestShiftClock(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.ShiftClock(500)
	if e.LastPedalTime() != 0 {
		t.Error("ShiftClock before pedaling should do nothing")
	}

	e.HandlePedal(SideLeft, 1000)
	e.ShiftClock(5000)
	if got := e.TimeSinceLastPedal(6500); got != 500 {
		t.Errorf("TimeSinceLastPedal after shift = %d, expected 500", got)
	}
}

func TestReset(t *testing.T) {
	e := NewEngine(DefaultParams())
	e.HandlePedal(SideLeft, 0)
	e.HandlePedal(SideRight, 700)
	e.Update(1000, 1000)

	e.Reset()

	if e.HasPedaled() || e.Speed() != 0 || e.Stamina() != 100 || e.Distance() != 0 {
		t.Errorf("Reset left state %+v", e.State())
	}
	if e.TimeSinceLastPedal(5000) != 0 {
		t.Error("TimeSinceLastPedal after reset should be 0")
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"left", SideLeft, false},
		{"RIGHT", SideRight, false},
		{" l ", SideLeft, false},
		{"r", SideRight, false},
		{"up", SideNone, true},
	}

	for _, tc := range tests {
		got, err := ParseSide(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseSide(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseSide(%q) = %v, expected %v", tc.in, got, tc.want)
		}
	}

	if SideLeft.Opposite() != SideRight || SideNone.Opposite() != SideNone {
		t.Error("Opposite() mismatch")
	}
}
