package core

import "testing"

func TestManualClock(t *testing.T) {
	c := NewManualClock(0)
	if c.NowMillis() != 0 {
		t.Fatalf("NowMillis() = %d, expected 0", c.NowMillis())
	}

	if got := c.Advance(900); got != 900 {
		t.Errorf("Advance(900) = %d, expected 900", got)
	}
	c.Advance(100)
	if c.NowMillis() != 1000 {
		t.Errorf("NowMillis() = %d, expected 1000", c.NowMillis())
	}

	c.Set(42)
	if c.NowMillis() != 42 {
		t.Errorf("after Set(42) NowMillis() = %d", c.NowMillis())
	}
}

func TestMonotonicClockNeverGoesBack(t *testing.T) {
	c := NewMonotonicClock()
	prev := c.NowMillis()
	for i := 0; i < 1000; i++ {
		now := c.NowMillis()
		if now < prev {
			t.Fatalf("clock went backwards: %d -> %d", prev, now)
		}
		prev = now
	}
}

func TestTickMillis(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickRate = 50
	if got := cfg.TickMillis(); got != 20 {
		t.Errorf("TickMillis() = %v, expected 20", got)
	}

	cfg.TickRate = 0
	if got := cfg.TickMillis(); got <= 16 || got >= 17 {
		t.Errorf("TickMillis() with zero rate = %v, expected 60fps fallback", got)
	}
}
