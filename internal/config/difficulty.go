package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(strings.ToLower(strings.TrimSpace(s))) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q (want easy, normal or hard)", ErrInvalid, s)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Normal leaves the loaded values alone.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		// Forgiving cadence, bigger stamina pool, shorter levels.
		cfg.Physics.MinPedalInterval = 120
		cfg.Physics.MaxPedalInterval = 4000
		cfg.Physics.MaxStamina = 150
		scaleLevels(cfg, 0.75)
	case DifficultyHard:
		cfg.Physics.MinPedalInterval = 180
		cfg.Physics.MaxPedalInterval = 2200
		cfg.Physics.MaxStamina = 75
		scaleLevels(cfg, 1.25)
	}
}

func scaleLevels(cfg *Config, factor float64) {
	for i := range cfg.Levels {
		cfg.Levels[i].Distance *= factor
	}
	cfg.DefaultDistance *= factor
}
