package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/fixie/internal/levels"
	"github.com/vovakirdan/fixie/internal/physics"
)

//go:embed defaults/fixie.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Physics: PhysicsConfig{
			MaxSpeed:         physics.DefaultMaxSpeed,
			MinSpeed:         physics.DefaultMinSpeed,
			MinMovingSpeed:   physics.DefaultMinMovingSpeed,
			MaxStamina:       physics.DefaultMaxStamina,
			MinStamina:       physics.DefaultMinStamina,
			MinPedalInterval: physics.DefaultMinPedalInterval,
			MaxPedalInterval: physics.DefaultMaxPedalInterval,
			DistancePerSpeed: physics.DefaultDistancePerSpeed,
			DistanceScale:    physics.DefaultDistanceScale,
		},
		Levels: []LevelConfig{
			{Level: 1, Distance: 1000},
			{Level: 2, Distance: 1500},
			{Level: 3, Distance: 2000},
			{Level: 4, Distance: 2500},
		},
		DefaultDistance: levels.DefaultDistance,
		TickRate:        60,
		Storage: StorageConfig{
			DBPath: "~/.fixie/fixie.db",
		},
		Backend: BackendConfig{
			Timeout: 5 * time.Second,
		},
		Player: PlayerConfig{
			Name: "guest",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
