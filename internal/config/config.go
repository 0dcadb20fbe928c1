// Package config provides YAML-based configuration loading and difficulty
// presets for fixie.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/fixie/internal/levels"
	"github.com/vovakirdan/fixie/internal/physics"
)

// ErrInvalid is returned when a configuration cannot be used.
var ErrInvalid = errors.New("config: invalid configuration")

// Config contains everything needed to set up a ride.
type Config struct {
	Physics         PhysicsConfig `yaml:"physics"`
	Levels          []LevelConfig `yaml:"levels"`
	DefaultDistance float64       `yaml:"default_distance"` // meters for levels missing from the table
	TickRate        int           `yaml:"tick_rate"`        // simulation ticks per second
	Storage         StorageConfig `yaml:"storage"`
	Backend         BackendConfig `yaml:"backend"`
	Player          PlayerConfig  `yaml:"player"`
}

// PhysicsConfig mirrors physics.Params.
type PhysicsConfig struct {
	MaxSpeed         float64 `yaml:"max_speed"`
	MinSpeed         float64 `yaml:"min_speed"`
	MinMovingSpeed   float64 `yaml:"min_moving_speed"`
	MaxStamina       float64 `yaml:"max_stamina"`
	MinStamina       float64 `yaml:"min_stamina"`
	MinPedalInterval int64   `yaml:"min_pedal_interval"` // ms
	MaxPedalInterval int64   `yaml:"max_pedal_interval"` // ms
	DistancePerSpeed float64 `yaml:"distance_per_speed"`
	DistanceScale    float64 `yaml:"distance_scale"`
}

// LevelConfig is one entry of the level table.
type LevelConfig struct {
	Level    int     `yaml:"level"`
	Distance float64 `yaml:"distance"` // meters
}

// StorageConfig locates the local ride database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// BackendConfig points at the remote session API. An empty URL means offline.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PlayerConfig identifies the rider.
type PlayerConfig struct {
	Name string `yaml:"name"`
}

// PhysicsParams converts the physics section into validated engine params.
func (c Config) PhysicsParams() (physics.Params, error) {
	p, err := physics.NewParams(physics.Params{
		MaxSpeed:         c.Physics.MaxSpeed,
		MinSpeed:         c.Physics.MinSpeed,
		MinMovingSpeed:   c.Physics.MinMovingSpeed,
		MaxStamina:       c.Physics.MaxStamina,
		MinStamina:       c.Physics.MinStamina,
		MinPedalInterval: c.Physics.MinPedalInterval,
		MaxPedalInterval: c.Physics.MaxPedalInterval,
		DistancePerSpeed: c.Physics.DistancePerSpeed,
		DistanceScale:    c.Physics.DistanceScale,
	})
	if err != nil {
		return physics.Params{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return p, nil
}

// Catalog builds the level catalog from the level table.
func (c Config) Catalog() (*levels.Catalog, error) {
	if len(c.Levels) == 0 {
		return levels.Default(), nil
	}
	entries := make([]levels.Level, 0, len(c.Levels))
	for _, l := range c.Levels {
		entries = append(entries, levels.Level{Number: l.Level, Distance: l.Distance})
	}
	cat, err := levels.New(entries, c.DefaultDistance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return cat, nil
}

// Validate checks that the configuration can drive a ride.
func (c Config) Validate() error {
	if _, err := c.PhysicsParams(); err != nil {
		return err
	}
	if _, err := c.Catalog(); err != nil {
		return err
	}
	if c.DefaultDistance < 0 {
		return fmt.Errorf("%w: default distance %v is negative", ErrInvalid, c.DefaultDistance)
	}
	if c.TickRate < 1 || c.TickRate > 240 {
		return fmt.Errorf("%w: tick rate %d outside [1, 240]", ErrInvalid, c.TickRate)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("%w: backend timeout %v is negative", ErrInvalid, c.Backend.Timeout)
	}
	return nil
}
