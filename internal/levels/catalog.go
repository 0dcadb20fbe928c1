// Package levels holds the distance goal of every level.
package levels

import (
	"fmt"
	"sort"
)

// DefaultDistance is the target used for level numbers missing from a catalog.
const DefaultDistance = 1000.0

// Level is one entry of the catalog.
type Level struct {
	Number   int
	Distance float64 // meters
}

// Catalog maps level numbers to target distances. The zero value is empty;
// use Default or New.
type Catalog struct {
	distances map[int]float64
	fallback  float64
	order     []int
}

// Default returns the standard four-level catalog.
func Default() *Catalog {
	c, _ := New([]Level{
		{Number: 1, Distance: 1000},
		{Number: 2, Distance: 1500},
		{Number: 3, Distance: 2000},
		{Number: 4, Distance: 2500},
	}, DefaultDistance)
	return c
}

// New builds a catalog. Levels must be numbered 1..N without gaps and have
// positive distances.
func New(entries []Level, fallback float64) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("levels: catalog is empty")
	}
	if fallback <= 0 {
		fallback = DefaultDistance
	}

	c := &Catalog{
		distances: make(map[int]float64, len(entries)),
		fallback:  fallback,
	}
	for _, e := range entries {
		if e.Number < 1 {
			return nil, fmt.Errorf("levels: invalid level number %d", e.Number)
		}
		if e.Distance <= 0 {
			return nil, fmt.Errorf("levels: level %d has non-positive distance %v", e.Number, e.Distance)
		}
		if _, dup := c.distances[e.Number]; dup {
			return nil, fmt.Errorf("levels: level %d defined twice", e.Number)
		}
		c.distances[e.Number] = e.Distance
		c.order = append(c.order, e.Number)
	}
	sort.Ints(c.order)

	for i, n := range c.order {
		if n != i+1 {
			return nil, fmt.Errorf("levels: level %d missing", i+1)
		}
	}

	return c, nil
}

// Target returns the distance goal of a level, or the fallback for unknown levels.
func (c *Catalog) Target(level int) float64 {
	if d, ok := c.distances[level]; ok {
		return d
	}
	return c.fallback
}

// Has reports whether the level is part of the catalog.
func (c *Catalog) Has(level int) bool {
	_, ok := c.distances[level]
	return ok
}

// MaxLevel returns the number of the final level.
func (c *Catalog) MaxLevel() int {
	return len(c.order)
}

// Levels returns all entries ordered by level number.
func (c *Catalog) Levels() []Level {
	out := make([]Level, len(c.order))
	for i, n := range c.order {
		out[i] = Level{Number: n, Distance: c.distances[n]}
	}
	return out
}

// TotalDistance returns the sum of all targets.
func (c *Catalog) TotalDistance() float64 {
	total := 0.0
	for _, n := range c.order {
		total += c.distances[n]
	}
	return total
}
