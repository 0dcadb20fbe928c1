// Package stats keeps per-run pedal counters and per-level timers.
// Timestamps are milliseconds from the host clock; durations are reported in seconds.
package stats

import "sort"

// LevelTime is the recorded duration of one level.
type LevelTime struct {
	Level     int
	Seconds   float64
	Completed bool
}

// Tracker is the bookkeeping of a single run.
type Tracker struct {
	totalPedals      int
	successfulPedals int
	maxSpeed         float64

	started         map[int]bool
	startTimes      map[int]int64
	endTimes        map[int]int64
	completionTimes map[int]float64
	completed       map[int]bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		started:         make(map[int]bool),
		startTimes:      make(map[int]int64),
		endTimes:        make(map[int]int64),
		completionTimes: make(map[int]float64),
		completed:       make(map[int]bool),
	}
}

// RecordAttempt counts a pedal attempt and tracks the top speed of accepted ones.
func (t *Tracker) RecordAttempt(accepted bool, speed float64) {
	t.totalPedals++
	if !accepted {
		return
	}
	t.successfulPedals++
	if speed > t.maxSpeed {
		t.maxSpeed = speed
	}
}

// TotalPedals returns the number of attempts.
func (t *Tracker) TotalPedals() int {
	return t.totalPedals
}

// SuccessfulPedals returns the number of accepted attempts.
func (t *Tracker) SuccessfulPedals() int {
	return t.successfulPedals
}

// SuccessRatio returns successful/total attempts, or 0 before any attempt.
func (t *Tracker) SuccessRatio() float64 {
	if t.totalPedals == 0 {
		return 0
	}
	return float64(t.successfulPedals) / float64(t.totalPedals)
}

// MaxSpeed returns the highest speed reached after an accepted stroke.
func (t *Tracker) MaxSpeed() float64 {
	return t.maxSpeed
}

// PrepareLevel marks a level's timer as not yet started.
func (t *Tracker) PrepareLevel(level int) {
	t.started[level] = false
}

// StartLevelTimer starts the level timer unless it is already running.
func (t *Tracker) StartLevelTimer(level int, now int64) {
	if t.started[level] {
		return
	}
	t.startTimes[level] = now
	t.started[level] = true
}

// LevelStarted reports whether the level timer has started.
func (t *Tracker) LevelStarted(level int) bool {
	return t.started[level]
}

// EndLevel freezes the timer of a level that ended without completion.
// A level that already has an end time keeps it.
func (t *Tracker) EndLevel(level int, now int64) {
	if !t.running(level) {
		return
	}
	if _, ended := t.endTimes[level]; ended {
		return
	}
	t.endTimes[level] = now
}

// CompleteLevel freezes the timer, records the completion time and returns it
// in seconds. Returns 0 if the level timer never started.
func (t *Tracker) CompleteLevel(level int, now int64) float64 {
	if !t.running(level) {
		return 0
	}
	if t.completed[level] {
		return t.completionTimes[level]
	}

	seconds := float64(now-t.startTimes[level]) / 1000.0
	t.completionTimes[level] = seconds
	t.completed[level] = true
	t.endTimes[level] = now
	return seconds
}

// CurrentLevelTime returns the frozen duration of an ended level, or the live
// elapsed duration of a running one, in seconds.
func (t *Tracker) CurrentLevelTime(level int, now int64) float64 {
	if !t.running(level) {
		return 0
	}
	if end, ok := t.endTimes[level]; ok {
		return float64(end-t.startTimes[level]) / 1000.0
	}
	return float64(now-t.startTimes[level]) / 1000.0
}

// CompletionTime returns the recorded completion time of a level.
func (t *Tracker) CompletionTime(level int) (float64, bool) {
	s, ok := t.completionTimes[level]
	return s, ok
}

// TotalCompletionTime sums the completion times of all completed levels.
func (t *Tracker) TotalCompletionTime() float64 {
	total := 0.0
	for _, s := range t.completionTimes {
		total += s
	}
	return total
}

// IsCompleted reports whether a level was completed.
func (t *Tracker) IsCompleted(level int) bool {
	return t.completed[level]
}

// CompletedLevels returns completed level numbers in ascending order.
func (t *Tracker) CompletedLevels() []int {
	out := make([]int, 0, len(t.completed))
	for level := range t.completed {
		out = append(out, level)
	}
	sort.Ints(out)
	return out
}

// LevelTimes returns the duration of every started level in ascending order.
func (t *Tracker) LevelTimes(now int64) []LevelTime {
	out := make([]LevelTime, 0, len(t.startTimes))
	for level := range t.startTimes {
		if !t.started[level] {
			continue
		}
		out = append(out, LevelTime{
			Level:     level,
			Seconds:   t.CurrentLevelTime(level, now),
			Completed: t.completed[level],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Level < out[j].Level
	})
	return out
}

// ShiftLevel moves a running level's start forward by delta ms so paused time
// is not counted.
func (t *Tracker) ShiftLevel(level int, delta int64) {
	if !t.running(level) || delta <= 0 {
		return
	}
	if _, ended := t.endTimes[level]; ended {
		return
	}
	t.startTimes[level] += delta
}

// running reports whether a level timer was started.
func (t *Tracker) running(level int) bool {
	_, ok := t.startTimes[level]
	return ok && t.started[level]
}
