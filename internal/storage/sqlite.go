// Package storage provides SQLite-based persistence for rides.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a ride does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection for ride persistence.
type Store struct {
	db *sql.DB
}

// LevelTime is the time spent on one level of a ride.
type LevelTime struct {
	Level     int
	Seconds   float64
	Completed bool
}

// Ride is a stored ride. Outcome is empty while the ride is in progress.
type Ride struct {
	ID            int64
	SessionID     string
	Player        string
	Outcome       string
	LevelReached  int
	MaxSpeed      float64
	TotalDistance float64 // meters
	TotalTime     float64 // seconds
	SuccessRatio  float64
	StartedAt     time.Time
	EndedAt       time.Time
	LevelTimes    []LevelTime // only filled by RideByID
}

// Finished reports whether the ride has a recorded outcome.
func (r Ride) Finished() bool {
	return r.Outcome != ""
}

// RideResult is the final account of a ride.
type RideResult struct {
	SessionID     string
	Player        string
	Outcome       string
	LevelReached  int
	MaxSpeed      float64
	TotalDistance float64
	TotalTime     float64
	SuccessRatio  float64
	LevelTimes    []LevelTime
}

// BestLevel is the fastest completion of a level across all rides.
type BestLevel struct {
	Level     int
	Seconds   float64
	Player    string
	SessionID string
}

// Stats contains aggregated statistics over all finished rides.
type Stats struct {
	Rides         int
	Finished      int // rides that completed every level
	TotalDistance float64
	BestDistance  float64
	TopSpeed      float64
	LastRide      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; the SSH server shares the store across sessions.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rides (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME,
			outcome TEXT NOT NULL DEFAULT '',
			level_reached INTEGER NOT NULL DEFAULT 1,
			max_speed REAL NOT NULL DEFAULT 0,
			total_distance REAL NOT NULL DEFAULT 0,
			total_time REAL NOT NULL DEFAULT 0,
			success_ratio REAL NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_rides_player ON rides(player);
		CREATE INDEX IF NOT EXISTS idx_rides_top ON rides(total_distance DESC, total_time ASC);

		CREATE TABLE IF NOT EXISTS level_times (
			session_id TEXT NOT NULL,
			level INTEGER NOT NULL,
			seconds REAL NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, level)
		);
		CREATE INDEX IF NOT EXISTS idx_level_times_level ON level_times(level, completed, seconds);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartRide records that a ride began.
func (s *Store) StartRide(sessionID, player string) error {
	_, err := s.db.Exec(
		"INSERT INTO rides (session_id, player) VALUES (?, ?)",
		sessionID, player,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot start ride: %w", err)
	}
	return nil
}

// FinishRide stores the result of a ride, creating the row if StartRide was
// never recorded. Level times are replaced.
func (s *Store) FinishRide(result RideResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(
		`INSERT INTO rides
		 (session_id, player, ended_at, outcome, level_reached, max_speed, total_distance, total_time, success_ratio)
		 VALUES (?, ?, CURRENT_TIMESTAMP, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			ended_at = CURRENT_TIMESTAMP,
			outcome = excluded.outcome,
			level_reached = excluded.level_reached,
			max_speed = excluded.max_speed,
			total_distance = excluded.total_distance,
			total_time = excluded.total_time,
			success_ratio = excluded.success_ratio`,
		result.SessionID,
		result.Player,
		result.Outcome,
		result.LevelReached,
		result.MaxSpeed,
		result.TotalDistance,
		result.TotalTime,
		result.SuccessRatio,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save ride: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM level_times WHERE session_id = ?", result.SessionID); err != nil {
		return fmt.Errorf("storage: cannot reset level times: %w", err)
	}
	for _, lt := range result.LevelTimes {
		_, err := tx.Exec(
			"INSERT INTO level_times (session_id, level, seconds, completed) VALUES (?, ?, ?, ?)",
			result.SessionID, lt.Level, lt.Seconds, lt.Completed,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot save level time: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit ride: %w", err)
	}
	return nil
}

const rideColumns = `id, session_id, player, outcome, level_reached, max_speed,
	total_distance, total_time, success_ratio, started_at, ended_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRide(row scanner) (Ride, error) {
	var r Ride
	var startedAt, endedAt any
	err := row.Scan(
		&r.ID,
		&r.SessionID,
		&r.Player,
		&r.Outcome,
		&r.LevelReached,
		&r.MaxSpeed,
		&r.TotalDistance,
		&r.TotalTime,
		&r.SuccessRatio,
		&startedAt,
		&endedAt,
	)
	if err != nil {
		return Ride{}, err
	}
	r.StartedAt = parseTime(startedAt)
	r.EndedAt = parseTime(endedAt)
	return r, nil
}

// RideByID retrieves a ride and its level times by session ID.
func (s *Store) RideByID(sessionID string) (*Ride, error) {
	r, err := scanRide(s.db.QueryRow(
		`SELECT `+rideColumns+` FROM rides WHERE session_id = ?`,
		sessionID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: ride %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query ride: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT level, seconds, completed FROM level_times
		 WHERE session_id = ? ORDER BY level`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level times: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lt LevelTime
		if err := rows.Scan(&lt.Level, &lt.Seconds, &lt.Completed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan level time: %w", err)
		}
		r.LevelTimes = append(r.LevelTimes, lt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return &r, nil
}

// TopRides retrieves the best N finished rides: longest distance first,
// faster time breaking ties.
func (s *Store) TopRides(limit int) ([]Ride, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRides(
		`SELECT `+rideColumns+` FROM rides
		 WHERE outcome != ''
		 ORDER BY total_distance DESC, total_time ASC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// PlayerRides retrieves a player's most recent rides, newest first.
func (s *Store) PlayerRides(player string, limit int) ([]Ride, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRides(
		`SELECT `+rideColumns+` FROM rides
		 WHERE player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, limit,
	)
}

func (s *Store) queryRides(query string, args ...any) ([]Ride, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rides: %w", err)
	}
	defer rows.Close()

	var rides []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rides = append(rides, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return rides, nil
}

// BestLevelTimes returns the fastest completion of every level.
func (s *Store) BestLevelTimes() ([]BestLevel, error) {
	// SQLite fills the bare columns from the row holding the MIN.
	rows, err := s.db.Query(
		`SELECT lt.level, MIN(lt.seconds), r.player, r.session_id
		 FROM level_times lt
		 JOIN rides r ON r.session_id = lt.session_id
		 WHERE lt.completed = 1
		 GROUP BY lt.level
		 ORDER BY lt.level`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best level times: %w", err)
	}
	defer rows.Close()

	var best []BestLevel
	for rows.Next() {
		var b BestLevel
		if err := rows.Scan(&b.Level, &b.Seconds, &b.Player, &b.SessionID); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		best = append(best, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return best, nil
}

// Stats retrieves aggregated statistics over finished rides.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var lastRide any

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'finished' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(total_distance), 0),
		        COALESCE(MAX(total_distance), 0),
		        COALESCE(MAX(max_speed), 0),
		        MAX(ended_at)
		 FROM rides WHERE outcome != ''`,
	).Scan(&stats.Rides, &stats.Finished, &stats.TotalDistance, &stats.BestDistance, &stats.TopSpeed, &lastRide)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get ride stats: %w", err)
	}
	stats.LastRide = parseTime(lastRide)

	return stats, nil
}

// ClearRides deletes all rides and level times.
func (s *Store) ClearRides() error {
	if _, err := s.db.Exec("DELETE FROM level_times"); err != nil {
		return fmt.Errorf("storage: cannot clear level times: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM rides"); err != nil {
		return fmt.Errorf("storage: cannot clear rides: %w", err)
	}
	return nil
}

// parseTime handles the datetime as either time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
