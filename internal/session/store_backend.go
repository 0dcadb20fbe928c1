package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vovakirdan/fixie/internal/ride"
	"github.com/vovakirdan/fixie/internal/storage"
)

// StoreBackend records sessions in the local ride database.
type StoreBackend struct {
	store *storage.Store

	mu      sync.Mutex
	players map[string]string // open session -> player
}

// NewStoreBackend wraps an open store.
func NewStoreBackend(store *storage.Store) *StoreBackend {
	return &StoreBackend{store: store, players: make(map[string]string)}
}

// Start inserts an in-progress ride under a fresh ID.
func (b *StoreBackend) Start(_ context.Context, player string) (string, error) {
	id := uuid.NewString()
	if err := b.store.StartRide(id, player); err != nil {
		return "", fmt.Errorf("session: store: %w", err)
	}
	b.mu.Lock()
	b.players[id] = player
	b.mu.Unlock()
	return id, nil
}

// End stores the ride result.
func (b *StoreBackend) End(_ context.Context, sessionID string, summary ride.Summary) error {
	b.mu.Lock()
	player := b.players[sessionID]
	delete(b.players, sessionID)
	b.mu.Unlock()

	if err := b.store.FinishRide(RideResult(sessionID, player, summary)); err != nil {
		return fmt.Errorf("session: store: %w", err)
	}
	return nil
}

// RideResult converts a ride summary into a storage record.
func RideResult(sessionID, player string, summary ride.Summary) storage.RideResult {
	times := make([]storage.LevelTime, 0, len(summary.LevelTimes))
	for _, lt := range summary.LevelTimes {
		times = append(times, storage.LevelTime{
			Level:     lt.Level,
			Seconds:   lt.Seconds,
			Completed: lt.Completed,
		})
	}
	return storage.RideResult{
		SessionID:     sessionID,
		Player:        player,
		Outcome:       summary.Outcome.Code(),
		LevelReached:  summary.Level,
		MaxSpeed:      summary.MaxSpeed,
		TotalDistance: summary.TotalDistance,
		TotalTime:     summary.TotalTime,
		SuccessRatio:  summary.SuccessRatio,
		LevelTimes:    times,
	}
}
