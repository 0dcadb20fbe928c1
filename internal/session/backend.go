// Package session reports rides to the places that keep score: the remote
// leaderboard API and the local ride database.
package session

import (
	"context"
	"errors"

	"github.com/vovakirdan/fixie/internal/ride"
)

var (
	// ErrUnavailable means the backend could not be reached or failed.
	ErrUnavailable = errors.New("session: backend unavailable")

	// ErrRejected means the backend answered but refused the request.
	ErrRejected = errors.New("session: request rejected")
)

// Backend records ride sessions.
type Backend interface {
	// Start opens a session for player and returns the backend's session ID.
	Start(ctx context.Context, player string) (string, error)

	// End closes a session opened by Start.
	End(ctx context.Context, sessionID string, summary ride.Summary) error
}
