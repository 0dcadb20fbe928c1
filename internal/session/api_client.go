package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/fixie/internal/ride"
)

const userAgent = "fixie/1.0"

// User is a registered leaderboard account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LeaderboardEntry is one row of the remote leaderboard.
type LeaderboardEntry struct {
	Username       string  `json:"username"`
	TotalDistance  float64 `json:"totalDistance"`
	CompletionTime float64 `json:"completionTime"`
	MaxSpeed       float64 `json:"maxSpeed"`
}

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success   bool               `json:"success"`
	Error     string             `json:"error"`
	Status    string             `json:"status"`
	SessionID string             `json:"sessionId"`
	User      *User              `json:"user"`
	Entries   []LeaderboardEntry `json:"entries"`
}

type startRequest struct {
	PlayerID string `json:"playerId"`
}

type endRequest struct {
	SessionID      string  `json:"sessionId"`
	MaxSpeed       float64 `json:"maxSpeed"`
	TotalDistance  float64 `json:"totalDistance"`
	CompletionTime float64 `json:"completionTime"`
}

type registerRequest struct {
	Username string `json:"username"`
}

// APIClient talks to the leaderboard server over HTTP/JSON.
type APIClient struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	users map[string]string // player name -> user ID
}

// NewAPIClient creates a client for the server at baseURL.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		users:   make(map[string]string),
	}
}

// Health checks that the server is up.
func (c *APIClient) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	if !resp.Success && resp.Status == "" {
		return fmt.Errorf("%w: health check: unexpected response", ErrUnavailable)
	}
	return nil
}

// Register creates (or signs in) a user by name.
func (c *APIClient) Register(ctx context.Context, username string) (User, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/users/register", registerRequest{Username: username})
	if err != nil {
		return User{}, err
	}
	if !resp.Success || resp.User == nil {
		return User{}, rejected("register", resp.Error)
	}
	return *resp.User, nil
}

// StartGame opens a game session for a registered user.
func (c *APIClient) StartGame(ctx context.Context, userID string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/game/start", startRequest{PlayerID: userID})
	if err != nil {
		return "", err
	}
	if !resp.Success || resp.SessionID == "" {
		return "", rejected("start game", resp.Error)
	}
	return resp.SessionID, nil
}

// EndGame closes a game session and submits the score.
func (c *APIClient) EndGame(ctx context.Context, sessionID string, maxSpeed, totalDistance, completionTime float64) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/game/end", endRequest{
		SessionID:      sessionID,
		MaxSpeed:       maxSpeed,
		TotalDistance:  totalDistance,
		CompletionTime: completionTime,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return rejected("end game", resp.Error)
	}
	return nil
}

// Leaderboard fetches the top scores.
func (c *APIClient) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/leaderboard/top/%d", limit), nil)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, rejected("leaderboard", resp.Error)
	}
	return resp.Entries, nil
}

// Start implements Backend. The player is registered on first use.
func (c *APIClient) Start(ctx context.Context, player string) (string, error) {
	userID, err := c.userID(ctx, player)
	if err != nil {
		return "", err
	}
	return c.StartGame(ctx, userID)
}

// End implements Backend.
func (c *APIClient) End(ctx context.Context, sessionID string, summary ride.Summary) error {
	return c.EndGame(ctx, sessionID, summary.MaxSpeed, summary.TotalDistance, summary.TotalTime)
}

func (c *APIClient) userID(ctx context.Context, player string) (string, error) {
	c.mu.Lock()
	id, ok := c.users[player]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	user, err := c.Register(ctx, player)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.users[player] = user.ID
	c.mu.Unlock()
	return user.ID, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body any) (*apiResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("session: encode %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("session: build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode >= http.StatusBadRequest {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = resp.Status
		}
		kind := ErrRejected
		if resp.StatusCode >= http.StatusInternalServerError {
			kind = ErrUnavailable
		}
		return nil, fmt.Errorf("%w: %s %s: %s", kind, method, path, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("session: decode %s: %w", path, decodeErr)
	}
	return &out, nil
}

func rejected(op, msg string) error {
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Errorf("%w: %s: %s", ErrRejected, op, msg)
}
