package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/fixie/internal/ride"
)

// AsyncConfig holds configuration for the async reporter.
type AsyncConfig struct {
	Player    string        // default player for StartSession
	Timeout   time.Duration // per backend call
	QueueSize int
}

// DefaultAsyncConfig returns sensible defaults.
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		Player:    "guest",
		Timeout:   5 * time.Second,
		QueueSize: 64,
	}
}

// reportMsg is a queued backend call.
type reportMsg interface {
	handle() string
}

type startMsg struct {
	id     string
	player string
}

func (m startMsg) handle() string { return m.id }

type endMsg struct {
	id      string
	summary ride.Summary
}

func (m endMsg) handle() string { return m.id }

type discardMsg struct {
	id string
}

func (m discardMsg) handle() string { return m.id }

// Async is a ride.SessionReporter that hands every call to a background
// worker. It returns immediately, never fails and only logs backend errors,
// so a slow or dead server never stalls the ride.
type Async struct {
	config   AsyncConfig
	backends []Backend
	logger   *log.Logger

	mu     sync.Mutex
	closed bool
	queue  chan reportMsg

	// Backend session IDs per handle, one slot per backend. Worker-owned.
	sessions map[string][]string

	ctx      context.Context
	cancel   context.CancelFunc
	finished chan struct{}
}

// NewAsync creates a reporter over the given backends and starts its worker.
// A nil logger discards output.
func NewAsync(cfg AsyncConfig, logger *log.Logger, backends ...Backend) *Async {
	def := DefaultAsyncConfig()
	if cfg.Player == "" {
		cfg.Player = def.Player
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Async{
		config:   cfg,
		backends: backends,
		logger:   logger,
		queue:    make(chan reportMsg, cfg.QueueSize),
		sessions: make(map[string][]string),
		ctx:      ctx,
		cancel:   cancel,
		finished: make(chan struct{}),
	}
	go a.processMessages()
	return a
}

// StartSession implements ride.SessionReporter for the default player.
func (a *Async) StartSession() string {
	return a.start(a.config.Player)
}

// EndSession implements ride.SessionReporter.
func (a *Async) EndSession(sessionID string, summary ride.Summary) {
	if sessionID == "" {
		return
	}
	a.send(endMsg{id: sessionID, summary: summary})
}

// DiscardSession implements ride.SessionDiscarder. The handle is forgotten
// without ending the backend sessions.
func (a *Async) DiscardSession(sessionID string) {
	if sessionID == "" {
		return
	}
	a.send(discardMsg{id: sessionID})
}

// For returns a reporter that opens sessions for player instead of the
// default one. All reporters share the worker.
func (a *Async) For(player string) ride.SessionReporter {
	return playerReporter{async: a, player: player}
}

// Close stops accepting reports and waits for queued ones to be delivered.
// If ctx expires first, in-flight calls are cancelled and ctx.Err is returned.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.finished:
		a.cancel()
		return nil
	case <-ctx.Done():
		a.cancel()
		return ctx.Err()
	}
}

func (a *Async) start(player string) string {
	if len(a.backends) == 0 {
		return ""
	}
	id := uuid.NewString()
	a.send(startMsg{id: id, player: player})
	return id
}

// send queues a message without ever blocking the caller.
func (a *Async) send(msg reportMsg) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		a.logger.Warn("session report after close", "session", msg.handle())
		return
	}
	select {
	case a.queue <- msg:
	default:
		a.logger.Warn("session queue full, dropping report", "session", msg.handle())
	}
}

// processMessages handles queued messages until the queue is closed.
func (a *Async) processMessages() {
	defer close(a.finished)
	for msg := range a.queue {
		a.handleMessage(msg)
	}
}

func (a *Async) handleMessage(msg reportMsg) {
	switch m := msg.(type) {
	case startMsg:
		a.handleStart(m)
	case endMsg:
		a.handleEnd(m)
	case discardMsg:
		delete(a.sessions, m.id)
		a.logger.Debug("session discarded", "session", m.id)
	}
}

func (a *Async) handleStart(msg startMsg) {
	ids := make([]string, len(a.backends))
	for i, b := range a.backends {
		ctx, cancel := context.WithTimeout(a.ctx, a.config.Timeout)
		id, err := b.Start(ctx, msg.player)
		cancel()
		if err != nil {
			a.logger.Warn("session start failed", "session", msg.id, "player", msg.player, "error", err)
			continue
		}
		ids[i] = id
		a.logger.Debug("session started", "session", msg.id, "backend_session", id)
	}
	a.sessions[msg.id] = ids
}

func (a *Async) handleEnd(msg endMsg) {
	ids, ok := a.sessions[msg.id]
	if !ok {
		a.logger.Warn("session end without start", "session", msg.id)
		return
	}
	delete(a.sessions, msg.id)

	for i, b := range a.backends {
		if ids[i] == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(a.ctx, a.config.Timeout)
		err := b.End(ctx, ids[i], msg.summary)
		cancel()
		if err != nil {
			a.logger.Warn("session end failed", "session", msg.id, "backend_session", ids[i], "error", err)
			continue
		}
		a.logger.Debug("session ended",
			"session", msg.id,
			"outcome", msg.summary.Outcome.Code(),
			"distance", msg.summary.TotalDistance,
		)
	}
}

type playerReporter struct {
	async  *Async
	player string
}

func (r playerReporter) StartSession() string {
	return r.async.start(r.player)
}

func (r playerReporter) EndSession(sessionID string, summary ride.Summary) {
	r.async.EndSession(sessionID, summary)
}

func (r playerReporter) DiscardSession(sessionID string) {
	r.async.DiscardSession(sessionID)
}

var (
	_ ride.SessionReporter  = (*Async)(nil)
	_ ride.SessionDiscarder = (*Async)(nil)
	_ ride.SessionDiscarder = playerReporter{}
)
