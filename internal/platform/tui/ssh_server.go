package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/fixie/internal/core"
	"github.com/vovakirdan/fixie/internal/levels"
	"github.com/vovakirdan/fixie/internal/physics"
	"github.com/vovakirdan/fixie/internal/ride"
	"github.com/vovakirdan/fixie/internal/session"
	"github.com/vovakirdan/fixie/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.fixie/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate for every connection.
	TickRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// ServerDeps are shared by every connection. Store, Reporter and Remote
// may be nil.
type ServerDeps struct {
	Params   physics.Params
	Catalog  *levels.Catalog
	Store    *storage.Store
	Reporter *session.Async
	Remote   RemoteLeaderboard
	Logger   *log.Logger
}

// SSHServer wraps a Wish SSH server that gives every connection its own ride.
type SSHServer struct {
	config SSHServerConfig
	deps   ServerDeps
	server *ssh.Server
	logger *log.Logger
}

type openRidesKey struct{}

// openRides remembers the rides of one connection so they can be closed
// when the client drops.
type openRides struct {
	mu    sync.Mutex
	clock core.Clock
	games []*ride.Game
}

func (o *openRides) track(g *ride.Game) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.games = append(o.games, g)
}

// closeAll ends every ride still running and returns how many it ended.
func (o *openRides) closeAll() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := 0
	for _, g := range o.games {
		if !g.Ended() {
			g.EndGame(o.clock.NowMillis())
			n++
		}
	}
	o.games = nil
	return n
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, deps ServerDeps) (*SSHServer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "fixie-ssh",
		})
	}
	if deps.Catalog == nil {
		deps.Catalog = levels.Default()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultSSHServerConfig().TickRate
	}

	srv := &SSHServer{
		config: cfg,
		deps:   deps,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".fixie", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// reporterFor returns the session reporter for one player.
func (s *SSHServer) reporterFor(player string) ride.SessionReporter {
	if s.deps.Reporter == nil {
		return ride.NopReporter{}
	}
	return s.deps.Reporter.For(player)
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	player := sshSession.User()
	if player == "" {
		player = core.DefaultConfig().Player
	}

	runtime := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Player:   player,
	}

	rides := &openRides{clock: core.NewMonotonicClock()}
	sshSession.Context().SetValue(openRidesKey{}, rides)

	reporter := s.reporterFor(player)
	newGame := func(level int) *ride.Game {
		g := ride.New(ride.Options{
			Params:     s.deps.Params,
			Catalog:    s.deps.Catalog,
			Reporter:   reporter,
			StartLevel: level,
		})
		rides.track(g)
		return g
	}

	model := NewAppModel(AppOptions{
		Runtime: runtime,
		Catalog: s.deps.Catalog,
		NewGame: newGame,
		Store:   s.deps.Store,
		Remote:  s.deps.Remote,
		Clock:   rides.clock,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events and closes rides the client
// left open.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)

		if rides, ok := sshSession.Context().Value(openRidesKey{}).(*openRides); ok {
			if n := rides.closeAll(); n > 0 {
				s.logger.Info("closed abandoned rides", "user", sshSession.User(), "count", n)
			}
		}
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("ssh server: %w", err)
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server. The store and reporter belong to
// the caller and stay open.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
