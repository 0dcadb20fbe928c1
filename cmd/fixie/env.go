package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/fixie/internal/config"
	"github.com/vovakirdan/fixie/internal/core"
	"github.com/vovakirdan/fixie/internal/levels"
	"github.com/vovakirdan/fixie/internal/physics"
	"github.com/vovakirdan/fixie/internal/platform/tui"
	"github.com/vovakirdan/fixie/internal/ride"
	"github.com/vovakirdan/fixie/internal/session"
	"github.com/vovakirdan/fixie/internal/storage"
)

const (
	logFileName  = "fixie.log"
	closeTimeout = 5 * time.Second
)

// loadConfig reads the config file and applies the preset and flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	if flagPlayer != "" {
		cfg.Player.Name = flagPlayer
	}
	if flagBackend != "" {
		cfg.Backend.URL = flagBackend
	}

	return cfg, cfg.Validate()
}

// env is everything a command needs to run rides.
type env struct {
	cfg      config.Config
	params   physics.Params
	catalog  *levels.Catalog
	store    *storage.Store     // nil when the database could not be opened
	api      *session.APIClient // nil when offline
	reporter *session.Async
	logger   *log.Logger
	logFile  *os.File
}

// openEnv loads config, opens storage and starts the session reporter.
// Logs go to w, or to ~/.fixie/fixie.log when w is nil so they never
// scribble over the TUI.
func openEnv(w io.Writer) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	params, err := cfg.PhysicsParams()
	if err != nil {
		return nil, err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, params: params, catalog: catalog}

	if w == nil {
		e.logFile, w = openLogFile(cfg.Storage.DBPath)
	}
	e.logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "fixie",
	})
	if flagVerbose {
		e.logger.SetLevel(log.DebugLevel)
	}

	var backends []session.Backend
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		e.logger.Warn("could not open ride database", "path", cfg.Storage.DBPath, "error", err)
	} else {
		e.store = store
		backends = append(backends, session.NewStoreBackend(store))
	}

	if cfg.Backend.URL != "" {
		e.api = session.NewAPIClient(cfg.Backend.URL, cfg.Backend.Timeout)
		backends = append(backends, e.api)
	}

	e.reporter = session.NewAsync(session.AsyncConfig{
		Player:  cfg.Player.Name,
		Timeout: cfg.Backend.Timeout,
	}, e.logger, backends...)

	e.logger.Debug("environment ready",
		"db", cfg.Storage.DBPath,
		"backend", cfg.Backend.URL,
		"player", cfg.Player.Name,
		"levels", catalog.MaxLevel(),
	)
	return e, nil
}

// openLogFile opens the log next to the database, falling back to discard.
func openLogFile(dbPath string) (*os.File, io.Writer) {
	dir := filepath.Dir(dbPath)
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, io.Discard
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, io.Discard
	}
	return f, f
}

// checkBackend logs whether the session API answers.
func (e *env) checkBackend() {
	if e.api == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Backend.Timeout)
	defer cancel()
	if err := e.api.Health(ctx); err != nil {
		e.logger.Warn("session API unavailable, rides are kept locally", "url", e.cfg.Backend.URL, "error", err)
		return
	}
	e.logger.Info("session API reachable", "url", e.cfg.Backend.URL)
}

// remote returns the online leaderboard source, or a nil interface.
func (e *env) remote() tui.RemoteLeaderboard {
	if e.api == nil {
		return nil
	}
	return e.api
}

// newGame builds a ride reporting through the shared reporter.
func (e *env) newGame(startLevel int) *ride.Game {
	return ride.New(ride.Options{
		Params:     e.params,
		Catalog:    e.catalog,
		Reporter:   e.reporter,
		StartLevel: startLevel,
	})
}

// runtime sizes the screen from the terminal.
func (e *env) runtime() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = e.cfg.TickRate
	cfg.Player = e.cfg.Player.Name
	return cfg
}

// close flushes pending reports and releases resources.
func (e *env) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := e.reporter.Close(ctx); err != nil {
		e.logger.Warn("pending ride reports dropped", "error", err)
	}
	if e.store != nil {
		e.store.Close()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}
