package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fixie/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fixie SSH server",
	Long: `Start an SSH server that lets riders connect and play.

Each SSH connection gets its own menu and rides under its SSH user name.
Rides are stored per-server (all riders share the same leaderboard) and
reported to the session API when --backend is set.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.fixie/host_key

Examples:
  fixie serve                           # Listen on :23235 with auto-generated key
  fixie serve --ssh :2222               # Listen on port 2222
  fixie serve --host-key ./my_host_key  # Use specific host key
  fixie serve --db ./rides.db           # Use specific database

Riders can connect with:
  ssh localhost -p 23235`,
	RunE: runServe,
}

func init() {
	def := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", def.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(def.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	e, err := openEnv(os.Stderr)
	if err != nil {
		return err
	}
	defer e.close()
	e.checkBackend()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    e.cfg.TickRate,
	}

	server, err := tui.NewSSHServer(cfg, tui.ServerDeps{
		Params:   e.params,
		Catalog:  e.catalog,
		Store:    e.store,
		Reporter: e.reporter,
		Remote:   e.remote(),
		Logger:   e.logger.WithPrefix("fixie-ssh"),
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting fixie SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", port(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

// port returns the port part of a host:port address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
