package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sign-runner/internal/feed"
	"github.com/vovakirdan/sign-runner/internal/platform/tui"
	"github.com/vovakirdan/sign-runner/internal/questions"
	"github.com/vovakirdan/sign-runner/internal/storage"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
	flagEnvFile     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Sign Runner over SSH plus the event feed",
	Long: `Start an SSH server where every connection gets its own menu and
runs. All players share one database. With --http, the event feed
(REST API and websocket stream of game events) is served too.

Settings from an optional .env file, used when the flag is not set:
  SIGNRUN_DB         - database path
  SIGNRUN_SSH_ADDR   - SSH address
  SIGNRUN_HTTP_ADDR  - event feed address

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.signrun/host_key

Examples:
  signrun serve
  signrun serve --ssh :2222 --http :8080
  signrun serve --env-file ./prod.env

Players connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "Event feed address (empty = disabled)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagEnvFile, "env-file", ".env", "Optional environment file")
}

func runServe(cmd *cobra.Command, _ []string) {
	logger := newLogger("signrun")

	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		exitf("cannot load %s: %v", flagEnvFile, err)
	}
	envOverride(cmd, "db", "SIGNRUN_DB", &flagDBPath)
	envOverride(cmd, "ssh", "SIGNRUN_SSH_ADDR", &flagSSHAddr)
	envOverride(cmd, "http", "SIGNRUN_HTTP_ADDR", &flagHTTPAddr)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	var hub *feed.Hub
	var httpSrv *feed.Server
	if flagHTTPAddr != "" {
		pool, err := questions.Load(flagSigns)
		if err != nil {
			exitf("cannot load signs: %v", err)
		}
		hub = feed.NewHub(logger.WithPrefix("feed"))
		httpSrv = feed.NewServer(hub, store, pool, logger.WithPrefix("feed"))
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS

	sshSrv, err := tui.NewSSHServer(cfg, store, hub, logger.WithPrefix("ssh"))
	if err != nil {
		exitf("cannot create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting Sign Runner SSH server on %s\n", sshSrv.Addr())
	if httpSrv != nil {
		fmt.Printf("Event feed on %s (websocket at /ws)\n", flagHTTPAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- sshSrv.ListenAndServe(ctx) }()
	if httpSrv != nil {
		running++
		go func() { errCh <- httpSrv.ListenAndServe(ctx, flagHTTPAddr) }()
	}

	var firstErr error
	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	if firstErr != nil {
		exitf("server error: %v", firstErr)
	}
}

// envOverride applies an environment variable to a flag the user did not
// set explicitly.
func envOverride(cmd *cobra.Command, flag, env string, dst *string) {
	if cmd.Flags().Changed(flag) {
		return
	}
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
