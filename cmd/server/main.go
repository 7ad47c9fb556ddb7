package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Tyrowin/roomcast/internal/server"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "RoomCast terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return exitConfig, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		return exitConfig, err
	}

	log := server.NewLogger(os.Stderr, cfg.LogLevel)
	log.Info("Starting RoomCast server", "addr", cfg.Addr(), "heartbeat_room", cfg.HeartbeatRoom)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return exitRuntime, fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}

	app := server.NewApp(cfg, log)
	if err := app.Run(ctx, ln); err != nil {
		return exitRuntime, err
	}
	log.Info("Server exited gracefully")
	return exitOK, nil
}
