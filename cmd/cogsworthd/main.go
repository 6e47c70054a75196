// cmd/cogsworthd/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/novafaen/cogsworth/internal/config"
	"github.com/novafaen/cogsworth/internal/daemon"
	"github.com/novafaen/cogsworth/internal/mcp"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "mcp-server":
			runMCPServer()
			return
		}
	}

	runDaemon()
}

func runMCPServer() {
	_ = godotenv.Load()

	configPath := os.Getenv("SMRT_CONFIG")
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	server, err := mcp.NewServer(configPath, os.Getenv("SMRT_HISTORY_DB"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating MCP server: %v\n", err)
		os.Exit(1)
	}
	defer server.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}

func runDaemon() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	d := daemon.New(env)

	ctx, cancel := signalContext()
	defer cancel()

	if err := d.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "daemon error: %v\n", err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
