// Command leaguectl runs the recompute commands against the configured
// storage without going through the HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/league-engine/internal/app"
	"github.com/riskibarqy/league-engine/internal/config"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout carries only command output.
	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).With("service", cfg.ServiceName, "component", "leaguectl")
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := execute(ctx, cfg, logger, os.Args[1:])
	_ = logger.Sync()
	os.Exit(code)
}

func execute(ctx context.Context, cfg config.Config, logger *logging.Logger, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(os.Stderr)
		return 2
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("build container failed", "error", err)
		return 1
	}
	defer func() { _ = container.Close() }()

	cli := newCLI(container, os.Stdout)
	if err := cli.run(ctx, args); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			printUsage(os.Stderr)
			return 2
		}
		logger.Error("command failed", "command", args[0], "error", err)
		return 1
	}
	return 0
}
