// Package main provides the Portify API server.
//
// This is the main entrypoint for the portify-server binary. Configuration
// comes from the environment (and an optional .env file); the flags below
// override individual variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"portify.io/server/internal/config"
	"portify.io/server/internal/logging"
	"portify.io/server/internal/metrics"
	"portify.io/server/internal/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

// flags holds command-line overrides.
type flags struct {
	port        int
	environment string
	showVersion bool
}

func parseFlags() *flags {
	f := &flags{}

	flag.IntVar(&f.port, "port", 0, "Port to listen on (overrides PORT)")
	flag.StringVar(&f.environment, "env", "", "Runtime mode: development, production or test (overrides NODE_ENV)")
	flag.BoolVar(&f.showVersion, "version", false, "Print version and exit")

	flag.Parse()

	return f
}

// overrides converts set flags into environment entries.
func (f *flags) overrides() map[string]string {
	out := map[string]string{}
	if f.port != 0 {
		out["PORT"] = strconv.Itoa(f.port)
	}
	if f.environment != "" {
		out["NODE_ENV"] = f.environment
	}
	return out
}

func main() {
	f := parseFlags()

	if f.showVersion {
		fmt.Println("portify-server", version)
		return
	}

	cfg, err := config.Load(f.overrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(string(cfg.Environment), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	metrics.MustInit()

	srv := server.New(cfg, logger)

	logger.Info("starting portify-server",
		zap.String("version", version),
		zap.String(logging.FieldInstanceID, srv.InstanceID()),
		zap.String("environment", string(cfg.Environment)),
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
