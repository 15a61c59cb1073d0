// Package cmd holds entrypoint helpers shared by dice commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/dicetower/internal/platform/config"
	"github.com/louisbranch/dicetower/internal/platform/otel"
)

const otelShutdownTimeout = 5 * time.Second

// ServiceRoll names the roll command in telemetry and log output.
const ServiceRoll = "roll"

// LogPrefix returns the log prefix for a service, e.g. "[ROLL] ".
func LogPrefix(service string) string {
	return "[" + strings.ToUpper(strings.TrimSpace(service)) + "] "
}

// ParseConfig loads environment defaults into cfg. Values from an optional
// .env file in the working directory are applied first.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags over values already loaded from env.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry sets up tracing for service, runs fn and flushes spans.
func RunWithTelemetry(ctx context.Context, service string, fn func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if fn == nil {
		return errors.New("run function is required")
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return fn(ctx)
}
