package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	rollcmd "github.com/louisbranch/dicetower/internal/cmd/roll"
	entrypoint "github.com/louisbranch/dicetower/internal/platform/cmd"
	"github.com/louisbranch/dicetower/internal/platform/config"
)

func main() {
	cfg, err := rollcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf(config.ExitUsage, "parse flags: %v", err)
	}
	logs := entrypoint.SetupLogging(entrypoint.ServiceRoll, cfg.Log)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = rollcmd.Run(ctx, cfg, os.Stdout)
	stop()
	logs.Close()
	if err != nil {
		config.Exitf(config.ExitFailure, "%s", rollcmd.Message(err, cfg.Locale))
	}
}
