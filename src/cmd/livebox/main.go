package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/maksimkurb/livebox-wan/src/internal/commands"
	"github.com/maksimkurb/livebox-wan/src/internal/config"
	"github.com/maksimkurb/livebox-wan/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	appCtx := &commands.AppContext{
		Stdout:            os.Stdout,
		Stderr:            os.Stderr,
		Logger:            log.Default(),
		DefaultConfigPath: config.DefaultConfigPath(),
		DefaultEnvFile:    config.DefaultEnvFile,
	}

	cmd := commands.CreateWANCommand()
	if err := cmd.Init(args, appCtx); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return exitCode(err, "Failed to initialize command")
	}

	log.Debugf("%s %s (commit %s, built %s)", cmd.Name(), version, commit, date)

	if err := cmd.Run(ctx); err != nil {
		if ctx.Err() != nil {
			log.Warnf("Interrupted")
			return commands.ExitFailure
		}
		return exitCode(err, "Failed to run command")
	}
	return 0
}

// exitCode logs err and returns the code it asks for, 1 by default.
func exitCode(err error, action string) int {
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		if !errors.Is(err, commands.ErrAuthenticationFailed) {
			log.Errorf("%s: %v", action, err)
		}
		return coded.ExitCode()
	}
	log.Errorf("%s: %v", action, err)
	return commands.ExitFailure
}
