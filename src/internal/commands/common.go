package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/maksimkurb/livebox-wan/src/internal/config"
	"github.com/maksimkurb/livebox-wan/src/internal/log"
)

// Exit codes returned through ExitError.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run(ctx context.Context) error
	Name() string
}

// AppContext carries what commands need from the process.
type AppContext struct {
	// Stdout receives the command result.
	Stdout io.Writer
	// Stderr receives usage text.
	Stderr io.Writer
	// Logger is shared by all components of the run.
	Logger *log.Logger
	// DefaultConfigPath is loaded when present and --config is not given. Empty disables it.
	DefaultConfigPath string
	// DefaultEnvFile is loaded when present and --env-file is not given. Empty disables it.
	DefaultEnvFile string
}

// ExitError asks the entry point to exit with Code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

func usageError(format string, args ...interface{}) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

// loadAndValidateConfig merges the config file and environment layers
// over the defaults and validates the result. Flags are applied by the
// caller afterwards, so validation is repeated there.
func loadAndValidateConfig(ctx *AppContext, configPath string, envFile string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configPath != "" {
		if err := cfg.LoadFromFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	} else if loaded, err := cfg.LoadOptionalFile(ctx.DefaultConfigPath); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	} else if loaded {
		ctx.Logger.Debugf("Loaded configuration from %s", cfg.GetConfigFilePath())
	}

	required := envFile != ""
	if !required {
		envFile = ctx.DefaultEnvFile
	}
	env, err := config.ReadEnvironment(envFile, required)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvironment(env); err != nil {
		return nil, err
	}

	return cfg, nil
}
