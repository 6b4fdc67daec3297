package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	liveboxerrors "github.com/maksimkurb/livebox-wan/src/internal/errors"
)

// Environment variables read by ApplyEnvironment.
const (
	EnvURL         = "LIVEBOX_URL"
	EnvCredentials = "LIVEBOX_CREDENTIALS"
	EnvTimeout     = "LIVEBOX_TIMEOUT"

	// DefaultEnvFile is read from the working directory when present.
	DefaultEnvFile = ".env"
)

// ReadEnvironment returns the process environment overlaid on the
// variables of envFile. Non-empty process variables win. A missing envFile
// is not an error unless required is true.
func ReadEnvironment(envFile string, required bool) (map[string]string, error) {
	env := map[string]string{}

	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			for key, value := range values {
				env[key] = value
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return nil, liveboxerrors.NewConfigError(fmt.Sprintf("failed to read env file %s", envFile), err)
		}
	}

	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok && value != "" {
			env[key] = value
		}
	}
	return env, nil
}

// ApplyEnvironment overrides settings from LIVEBOX_* variables in env.
func (c *Config) ApplyEnvironment(env map[string]string) error {
	if c.Router == nil {
		c.Router = &RouterConfig{}
	}

	if value := strings.TrimSpace(env[EnvURL]); value != "" {
		c.Router.URL = value
	}
	if value := env[EnvCredentials]; strings.TrimSpace(value) != "" {
		c.Router.Credentials = value
	}
	if value := strings.TrimSpace(env[EnvTimeout]); value != "" {
		timeout, err := strconv.Atoi(value)
		if err != nil {
			return liveboxerrors.NewConfigError(fmt.Sprintf("invalid %s %q", EnvTimeout, value), err)
		}
		c.Router.Timeout = timeout
	}
	return nil
}
