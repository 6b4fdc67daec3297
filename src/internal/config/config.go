package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	liveboxerrors "github.com/maksimkurb/livebox-wan/src/internal/errors"
	"github.com/maksimkurb/livebox-wan/src/internal/livebox"
	"github.com/maksimkurb/livebox-wan/src/internal/utils"
)

const (
	// DefaultCredentialsFileName is looked up next to the binary.
	DefaultCredentialsFileName = "credentials"
	// DefaultTimeoutSeconds is the per-request timeout used when none is configured.
	DefaultTimeoutSeconds = 10
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Router: &RouterConfig{
			URL:         livebox.DefaultURL,
			Credentials: filepath.Join(utils.ExecutableDir(), DefaultCredentialsFileName),
			Timeout:     DefaultTimeoutSeconds,
		},
	}
}

// DefaultConfigPath returns the per-user config file location
// (e.g. ~/.config/livebox/livebox.toml), or "" if it cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "livebox", "livebox.toml")
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile overlays the values present in a TOML file.
//
// A relative credentials path in the file is resolved against the file's
// directory when that names an existing file.
func (c *Config) LoadFromFile(configPath string) error {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return liveboxerrors.NewConfigError("failed to get absolute path", err)
		} else {
			configFile = path
		}
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return liveboxerrors.NewConfigError(fmt.Sprintf("configuration file not found: %s", configFile), err)
		}
		return liveboxerrors.NewConfigError("failed to read config file", err)
	}

	var file fileConfig
	if err := toml.Unmarshal(content, &file); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return liveboxerrors.NewConfigError(
				fmt.Sprintf("failed to parse %s at line %d, column %d", configFile, row, col), err)
		}
		return liveboxerrors.NewConfigError("failed to parse config file", err)
	}

	c._absConfigFilePath = configFile
	c.merge(file.Router, filepath.Dir(configFile))
	return nil
}

// merge copies the fields set in the file into c.
func (c *Config) merge(router *fileRouterConfig, baseDir string) {
	if router == nil {
		return
	}
	if c.Router == nil {
		c.Router = &RouterConfig{}
	}

	if router.URL != "" {
		c.Router.URL = router.URL
	}
	if router.Credentials != "" {
		c.Router.Credentials = router.Credentials
		if resolved := utils.GetAbsolutePath(router.Credentials, baseDir); utils.IsRegularFile(resolved) {
			c.Router.Credentials = resolved
		}
	}
	if router.Timeout != nil {
		c.Router.Timeout = *router.Timeout
	}
}

// LoadOptionalFile loads configPath if it exists. It reports whether a
// file was loaded.
func (c *Config) LoadOptionalFile(configPath string) (bool, error) {
	if configPath == "" {
		return false, nil
	}
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := c.LoadFromFile(configPath); err != nil {
		return false, err
	}
	return true, nil
}
