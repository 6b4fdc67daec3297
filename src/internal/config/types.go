package config

import (
	"path/filepath"
	"time"
)

// Config is the merged configuration of a run.
type Config struct {
	// Router holds the connection settings.
	Router *RouterConfig `toml:"router"`

	_absConfigFilePath string
}

// RouterConfig describes how to reach and log in to the router.
type RouterConfig struct {
	// URL is the router base URL; requests go to <url>/ws.
	URL string `toml:"url" json:"url" validate:"required,router_url"`
	// Credentials is a {"login": ..., "password": ...} literal, a ("login", "password") pair or a path to a file holding either.
	Credentials string `toml:"credentials" json:"credentials" validate:"max=4096"`
	// Timeout is the per-request network timeout in seconds. Non-positive values fall back to the default.
	Timeout int `toml:"timeout" json:"timeout" validate:"lte=3600"`
}

// TimeoutDuration returns Timeout as a duration. Non-positive values give
// 0, which the client replaces by its default.
func (r *RouterConfig) TimeoutDuration() time.Duration {
	if r.Timeout <= 0 {
		return 0
	}
	return time.Duration(r.Timeout) * time.Second
}

// fileConfig is the on-disk shape of Config. Timeout is a pointer so an
// explicit 0 in the file is kept.
type fileConfig struct {
	Router *fileRouterConfig `toml:"router"`
}

type fileRouterConfig struct {
	URL         string `toml:"url"`
	Credentials string `toml:"credentials"`
	Timeout     *int   `toml:"timeout"`
}

// GetConfigDir returns the directory of the loaded config file, or "" if
// no file was loaded.
func (c *Config) GetConfigDir() string {
	if c._absConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c._absConfigFilePath)
}

// GetConfigFilePath returns the absolute path of the loaded config file.
func (c *Config) GetConfigFilePath() string {
	return c._absConfigFilePath
}
