// Package config builds the settings of a livebox run.
//
// Settings come from four layers, later ones winning:
//
//  1. built-in defaults (http://192.168.1.1, a "credentials" file next to
//     the binary, 10 second timeout)
//  2. an optional TOML file
//  3. LIVEBOX_URL, LIVEBOX_CREDENTIALS and LIVEBOX_TIMEOUT, read from the
//     process environment or from a .env file
//  4. command-line flags, applied by the caller
//
// # Configuration File
//
//	[router]
//	url = "http://192.168.1.1"
//	credentials = "credentials"   # relative to this file
//	timeout = 5
//
// # Example Usage
//
//	cfg := config.DefaultConfig()
//	if _, err := cfg.LoadOptionalFile(config.DefaultConfigPath()); err != nil {
//	    return err
//	}
//	env, err := config.ReadEnvironment(config.DefaultEnvFile, false)
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ApplyEnvironment(env); err != nil {
//	    return err
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    return err
//	}
package config
