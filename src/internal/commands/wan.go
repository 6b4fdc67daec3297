package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/maksimkurb/livebox-wan/src/internal/config"
	"github.com/maksimkurb/livebox-wan/src/internal/credentials"
	"github.com/maksimkurb/livebox-wan/src/internal/livebox"
)

// ErrAuthenticationFailed is wrapped in the ExitError returned when the
// router refuses the login or cannot be reached.
var ErrAuthenticationFailed = stderrors.New("authentication failed")

func CreateWANCommand() *WANCommand {
	return &WANCommand{
		fs: pflag.NewFlagSet("livebox", pflag.ContinueOnError),
	}
}

// WANCommand logs in to the router and prints one WAN status value.
type WANCommand struct {
	fs       *pflag.FlagSet
	ctx      *AppContext
	cfg      *config.Config
	renderer *renderer

	url         string
	credentials string
	timeout     int
	configPath  string
	envFile     string
	verbose     bool
	ipv4        bool
	ipv6        bool
	info        string
	format      string
}

func (c *WANCommand) Name() string {
	return c.fs.Name()
}

func (c *WANCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs.SetOutput(ctx.Stderr)

	c.fs.StringVar(&c.url, "url", livebox.DefaultURL, "livebox url")
	c.fs.StringVar(&c.credentials, "credentials", "",
		"login/password as {\"login\": ..., \"password\": ...}, (\"login\", \"password\") or a file holding either (default: \""+
			config.DefaultCredentialsFileName+"\" next to the binary)")
	c.fs.IntVar(&c.timeout, "timeout", config.DefaultTimeoutSeconds, "network timeout in seconds")
	c.fs.StringVar(&c.configPath, "config", "", "TOML configuration file (default: "+orNone(ctx.DefaultConfigPath)+")")
	c.fs.StringVar(&c.envFile, "env-file", "", "file with LIVEBOX_* variables (default: "+orNone(ctx.DefaultEnvFile)+")")
	c.fs.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	c.fs.BoolVarP(&c.ipv4, "ipv4", "4", false, "print the WAN IPv4 address")
	c.fs.BoolVarP(&c.ipv6, "ipv6", "6", false, "print the WAN IPv6 address")
	c.fs.StringVar(&c.info, "info", livebox.FieldIPAddress, "print one field: "+strings.Join(livebox.WANStatusFields, ", "))
	c.fs.StringVar(&c.format, "format", "", "print a template such as \"{{IPAddress}} via {{RemoteGateway}}\"")
	c.fs.SortFlags = false
	c.fs.Usage = c.usage

	if err := c.fs.Parse(args); err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return err
		}
		return &ExitError{Code: ExitUsage, Err: err}
	}
	if c.fs.NArg() > 0 {
		return usageError("unexpected arguments: %s", strings.Join(c.fs.Args(), " "))
	}

	if c.verbose {
		ctx.Logger.SetVerbose(true)
	}

	renderer, err := c.selectRenderer()
	if err != nil {
		return err
	}
	c.renderer = renderer

	cfg, err := loadAndValidateConfig(ctx, c.configPath, c.envFile)
	if err != nil {
		return err
	}
	c.applyFlags(cfg)
	if err := cfg.ValidateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	c.cfg = cfg

	return nil
}

// selectRenderer enforces that at most one output mode is given.
func (c *WANCommand) selectRenderer() (*renderer, error) {
	var selected []string
	for _, name := range []string{"ipv4", "ipv6", "info", "format"} {
		if c.fs.Changed(name) {
			selected = append(selected, "--"+name)
		}
	}
	if len(selected) > 1 {
		return nil, usageError("%s are mutually exclusive", strings.Join(selected, ", "))
	}

	switch {
	case c.ipv4:
		return newFieldRenderer(livebox.FieldIPAddress), nil
	case c.ipv6:
		return newFieldRenderer(livebox.FieldIPv6Address), nil
	case c.fs.Changed("format"):
		renderer, err := newTemplateRenderer(c.format)
		if err != nil {
			return nil, usageError("invalid --format: %v", err)
		}
		return renderer, nil
	default:
		if !livebox.IsWANStatusField(c.info) {
			return nil, usageError("invalid --info %q (choose from %s)", c.info, strings.Join(livebox.WANStatusFields, ", "))
		}
		return newFieldRenderer(c.info), nil
	}
}

// applyFlags overrides cfg with the flags given on the command line.
func (c *WANCommand) applyFlags(cfg *config.Config) {
	if c.fs.Changed("url") {
		cfg.Router.URL = c.url
	}
	if c.fs.Changed("credentials") {
		cfg.Router.Credentials = c.credentials
	}
	if c.fs.Changed("timeout") {
		cfg.Router.Timeout = c.timeout
	}
}

func (c *WANCommand) Run(ctx context.Context) error {
	logger := c.ctx.Logger
	router := c.cfg.Router

	client, err := livebox.NewClient(router.URL, router.TimeoutDuration(), logger.Named("livebox"))
	if err != nil {
		return err
	}

	logger.Debugf("querying %s (timeout %v)", client.Endpoint(), client.Timeout())

	creds := credentials.NewResolver(logger.Named("credentials")).Resolve(router.Credentials)

	if !client.Authenticate(ctx, creds) {
		return &ExitError{Code: ExitFailure, Err: ErrAuthenticationFailed}
	}

	status := client.WANStatus(ctx)
	if err := ctx.Err(); err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	return c.renderer.Render(c.ctx.Stdout, status)
}

func (c *WANCommand) usage() {
	fmt.Fprintf(c.ctx.Stderr, "Livebox WAN status requester\n\n")
	fmt.Fprintf(c.ctx.Stderr, "Usage: %s [options] [-4 | -6 | --info FIELD | --format TEMPLATE]\n\n", c.fs.Name())
	fmt.Fprintf(c.ctx.Stderr, "Options:\n")
	c.fs.PrintDefaults()
}

func orNone(path string) string {
	if path == "" {
		return "none"
	}
	return path
}
