// Package commands implements the livebox command line.
//
// The single command logs in to the router and prints one value of the
// WAN status. It implements the Runner interface:
//   - Init(): parse flags, merge the configuration layers and validate them
//   - Run(): authenticate, fetch the status and render the selected output
//   - Name(): return the command name used in usage text
//
// # Configuration layers
//
// Later layers override earlier ones:
//
//	defaults < TOML config file < .env file < environment < flags
//
// # Example Usage
//
//	cmd := commands.CreateWANCommand()
//	ctx := &commands.AppContext{
//	    Stdout: os.Stdout,
//	    Stderr: os.Stderr,
//	    Logger: log.Default(),
//	}
//	if err := cmd.Init(os.Args[1:], ctx); err != nil {
//	    return err
//	}
//	return cmd.Run(context.Background())
//
// Failures that map to a specific process exit code are returned as
// *ExitError.
package commands
