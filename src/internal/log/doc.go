// Package log provides simple leveled logging for livebox.
//
// Messages carry a short level prefix (DBG, INF, WRN, ERR) and are written
// to a single writer, stderr by default, so that standard output stays
// reserved for the value the user asked for. Prefixes are colored when the
// writer is a color-capable terminal.
//
// Components receive a *Logger explicitly:
//
//	logger := log.New(os.Stderr)
//	logger.SetVerbose(true)
//	resolver := credentials.NewResolver(logger.Named("credentials"))
//
// The package-level helpers write to the default logger and are meant for
// the entry point only:
//
//	log.Warnf("invalid network timeout (%d), fallback to %d", t, def)
//
// The default level is warning; debug and info messages appear only in
// verbose mode.
package log
