package utils

import (
	"io"

	"github.com/maksimkurb/livebox-wan/src/internal/log"
)

// CloseOrWarn closes c and logs a warning on failure.
func CloseOrWarn(c io.Closer, logger *log.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("Failed to close: %v", err)
	}
}

// ReadAtMost reads up to n bytes from r. Reaching EOF early is not an error.
func ReadAtMost(r io.Reader, n int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, n))
}
