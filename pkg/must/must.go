// Package must provides log-and-ignore helpers for cleanup operations whose
// errors are worth recording but never worth failing the caller over (a
// close on an already-flushed file, removal of a temporary file that a
// later step already handles falling through on).
package must

import (
	"io"
	"os"

	"github.com/sizew/sizew/pkg/logging"
)

// Close closes c, logging (rather than propagating) any error.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("Unable to close: %s", err.Error())
	}
}

// OSRemove removes the named file, logging (rather than propagating) any
// error.
func OSRemove(name string, logger *logging.Logger) {
	if err := os.Remove(name); err != nil {
		logger.Warnf("Unable to remove '%s': %s", name, err.Error())
	}
}
