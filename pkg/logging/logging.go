package logging

import (
	"log"
	"os"
)

func init() {
	// Set the global logger to use standard output.
	log.SetOutput(os.Stdout)

	// Honor SIZEW_LOG_LEVEL for callers that can't reach a --log-level flag
	// (library embedding, ad hoc scripts). An invalid or unset value leaves
	// RootLogger at its LevelInfo default.
	if level, ok := NameToLevel(os.Getenv("SIZEW_LOG_LEVEL")); ok {
		RootLogger.SetLevel(level)
	}
}
