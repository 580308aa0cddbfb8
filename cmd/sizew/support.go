package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// fatal prints an error message to standard error and terminates the
// process with a non-zero exit code.
func fatal(err error) {
	fmt.Fprintln(color.Error, color.RedString("Error:"), err)
	os.Exit(1)
}

// mainify wraps a Cobra entry point that returns an error into the
// zero-return-value form Cobra's Run field expects, so subcommands can use
// ordinary error returns (and thus defer-based cleanup) instead of calling
// os.Exit directly.
func mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			fatal(err)
		}
	}
}
