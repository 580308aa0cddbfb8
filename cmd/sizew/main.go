// Command sizew computes recursive directory sizes using a persistent,
// self-adapting cache so that repeated measurements of the same tree avoid
// re-walking directories that almost certainly haven't changed.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sizew/sizew/pkg/version"
)

func rootMain(command *cobra.Command, arguments []string) {
	// Print version information, if requested.
	if rootConfiguration.version {
		fmt.Println(version.Semantic)
		return
	}

	// No subcommand and no flags: just show help.
	command.Help()
}

var rootCommand = &cobra.Command{
	Use:   "sizew",
	Short: "sizew computes cached recursive directory sizes",
	Run:   rootMain,
}

var rootConfiguration struct {
	// help indicates whether help information should be shown.
	help bool
	// version indicates whether version information should be shown.
	version bool
	// logLevel is the minimum severity the root logger will emit.
	logLevel string
	// configPath is an optional path to a YAML engine configuration file.
	configPath string
}

func init() {
	// Flags shared by every subcommand.
	persistent := rootCommand.PersistentFlags()
	persistent.StringVar(&rootConfiguration.logLevel, "log-level", "info", "Set the logging level (disabled|error|warn|info|debug|trace)")
	persistent.StringVar(&rootConfiguration.configPath, "config", "", "Load engine tunables from the specified YAML configuration file")

	flags := rootCommand.Flags()
	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVarP(&rootConfiguration.version, "version", "V", false, "Show version information")

	// Disable Cobra's alphabetical command sorting and its mousetrap check,
	// matching the layout the rest of this codebase's command-line tooling
	// already uses.
	cobra.EnableCommandSorting = false
	cobra.MousetrapHelpText = ""

	rootCommand.AddCommand(measureCommand)
}

func main() {
	// Disable color codes when standard error isn't an actual terminal
	// (piped into a file, captured by CI) so logs and error output stay
	// plain text rather than carrying stray escape sequences.
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
