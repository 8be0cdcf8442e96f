// Package main implements the toolforge CLI, a thin front end over the
// definition-to-invocation engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ToolForge/toolforge/internal/logging"
)

var (
	// Version is set at build time
	version = "0.3.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toolforge",
		Short: "ToolForge - Run declaratively defined command-line tools",
		Long: `ToolForge compiles declarative tool definitions into safe,
correctly-ordered invocations of external executables and runs them
under a timeout.

Definitions live as YAML files in the definition store; tools are
addressed by name, capability (interface), or alias.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			file, _ := cmd.Flags().GetString("log-file")
			return logging.Configure(level, file)
		},
	}

	cmd.PersistentFlags().String("config", "", "Config file path")
	cmd.PersistentFlags().String("store", "", "Definition store directory (overrides config)")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error, fatal)")
	cmd.PersistentFlags().String("log-file", "", "Log file path (default stderr)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newCacheCmd())

	return cmd
}
