package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>",
		Short: "Show which tool a name, interface, or alias resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			name := args[0]

			if def, err := eng.store.Load(name); err == nil {
				pterm.Info.Printf("%q is a concrete tool\n", name)
				return printResolution(cmd, def.Name, def.Description)
			}
			if def, ok := eng.index.FindByInterface(name); ok {
				pterm.Info.Printf("%q is an interface implemented by %q\n", name, def.Name)
				return printResolution(cmd, def.Name, def.Description)
			}
			if toolName, ok := eng.index.FindByAlias(name); ok {
				def, err := eng.store.Load(toolName)
				if err != nil {
					return err
				}
				pterm.Info.Printf("%q is an alias of %q\n", name, toolName)
				return printResolution(cmd, def.Name, def.Description)
			}
			return fmt.Errorf("nothing named %q in %s", name, eng.store.Dir())
		},
	}
}

func printResolution(cmd *cobra.Command, name, description string) error {
	if description != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, description)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
