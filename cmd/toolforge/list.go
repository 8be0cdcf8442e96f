package main

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tools in the definition store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			names, err := eng.store.Names()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				pterm.Info.Printf("No tool definitions in %s\n", eng.store.Dir())
				return nil
			}

			rows := pterm.TableData{{"Tool", "Interfaces", "Aliases", "Platforms"}}
			for _, name := range names {
				def, err := eng.store.Load(name)
				if err != nil {
					rows = append(rows, []string{name, "(unparsable)", "", ""})
					continue
				}
				platforms := ""
				if def.Profile != nil {
					platforms = strings.Join(def.Profile.Platforms, ", ")
				}
				rows = append(rows, []string{
					name,
					strings.Join(def.Interfaces, ", "),
					strings.Join(def.Aliases, ", "),
					platforms,
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}
}
