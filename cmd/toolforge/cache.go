package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the resolved-definition cache",
	}
	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show definition cache occupancy after an index build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			eng.index.Refresh()

			stats := eng.defs.Stats()
			rows := pterm.TableData{
				{"Entries", fmt.Sprintf("%d", stats.Size)},
				{"Capacity", fmt.Sprintf("%d", stats.MaxSize)},
				{"TTL", stats.TTL.String()},
				{"Utilization", fmt.Sprintf("%.0f%%", stats.Utilization*100)},
			}
			return pterm.DefaultTable.WithData(rows).Render()
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			eng.defs.Clear()
			pterm.Success.Println("Definition cache cleared")
			return nil
		},
	}
}
