package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vela/internal/driver"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove cached check results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := driver.OpenCache("")
			if err != nil {
				return err
			}
			if err := cache.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
			return nil
		},
	}
}
