package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"vela/internal/check"
	"vela/internal/lsp"
)

func newLSPCmd() *cobra.Command {
	var (
		target       string
		disableTests bool
		debounce     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Serve diagnostics and code actions over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bt, err := check.ParseBuildTarget(target)
			if err != nil {
				return err
			}
			srv := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.ServerOptions{
				Debounce: debounce,
				Check:    check.Options{BuildTarget: bt, DisableTests: disableTests},
				Log:      cmd.ErrOrStderr(),
			})
			err = srv.Run(cmd.Context())
			if errors.Is(err, lsp.ErrExit) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&target, "target", "fuel", "build target (fuel|evm|midenvm)")
	cmd.Flags().BoolVar(&disableTests, "disable-tests", false, "skip checking #[test] functions")
	cmd.Flags().DurationVar(&debounce, "debounce", lsp.DefaultDebounce, "quiet period before re-analysis")
	return cmd
}
