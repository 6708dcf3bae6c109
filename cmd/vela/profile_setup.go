package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vela/internal/prof"
)

// profiling is stopped by main after the command returns.
var profiling *prof.Session

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if cfg.Mem, err = flags.GetString("memprofile"); err != nil {
		return fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if cfg.Trace, err = flags.GetString("exectrace"); err != nil {
		return fmt.Errorf("failed to get exectrace flag: %w", err)
	}
	if !cfg.Enabled() {
		return nil
	}
	profiling, err = prof.Start(cfg)
	return err
}
