package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vela/internal/check"
	"vela/internal/diagfmt"
	"vela/internal/driver"
	"vela/internal/observ"
)

// unitFlags are shared by every command that loads and checks a unit.
type unitFlags struct {
	target       string
	disableTests bool
	offline      bool
	locked       bool
	jobs         int
}

func (f *unitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.target, "target", "fuel", "build target (fuel|evm|midenvm)")
	cmd.Flags().BoolVar(&f.disableTests, "disable-tests", false, "skip checking #[test] functions")
	cmd.Flags().BoolVar(&f.offline, "offline", false, "do not fetch dependencies")
	cmd.Flags().BoolVar(&f.locked, "locked", false, "require the lock file to be up to date")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "max parallel parsers (0=auto)")
}

// options converts the flags into check options. The manifest fills in
// whatever the command line left unset.
func (f *unitFlags) options(cmd *cobra.Command, unit *driver.Unit) (check.Options, error) {
	target, err := check.ParseBuildTarget(f.target)
	if err != nil {
		return check.Options{}, err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return check.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts := check.Options{
		BuildTarget:    target,
		Path:           unit.Root,
		Offline:        f.offline,
		Locked:         f.locked,
		DisableTests:   f.disableTests,
		MaxDiagnostics: maxDiagnostics,
	}
	return driver.ApplyManifest(unit, opts, cmd.Flags().Changed("target"))
}

func (f *unitFlags) load(cmd *cobra.Command, args []string, timer *observ.Timer) (*driver.Unit, check.Options, error) {
	return f.loadWith(cmd, args, timer, nil)
}

func (f *unitFlags) loadWith(cmd *cobra.Command, args []string, timer *observ.Timer, sink driver.ProgressSink) (*driver.Unit, check.Options, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	var unit *driver.Unit
	err := timer.Measure("load", func() error {
		var err error
		unit, err = driver.LoadUnit(cmd.Context(), path, driver.LoadOptions{Jobs: f.jobs, Progress: sink})
		return err
	})
	if err != nil {
		return nil, check.Options{}, err
	}
	opts, err := f.options(cmd, unit)
	if err != nil {
		return nil, check.Options{}, err
	}
	return unit, opts, nil
}

// useColor resolves --color for f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(mode) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		return diagfmt.ColorAuto(f) && cmd.OutOrStdout() == os.Stdout, nil
	}
	return false, fmt.Errorf("invalid color mode %q (expected auto|on|off)", mode)
}

// newTimer returns nil unless --timings is set; observ.Timer is nil-safe.
func newTimer(cmd *cobra.Command) (*observ.Timer, error) {
	on, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !on {
		return nil, nil
	}
	return observ.NewTimer(), nil
}

func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
}
