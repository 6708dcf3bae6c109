package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vela/internal/check"
	"vela/internal/diag"
	"vela/internal/diagfmt"
	"vela/internal/driver"
)

type checkFlags struct {
	unitFlags
	terse     bool
	noCache   bool
	format    string
	withNotes bool
	suggest   bool
	pathMode  string
	context   int
	ui        string
}

func newCheckCmd() *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Type check a vela project, directory or file",
		Long:  `Parse and type check every source of the unit. Exits non-zero when any error is reported; warnings never fail a run.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, f)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.terse, "terse", false, "print only errors, one line each, and the summary")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "ignore and do not update the check cache")
	cmd.Flags().StringVar(&f.format, "format", "pretty", "output format (pretty|short|json)")
	cmd.Flags().BoolVar(&f.withNotes, "with-notes", true, "include diagnostic notes")
	cmd.Flags().BoolVar(&f.suggest, "suggest", false, "include fix suggestions")
	cmd.Flags().StringVar(&f.pathMode, "path-mode", "auto", "path display (auto|absolute|relative|basename)")
	cmd.Flags().IntVar(&f.context, "context", 0, "source lines shown around each diagnostic")
	cmd.Flags().StringVar(&f.ui, "ui", "auto", "progress view (auto|on|off)")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, f *checkFlags) error {
	format, err := diagfmt.ParseFormat(f.format)
	if err != nil {
		return err
	}
	pathMode, err := diagfmt.ParsePathMode(f.pathMode)
	if err != nil {
		return err
	}
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	timer, err := newTimer(cmd)
	if err != nil {
		return err
	}
	defer printTimings(cmd, timer)

	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}

	var cache *driver.Cache
	if !f.noCache {
		if cache, err = driver.OpenCache(""); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: check cache disabled: %v\n", err)
			cache = nil
		}
	}

	var (
		unit     *driver.Unit
		out      *driver.Outcome
		cacheErr error
	)
	work := func(sink driver.ProgressSink) error {
		var opts check.Options
		var err error
		unit, opts, err = f.loadWith(cmd, args, timer, sink)
		if err != nil {
			return err
		}
		opts.Terse = f.terse
		out, err = driver.Check(cmd.Context(), unit, opts, cache, timer)
		if err != nil {
			if out == nil {
				return err
			}
			cacheErr = err
		}
		driver.ReportOutcome(sink, out)
		return nil
	}
	if format != diagfmt.FormatJSON && shouldUseTUI(mode) {
		err = withProgress(cmd, "vela check", work)
	} else {
		err = work(nil)
	}
	if err != nil {
		return err
	}
	if cacheErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", cacheErr)
	}

	w := cmd.OutOrStdout()
	bag := diag.BagOf(out.Diagnostics)
	switch format {
	case diagfmt.FormatJSON:
		if err := diagfmt.JSON(w, bag, unit.Files, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     f.withNotes,
			IncludeFixes:     f.suggest,
		}); err != nil {
			return fmt.Errorf("failed to write diagnostics: %w", err)
		}
	default:
		popts := diagfmt.PrettyOpts{
			Color:     colored,
			Context:   f.context,
			PathMode:  pathMode,
			ShowNotes: f.withNotes,
			ShowFixes: f.suggest,
			Terse:     f.terse,
		}
		if format == diagfmt.FormatShort {
			diagfmt.Short(w, bag, unit.Files, popts)
		} else {
			diagfmt.Pretty(w, bag, unit.Files, popts)
		}
		if bag.Len() > 0 && !f.terse {
			fmt.Fprintln(w)
		}
		diagfmt.Summary(w, bag, colored)
	}
	if !out.OK {
		return errCheckFailed
	}
	return nil
}
