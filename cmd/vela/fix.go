package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vela/internal/driver"
	"vela/internal/fix"
)

type fixFlags struct {
	unitFlags
	all    bool
	id     string
	dryRun bool
}

func newFixCmd() *cobra.Command {
	f := &fixFlags{}
	cmd := &cobra.Command{
		Use:   "fix [path]",
		Short: "Apply the suggested fixes of diagnostics",
		Long:  `Check the unit and apply the first suggested fix, every fix (--all) or one fix by id (--id).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, f)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.all, "all", false, "apply every fix")
	cmd.Flags().StringVar(&f.id, "id", "", "apply only the fix with this id")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print what would change without writing")
	return cmd
}

func runFix(cmd *cobra.Command, args []string, f *fixFlags) error {
	if f.all && f.id != "" {
		return errors.New("--all and --id cannot be used together")
	}
	unit, opts, err := f.load(cmd, args, nil)
	if err != nil {
		return err
	}
	out, err := driver.Check(cmd.Context(), unit, opts, nil, nil)
	if err != nil {
		return err
	}
	fopts := fix.Options{Mode: fix.ModeOnce, DryRun: f.dryRun}
	switch {
	case f.all:
		fopts.Mode = fix.ModeAll
	case f.id != "":
		fopts.Mode, fopts.TargetID = fix.ModeID, f.id
	}
	res, err := fix.Apply(unit.Files, out.Diagnostics, fopts)
	w := cmd.OutOrStdout()
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", s.ID, s.Reason)
	}
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(w, "no fixes applied")
		return nil
	}
	if err != nil {
		return err
	}
	verb := "applied"
	if f.dryRun {
		verb = "would apply"
	}
	for _, a := range res.Applied {
		fmt.Fprintf(w, "%s %s [%s] %s (%s)\n", verb, a.ID, a.Code.ID(), a.Title, a.Path)
	}
	for _, c := range res.FileChanges {
		fmt.Fprintf(w, "%s: %d edit(s)\n", c.Path, c.EditCount)
	}
	return nil
}
