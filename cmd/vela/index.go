package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vela/internal/driver"
	"vela/internal/index"
)

type indexFlags struct {
	unitFlags
	db    string
	force bool
}

func newIndexCmd() *cobra.Command {
	f := &indexFlags{}
	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Export declarations and diagnostics to a SQLite database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args, f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.db, "db", "", "database path (default: .vela/index.db under the unit root)")
	cmd.Flags().BoolVar(&f.force, "force", false, "delete the database and index from scratch")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string, f *indexFlags) error {
	timer, err := newTimer(cmd)
	if err != nil {
		return err
	}
	defer printTimings(cmd, timer)
	unit, opts, err := f.load(cmd, args, timer)
	if err != nil {
		return err
	}
	dbPath := f.db
	if dbPath == "" {
		dbPath = filepath.Join(unit.Root, ".vela", "index.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	if f.force {
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove %s: %w", dbPath+suffix, err)
			}
		}
	}

	out, err := driver.Check(cmd.Context(), unit, opts, nil, timer)
	if err != nil {
		return err
	}
	store, err := index.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var st index.Stats
	err = timer.Measure("index", func() error {
		var err error
		st, err = store.Write(cmd.Context(), out.Result)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d files, %d declarations, %d diagnostics into %s\n",
		st.Files, st.Decls, st.Diagnostics, dbPath)
	return nil
}
