package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vela/internal/diagfmt"
	"vela/internal/lsp"
	"vela/internal/trace"
)

type watchFlags struct {
	unitFlags
	debounce time.Duration
}

func newWatchCmd() *cobra.Command {
	f := &watchFlags{}
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-check the unit whenever a source file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, f)
		},
	}
	f.register(cmd)
	cmd.Flags().DurationVar(&f.debounce, "debounce", lsp.DefaultDebounce, "quiet period before a re-check")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string, f *watchFlags) error {
	unit, opts, err := f.load(cmd, args, nil)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(unit.Root)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	printer := &snapshotPrinter{w: cmd.OutOrStdout(), root: root}
	session := lsp.NewSession(gctx, lsp.SessionOptions{
		Debounce:  f.debounce,
		Check:     opts,
		OnPublish: printer.print,
	})
	defer session.Close()
	trace.Point(trace.FromContext(ctx), trace.ScopeSession, "watch", root, map[string]string{"session": session.ID()})

	watcher, err := lsp.NewWatcher(session, root)
	if err != nil {
		return err
	}
	watcher.Errors = func(err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl-c to stop)\n", root)
	g.Go(func() error {
		defer stop()
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		session.Close()
		return nil
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// snapshotPrinter writes one block per published snapshot.
type snapshotPrinter struct {
	mu   sync.Mutex
	w    io.Writer
	root string
}

func (p *snapshotPrinter) print(snap *lsp.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs, warns int
	for _, uri := range snap.URIs() {
		path := lsp.PathFromURI(uri)
		if rel, err := filepath.Rel(p.root, path); err == nil {
			path = filepath.ToSlash(rel)
		}
		for _, d := range snap.Diagnostics(uri) {
			label := "info"
			switch d.Severity {
			case 1:
				label = "error"
				errs++
			case 2:
				label = "warning"
				warns++
			}
			fmt.Fprintf(p.w, "%s:%d:%d: %s[%s]: %s\n", path, d.Range.Start.Line+1, d.Range.Start.Character+1, label, d.Code, d.Message)
		}
	}
	fmt.Fprintf(p.w, "[%s] #%d %s\n", time.Now().Format("15:04:05"), snap.Seq, diagfmt.SummaryLine(errs, warns))
}
