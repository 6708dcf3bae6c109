package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vela/internal/version"
)

// errCheckFailed signals a run whose summary was already printed.
var errCheckFailed = errors.New("unable to type check")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vela",
		Short:         "Vela smart-contract checker and toolchain",
		Long:          `Vela type checks smart-contract sources (*.vl) and serves diagnostics and code actions to editors`,
		Version:       version.Plain(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := startProfiling(cmd); err != nil {
				return err
			}
			return setupTracing(cmd)
		},
	}

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to collect (0 = unlimited)")
	root.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	root.PersistentFlags().String("cpuprofile", "", "write a CPU profile to file")
	root.PersistentFlags().String("memprofile", "", "write a heap profile to file on exit")
	root.PersistentFlags().String("exectrace", "", "write a runtime execution trace to file")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newActionsCmd())
	root.AddCommand(newIndexCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newLSPCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	root := newRootCmd()
	err := root.Execute()
	if cerr := closeTracing(root); cerr != nil {
		fmt.Fprintf(os.Stderr, "trace: %v\n", cerr)
	}
	if perr := profiling.Stop(); perr != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", perr)
	}
	if err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
