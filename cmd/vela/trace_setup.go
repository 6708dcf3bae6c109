package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vela/internal/trace"
)

// setupTracing reads the trace flags and attaches a tracer to the
// command context. LevelOff without an output attaches trace.Nop.
func setupTracing(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	output, err := flags.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace alone means phase-level tracing
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		attach(cmd, trace.Nop)
		return nil
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return fmt.Errorf("invalid trace format: %w", err)
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Format:     format,
		OutputPath: output,
		RunID:      uuid.NewString(),
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	attach(cmd, tracer)
	return nil
}

// attach stores tracer on the command and the root; main closes the root's.
func attach(cmd *cobra.Command, tracer trace.Tracer) {
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)
}

func closeTracing(cmd *cobra.Command) error {
	tracer := trace.FromContext(cmd.Context())
	if !tracer.Enabled() {
		return nil
	}
	if err := tracer.Flush(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
	}
	return tracer.Close()
}
