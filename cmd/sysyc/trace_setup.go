package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sysyc/internal/trace"
)

// setupTracing inspects trace-related flags (and the project file) and
// attaches a tracer to the command context.
func setupTracing(cmd *cobra.Command) error {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	if !root.PersistentFlags().Changed("trace-level") {
		manifest, _, err := loadProjectManifest("")
		if err != nil {
			return err
		}
		if manifest != nil && manifest.Config.Trace.Level != "" {
			levelStr = manifest.Config.Trace.Level
		}
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}

	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Format:     format,
		OutputPath: traceOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx, span := trace.StartSpan(trace.WithTracer(cmd.Context(), tracer), trace.ScopeDriver, cmd.CommandPath())
	cmd.SetContext(ctx)
	traceCleanup = func() {
		span.End("")
		_ = tracer.Close()
	}
	return nil
}

// traceCleanup закрывает трассировку; runs after Execute even when the
// command failed, so a failing build still leaves a complete trace.
var traceCleanup = func() {}

func closeTracing() {
	traceCleanup()
	traceCleanup = func() {}
}
