package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sysyc/internal/driver"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] files...",
		Short: "Compile several files in parallel",
		Long:  `build compiles every input independently; artifacts are written next to the inputs or into --out-dir`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBuild,
	}
	cmd.Flags().Bool("koopa", false, "emit Koopa IR text")
	cmd.Flags().Bool("riscv", false, "emit RISC-V assembly (default)")
	cmd.Flags().Bool("fold", false, "fold constant operations while lowering")
	cmd.Flags().Bool("cache", false, "reuse lowered IR from the on-disk cache")
	cmd.Flags().Int("jobs", 0, "parallel jobs (0 = GOMAXPROCS)")
	cmd.Flags().String("out-dir", "", "directory for artifacts")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.MarkFlagsMutuallyExclusive("koopa", "riscv")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	cf, err := readCompileFlags(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return fmt.Errorf("failed to get out-dir flag: %w", err)
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	var results []driver.BuildResult
	if shouldUseTUI(mode) && !cf.quiet {
		results, err = runBuildWithUI(cmd.Context(), fmt.Sprintf("building %d files", len(args)), args, outDir, jobs, cf.opts)
	} else {
		results, err = driver.BuildAll(cmd.Context(), args, outDir, jobs, cf.opts)
	}
	if err != nil {
		return err
	}
	defer cf.printTimings()

	failed := 0
	for _, r := range results {
		cf.printDiagnostics(r.Result)
		switch {
		case r.Err == nil:
			if !cf.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", r.Path, r.OutPath)
			}
		case errors.Is(r.Err, driver.ErrCompileFailed):
			failed++
		default:
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "sysyc: %s: %v\n", r.Path, r.Err)
		}
	}
	if failed > 0 {
		if !cf.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d files failed\n", failed, len(results))
		}
		return errReported
	}
	return nil
}
