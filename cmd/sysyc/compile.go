package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sysyc/internal/driver"
)

// runCompile is the root command: compile one file (or stdin with "-") and
// write the artifact to --output.
func runCompile(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	cf, err := readCompileFlags(cmd)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	var res *driver.CompileResult
	if args[0] == "-" {
		src, rerr := io.ReadAll(cmd.InOrStdin())
		if rerr != nil {
			return fmt.Errorf("read stdin: %w", rerr)
		}
		res, err = driver.CompileSource(cmd.Context(), "<stdin>", src, cf.opts)
	} else {
		res, err = driver.Compile(cmd.Context(), args[0], cf.opts)
	}
	cf.printDiagnostics(res)
	defer cf.printTimings()
	if err != nil {
		if errors.Is(err, driver.ErrCompileFailed) {
			return errReported
		}
		return err
	}

	if output == "-" {
		_, err = cmd.OutOrStdout().Write(res.Output)
		return err
	}
	if err := driver.WriteOutput(output, res.Output); err != nil {
		fmt.Fprintf(os.Stderr, "sysyc: cannot write %s: %v\n", output, err)
		return errReported
	}
	return nil
}
