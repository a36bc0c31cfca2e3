package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sysyc/internal/driver"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] file.c",
		Short: "Compile and simulate a program; exits with main's return value",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	cmd.Flags().Bool("fold", false, "fold constant operations while lowering")
	cmd.Flags().Bool("print", false, "print the returned value")
	cmd.Flags().Bool("ir", false, "evaluate the Koopa IR instead of simulating RISC-V")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cf, err := readCompileFlags(cmd)
	if err != nil {
		return err
	}
	printValue, err := cmd.Flags().GetBool("print")
	if err != nil {
		return fmt.Errorf("failed to get print flag: %w", err)
	}

	useIR, err := cmd.Flags().GetBool("ir")
	if err != nil {
		return fmt.Errorf("failed to get ir flag: %w", err)
	}

	run := driver.Run
	if useIR {
		run = driver.RunIR
	}
	value, res, err := run(cmd.Context(), args[0], cf.opts)
	cf.printDiagnostics(res)
	defer cf.printTimings()
	if err != nil {
		if errors.Is(err, driver.ErrCompileFailed) {
			return errReported
		}
		return err
	}
	if printValue {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	// как и в оболочке, код выхода берётся по модулю 256
	if code := int(uint8(value)); code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}
