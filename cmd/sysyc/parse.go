package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sysyc/internal/driver"
	"sysyc/internal/parser"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [flags] file.c",
		Short: "Parse a SysY source file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	cf, err := readCompileFlags(cmd)
	if err != nil {
		return err
	}
	result, err := driver.Parse(args[0], cf.opts.MaxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	cf.printDiagnostics(&driver.CompileResult{FileSet: result.FileSet, Bag: result.Bag})
	if !result.OK {
		return errReported
	}
	return parser.Dump(cmd.OutOrStdout(), result.Builder, result.Unit, result.FileSet)
}
