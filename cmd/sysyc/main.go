package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sysyc/internal/version"
)

// newRootCmd собирает дерево команд. The root command itself is the
// compiler: `sysyc --riscv main.c -o main.S`.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sysyc [flags] file.c",
		Short:         "SysY compiler: source -> Koopa IR -> RISC-V",
		Long:          `sysyc compiles a SysY program to Koopa IR text or RV32 assembly`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runCompile,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version.Version

	// Флаги компиляции (только корень)
	root.Flags().Bool("koopa", false, "emit Koopa IR text")
	root.Flags().Bool("riscv", false, "emit RISC-V assembly (default)")
	root.Flags().StringP("output", "o", "-", "output file (- for stdout)")
	root.Flags().Bool("fold", false, "fold constant operations while lowering")
	root.Flags().Bool("cache", false, "reuse lowered IR from the on-disk cache")
	root.MarkFlagsMutuallyExclusive("koopa", "riscv")

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "one-line diagnostics, no extra output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().String("diag-format", "pretty", "diagnostics format (pretty|short|json)")
	root.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	root.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to file")
	root.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := setupProfiling(cmd); err != nil {
			return err
		}
		return setupTracing(cmd)
	}
	return root
}

// legacyFlags are the single-dash spellings accepted for compatibility with
// `sysyc -koopa in.c -o out.koopa`.
var legacyFlags = map[string]string{
	"-koopa": "--koopa",
	"-riscv": "--riscv",
	"-fold":  "--fold",
}

// rewriteLegacyArgs maps single-dash long flags onto their cobra form.
// Everything after "--" is left alone.
func rewriteLegacyArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if repl, ok := legacyFlags[arg]; ok {
			arg = repl
		}
		out = append(out, arg)
	}
	return out
}

// exitCodeError carries a specific process exit status (the `run` result).
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// errReported: diagnostics were already printed, exit 1 silently.
var errReported = errors.New("compilation failed")

func execute(args []string) int {
	root := newRootCmd()
	root.SetArgs(rewriteLegacyArgs(args))
	err := root.Execute()
	closeTracing()
	stopProfiling()
	if err == nil {
		return 0
	}
	var exitErr *exitCodeError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.code
	case errors.Is(err, errReported):
		return 1
	}
	fmt.Fprintf(os.Stderr, "sysyc: %s\n", strings.TrimSpace(err.Error()))
	return 1
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
