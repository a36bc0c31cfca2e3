package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sysyc/internal/diag"
	"sysyc/internal/diagfmt"
	"sysyc/internal/driver"
	"sysyc/internal/observ"
)

// compileFlags are the values shared by the root compiler, build and run.
type compileFlags struct {
	opts       driver.Options
	quiet      bool
	timings    bool
	color      bool
	diagFormat string // pretty|short|json; --quiet forces short
}

// readCompileFlags merges command-line flags over sysyc.toml: a flag the
// user set always wins, otherwise the project file, otherwise the default.
func readCompileFlags(cmd *cobra.Command) (compileFlags, error) {
	var cf compileFlags
	root := cmd.Root()

	var err error
	if cf.opts.MaxDiagnostics, err = root.PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return cf, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if cf.quiet, err = root.PersistentFlags().GetBool("quiet"); err != nil {
		return cf, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if cf.timings, err = root.PersistentFlags().GetBool("timings"); err != nil {
		return cf, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if cf.diagFormat, err = root.PersistentFlags().GetString("diag-format"); err != nil {
		return cf, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	switch cf.diagFormat {
	case "pretty", "short", "json":
	default:
		return cf, fmt.Errorf("invalid --diag-format value %q (expected pretty|short|json)", cf.diagFormat)
	}
	if cf.quiet {
		cf.diagFormat = "short"
	}
	colorFlag, err := root.PersistentFlags().GetString("color")
	if err != nil {
		return cf, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		cf.color = true
	case "off":
	case "auto":
		cf.color = isTerminal(os.Stderr)
	default:
		return cf, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	manifest, _, err := loadProjectManifest("")
	if err != nil {
		return cf, err
	}
	var pc projectConfig
	if manifest != nil {
		pc = manifest.Config
	}

	flags := cmd.Flags()
	koopa, _ := flags.GetBool("koopa")
	riscv, _ := flags.GetBool("riscv")
	switch {
	case flags.Changed("koopa") && koopa:
		cf.opts.Mode = driver.EmitKoopa
	case flags.Changed("riscv") && riscv:
		cf.opts.Mode = driver.EmitRISCV
	case pc.Build.Mode != "":
		if cf.opts.Mode, err = driver.ParseEmitMode(pc.Build.Mode); err != nil {
			return cf, err
		}
	}

	cf.opts.Fold = pc.Build.Fold
	if flags.Lookup("fold") != nil && flags.Changed("fold") {
		cf.opts.Fold, _ = flags.GetBool("fold")
	}

	useCache := pc.Cache.Enabled
	if flags.Lookup("cache") != nil && flags.Changed("cache") {
		useCache, _ = flags.GetBool("cache")
	}
	if useCache {
		if cf.opts.Cache, err = driver.OpenDiskCache("sysyc"); err != nil {
			return cf, fmt.Errorf("failed to open IR cache: %w", err)
		}
	}

	if cf.timings {
		cf.opts.Timer = observ.NewTimer()
	}
	return cf, nil
}

// printDiagnostics writes the bag to stderr in the selected --diag-format.
func (cf compileFlags) printDiagnostics(res *driver.CompileResult) {
	if res == nil || res.Bag.Len() == 0 {
		return
	}
	res.Bag.Sort()
	res.Bag.Dedup()
	switch cf.diagFormat {
	case "short":
		fmt.Fprintln(os.Stderr, diag.FormatShort(res.Bag.Items(), res.FileSet, true))
	case "json":
		err := diagfmt.JSON(os.Stderr, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "sysyc: %v\n", err)
		}
	default:
		diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     cf.color,
			Context:   1,
			ShowNotes: true,
		})
	}
}

func (cf compileFlags) printTimings() {
	if cf.opts.Timer == nil || cf.quiet {
		return
	}
	fmt.Fprint(os.Stderr, cf.opts.Timer.Summary(cf.color))
}
