package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sysyc/internal/prof"
)

// setupProfiling запускает профилировщики по persistent-флагам.
func setupProfiling(cmd *cobra.Command) error {
	root := cmd.Root()

	var cfg prof.Config
	var err error
	if cfg.CPUProfile, err = root.PersistentFlags().GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.MemProfile, err = root.PersistentFlags().GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.RuntimeTrace, err = root.PersistentFlags().GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !cfg.Enabled() {
		return nil
	}

	session, err := prof.Start(cfg)
	if err != nil {
		return err
	}
	profileCleanup = func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "sysyc: %v\n", err)
		}
	}
	return nil
}

var profileCleanup = func() {}

func stopProfiling() {
	profileCleanup()
	profileCleanup = func() {}
}
