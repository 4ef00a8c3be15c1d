package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tsluau/internal/prof"
)

// setupProfiling starts the runtime profiles requested on cmd and returns
// the function that stops them.
func setupProfiling(cmd *cobra.Command) (func() error, error) {
	cpuProfile, err := cmd.Flags().GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := cmd.Flags().GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	runtimeTrace, err := cmd.Flags().GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	cfg := prof.Config{CPU: cpuProfile, Mem: memProfile, Trace: runtimeTrace}
	if !cfg.Enabled() {
		return func() error { return nil }, nil
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	return session.Stop, nil
}
