package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tsluau/internal/driver"
	"tsluau/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List recorded classify runs, or the decisions of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().String("project", ".", "directory to search for the project manifest")
	runsCmd.Flags().String("db", "", "run store path (default: the project's)")
	runsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runRuns(cmd *cobra.Command, args []string) error {
	projectDir, err := cmd.Flags().GetString("project")
	if err != nil {
		return fmt.Errorf("failed to get project flag: %w", err)
	}
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return fmt.Errorf("failed to get db flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	pkg := ""
	if dbPath == "" {
		m, err := loadProject(projectDir)
		if err != nil {
			return err
		}
		opts := driver.OptionsFromManifest(m)
		dbPath = opts.Database
		if dbPath == "" {
			dbPath = driver.DefaultDatabase(m.Root)
		}
		pkg = m.Config.Package.Name
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no run store at %s: %w", dbPath, err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if len(args) == 1 {
		decisions, err := st.Decisions(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read decisions: %w", err)
		}
		if format == "json" {
			return enc.Encode(decisions)
		}
		for _, d := range decisions {
			verdict := "callback"
			if d.Method {
				verdict = "method"
			}
			fmt.Fprintf(out, "%s:%d-%d: %s %s %s\n", d.File, d.Start, d.End, verdict, d.Kind, d.Name)
		}
		return nil
	}

	runs, err := st.Runs(cmd.Context(), pkg)
	if err != nil {
		return fmt.Errorf("failed to read runs: %w", err)
	}
	if format == "json" {
		return enc.Encode(runs)
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %-16s decisions=%d diagnostics=%d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Package, r.Decisions, r.Diagnostics)
	}
	return nil
}
