package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tsluau/internal/diag"
	"tsluau/internal/diagfmt"
	"tsluau/internal/driver"
	"tsluau/internal/project"
	"tsluau/internal/trace"
)

// dbDefault selects the project's default run store when --db is given
// without a value.
const dbDefault = "default"

var classifyCmd = &cobra.Command{
	Use:   "classify [snapshot]",
	Short: "Classify every callee of a checked program as method or callback",
	Long: `Validate the project's compiler options, load the checked program
snapshot (the manifest's classify.snapshot unless [snapshot] is given) and
decide the calling convention of every property-access callee and every
function declaration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("format", "pretty", "output format (pretty|short|golden|json)")
	classifyCmd.Flags().String("project", ".", "directory to search for the project manifest")
	classifyCmd.Flags().Int("jobs", 0, "max parallel workers (0=manifest or auto)")
	classifyCmd.Flags().String("db", "", "record the run in a SQLite store (no value: .tsluau/runs.db)")
	classifyCmd.Flags().Lookup("db").NoOptDefVal = dbDefault
	classifyCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	classifyCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	classifyCmd.Flags().Bool("decisions", false, "list every decision in pretty and short output")
	classifyCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	classifyCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	classifyCmd.Flags().String("cpu-profile", "", "write a CPU profile to this file")
	classifyCmd.Flags().String("mem-profile", "", "write a heap profile to this file")
	classifyCmd.Flags().String("runtime-trace", "", "write a Go runtime trace to this file")
}

func runClassify(cmd *cobra.Command, args []string) (err error) {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "golden", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	projectDir, err := cmd.Flags().GetString("project")
	if err != nil {
		return fmt.Errorf("failed to get project flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return fmt.Errorf("failed to get db flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	listDecisions, err := cmd.Flags().GetBool("decisions")
	if err != nil {
		return fmt.Errorf("failed to get decisions flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !colored

	m, err := loadProject(projectDir)
	if err != nil {
		return err
	}
	opts := driver.OptionsFromManifest(m)
	if len(args) == 1 {
		if opts.SnapshotPath, err = filepath.Abs(args[0]); err != nil {
			return fmt.Errorf("failed to resolve snapshot path: %w", err)
		}
	}
	if jobs > 0 {
		opts.Jobs = jobs
	}
	switch dbPath {
	case "":
	case dbDefault:
		opts.Database = driver.DefaultDatabase(m.Root)
	default:
		opts.Database = dbPath
	}
	opts.MaxDiagnostics = maxDiagnostics
	opts.Timings = showTimings

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	var res *driver.Result
	if shouldUseTUI(mode, format) {
		res, err = runClassifyWithUI(cmd.Context(), "classify "+describeProject(m), opts)
	} else {
		res, err = driver.Classify(cmd.Context(), opts)
	}
	if perr := stopProfiling(); perr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", perr)
	}
	if err != nil {
		var perr *project.Error
		if errors.As(err, &perr) {
			perr.Manifest = filepath.Base(m.Path)
			fmt.Fprint(cmd.ErrOrStderr(), perr.Error())
			return fmt.Errorf("%s: configuration check failed", m.Path)
		}
		return fmt.Errorf("classification failed: %w", err)
	}
	trace.Point(trace.FromContext(cmd.Context()), trace.ScopeDriver, "output", format, 0)

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
		if listDecisions {
			printDecisions(out, res.Decisions)
		}
		printSummary(out, res)
	case "short":
		if text := diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet, withNotes); text != "" {
			fmt.Fprintln(out, text)
		}
		if listDecisions {
			printDecisions(out, res.Decisions)
		}
	case "golden":
		if text := diag.FormatGoldenDiagnostics(res.Bag.Items(), res.FileSet, withNotes); text != "" {
			fmt.Fprintln(out, text)
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		}
		if err := diagfmt.JSON(out, res.Bag, res.FileSet, jsonOpts, res.Summary()); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}

	if res.Bag.HasErrors() {
		return errors.New("classification reported errors")
	}
	if warningsAsErrors && res.Bag.HasWarnings() {
		return errors.New("classification reported warnings (--warnings-as-errors)")
	}
	return nil
}

func printDecisions(w io.Writer, decisions []driver.Decision) {
	for _, d := range decisions {
		verdict := color.CyanString("callback")
		if d.Method {
			verdict = color.GreenString("method")
		}
		name := d.Name
		if name == "" {
			name = "<anonymous>"
		}
		fmt.Fprintf(w, "%s:%d:%d: %s %s %s\n", d.File, d.Line, d.Col, verdict, d.Kind, name)
	}
}

func printSummary(w io.Writer, res *driver.Result) {
	sum := res.Summary()
	fmt.Fprintf(w, "%s %d methods, %d callbacks", color.New(color.Bold).Sprint("classified:"), sum.Methods, sum.Callbacks)
	if sum.RunID != "" {
		fmt.Fprintf(w, " (run %s)", sum.RunID)
	}
	fmt.Fprintln(w)
}
