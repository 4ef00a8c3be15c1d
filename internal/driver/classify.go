package driver

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"tsluau/internal/diag"
	"tsluau/internal/observ"
	"tsluau/internal/project"
	"tsluau/internal/snapshot"
	"tsluau/internal/source"
	"tsluau/internal/trace"
	"tsluau/internal/transform"
)

// Classify validates the project options, loads the program snapshot and
// classifies every call target and function declaration in it. A
// configuration error aborts before any classification and is returned as
// *project.Error.
func Classify(ctx context.Context, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	run := trace.Begin(tracer, trace.ScopeDriver, "classify-run", trace.ParentFromContext(ctx))
	timer := observ.NewTimer()
	res, err := classify(ctx, opts, tracer, run, timer)
	if err != nil {
		run.End("error: " + err.Error())
		return nil, err
	}
	run.WithExtra("decisions", strconv.Itoa(len(res.Decisions))).End("")
	return res, nil
}

func classify(ctx context.Context, opts Options, tracer trace.Tracer, run *trace.Span, timer *observ.Timer) (*Result, error) {
	started := time.Now()

	// validate
	err := phase(tracer, run, timer, opts.Progress, StageValidate, func() (string, error) {
		return "", project.ValidateCompilerOptions(opts.CompilerOptions.Resolve(opts.Root), nodeModules(opts))
	})
	if err != nil {
		return nil, err
	}

	// load
	snap := opts.Snapshot
	err = phase(tracer, run, timer, opts.Progress, StageLoad, func() (string, error) {
		if snap == nil {
			if opts.SnapshotPath == "" {
				return "", fmt.Errorf("no program snapshot configured")
			}
			loaded, err := snapshot.Read(opts.SnapshotPath)
			if err != nil {
				return "", err
			}
			snap = loaded
		}
		return fmt.Sprintf("%d files", snap.Files.Len()), nil
	})
	if err != nil {
		return nil, err
	}
	if opts.Root != "" {
		snap.Files.SetBaseDir(opts.Root)
	}

	res := &Result{
		Package: opts.Package,
		Digest:  snap.Digest,
		FileSet: snap.Files,
		Bag:     diag.NewBag(diagnosticLimit(opts.MaxDiagnostics)),
		Timer:   timer,
	}
	if res.Package == "" {
		res.Package = snap.Package
	}

	// classify
	err = phase(tracer, run, timer, opts.Progress, StageClassify, func() (string, error) {
		decisions, err := classifyFiles(ctx, snap, res.Bag, opts, tracer, run)
		if err != nil {
			return "", err
		}
		res.Decisions = decisions
		return fmt.Sprintf("%d decisions", len(decisions)), nil
	})
	if err != nil {
		return nil, err
	}
	res.Bag.Sort()

	// store
	if opts.Database != "" {
		err = phase(tracer, run, timer, opts.Progress, StageStore, func() (string, error) {
			id, err := saveRun(ctx, opts.Database, res, started)
			if err != nil {
				return "", err
			}
			res.RunID = id
			return id, nil
		})
		if err != nil {
			return nil, err
		}
	}

	if opts.Timings {
		d, err := timingDiagnostic(timer, "classify", opts.SnapshotPath)
		if err != nil {
			return nil, err
		}
		addUnbounded(res.Bag, d)
	}
	return res, nil
}

// phase runs fn as one pipeline stage: a trace span, a timer entry and
// working/done/error progress events.
func phase(tracer trace.Tracer, run *trace.Span, timer *observ.Timer, sink ProgressSink, stage Stage, fn func() (string, error)) error {
	span := trace.Begin(tracer, trace.ScopePass, string(stage), run.ID())
	idx := timer.Begin(string(stage))
	emit(sink, Event{Stage: stage, Status: StatusWorking})
	start := time.Now()

	note, err := fn()
	timer.End(idx, note)
	if err != nil {
		emit(sink, Event{Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		span.End("error")
		return err
	}
	emit(sink, Event{Stage: stage, Status: StatusDone, Elapsed: time.Since(start)})
	span.End(note)
	return nil
}

func diagnosticLimit(n int) int {
	if n <= 0 {
		return math.MaxInt32
	}
	return n
}

func nodeModules(opts Options) string {
	if opts.NodeModules != "" {
		return opts.NodeModules
	}
	return filepath.Join(opts.Root, "node_modules")
}

// classifyFiles runs the classifier over every file of snap, up to
// opts.Jobs files at a time, sharing one session.
func classifyFiles(ctx context.Context, snap *snapshot.Snapshot, bag *diag.Bag, opts Options, tracer trace.Tracer, run *trace.Span) ([]Decision, error) {
	prog := snap.Program
	roots := prog.Files()
	if len(roots) == 0 {
		return nil, nil
	}
	reporter := diag.NewSyncReporter(diag.NewDedupReporter(diag.BagReporter{Bag: bag}))
	session := transform.NewSession(prog, transform.Options{Reporter: reporter, DeferMixed: true})

	paths := make([]string, len(roots))
	for i, root := range roots {
		paths[i] = displayPath(snap.Files, prog.Nodes().Get(root).Span.File)
		emit(opts.Progress, Event{File: paths[i], Stage: StageClassify, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([][]Decision, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(roots)))

	for i, root := range roots {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				emit(opts.Progress, Event{File: paths[i], Stage: StageClassify, Status: StatusError, Err: err})
				return err
			}
			start := time.Now()
			emit(opts.Progress, Event{File: paths[i], Stage: StageClassify, Status: StatusWorking})
			span := trace.Begin(tracer, trace.ScopeModule, "file:"+paths[i], run.ID())

			// results[i] is owned by this goroutine
			results[i] = classifyFile(session.State(root), prog.Nodes(), snap.Files, paths[i], tracer, span)

			span.WithExtra("queries", strconv.Itoa(len(results[i]))).End("")
			emit(opts.Progress, Event{File: paths[i], Stage: StageClassify, Status: StatusDone, Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// mixed-shape warnings land on the earliest query, whatever the job count
	session.FlushMixed()

	var out []Decision
	for _, r := range results {
		out = append(out, r...)
	}
	sortDecisions(out)
	return out, nil
}

func sortDecisions(ds []Decision) {
	slices.SortStableFunc(ds, func(a, b Decision) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Start, b.Start),
			cmp.Compare(a.End, b.End),
			cmp.Compare(a.Node, b.Node),
		)
	})
}

func displayPath(fs *source.FileSet, id source.FileID) string {
	f := fs.Get(id)
	if f == nil {
		return fmt.Sprintf("<file %d>", id)
	}
	return f.RelativePath(fs.BaseDir())
}
