package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), DefaultPath))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenCreatesDatabase(t *testing.T) {
	st := openTemp(t)
	if _, err := os.Stat(st.DBPath()); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestSaveRunAndReadBack(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	decisions := []Decision{
		{File: "src/b.ts", Start: 4, End: 9, Kind: "property-access", Name: "bar", Method: true},
		{File: "src/a.ts", Start: 10, End: 12, Kind: "function-decl", Name: "f"},
		{File: "src/a.ts", Start: 0, End: 3, Kind: "method-decl", Name: "m", Method: true},
	}
	id, err := st.SaveRun(ctx, Run{Package: "demo", Digest: "abc", Diagnostics: 1}, decisions)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("run id %q is not a uuid: %v", id, err)
	}

	got, err := st.Decisions(ctx, id)
	if err != nil {
		t.Fatalf("Decisions: %v", err)
	}
	if len(got) != 3 || got[0].Name != "m" || got[1].Name != "f" || got[2].Name != "bar" {
		t.Fatalf("unexpected order %+v", got)
	}
	if !got[0].Method || got[1].Method {
		t.Fatalf("method flags not preserved: %+v", got)
	}

	runs, err := st.Runs(ctx, "demo")
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Decisions != 3 || runs[0].Diagnostics != 1 || runs[0].Digest != "abc" {
		t.Fatalf("unexpected runs %+v", runs)
	}
}

func TestRunsNewestFirst(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)
	for i, pkg := range []string{"demo", "demo", "other"} {
		if _, err := st.SaveRun(ctx, Run{Package: pkg, StartedAt: base.Add(time.Duration(i) * time.Minute)}, nil); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	runs, err := st.Runs(ctx, "demo")
	if err != nil || len(runs) != 2 {
		t.Fatalf("Runs(demo) = %d, %v", len(runs), err)
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Fatalf("runs not ordered newest first")
	}
	all, err := st.Runs(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("Runs(all) = %d, %v", len(all), err)
	}
}

func TestSaveRunKeepsExplicitID(t *testing.T) {
	st := openTemp(t)
	id := uuid.NewString()
	got, err := st.SaveRun(context.Background(), Run{ID: id, Package: "demo"}, nil)
	if err != nil || got != id {
		t.Fatalf("SaveRun = %q, %v", got, err)
	}
	if _, err := st.SaveRun(context.Background(), Run{ID: id, Package: "demo"}, nil); err == nil {
		t.Fatalf("duplicate run id should fail")
	}
}
