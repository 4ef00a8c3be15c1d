package diag

import (
	"testing"

	"tsluau/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")

	userFile := fs.Add("/workspace/src/sample.ts", []byte("a\nb\n"), 0)
	libFile := fs.Add("/workspace/node_modules/@tsluau/types/index.d.ts", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaMixedCallShape,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: libFile, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevError,
			Code:     SemaError,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "warning SEM3101 src/sample.ts:1:1 first line second\n" +
		"error SEM3001 src/sample.ts:2:1 another\n" +
		"note SEM3101 src/sample.ts:2:1 note line"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortKeepsLibraryPaths(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	libFile := fs.Add("/workspace/node_modules/lib/index.d.ts", []byte("x\n"), 0)
	diags := []Diagnostic{NewWarning(SemaMixedCallShape, source.Span{File: libFile}, "mixed")}

	if got := FormatGoldenDiagnostics(diags, fs, false); got != "" {
		t.Fatalf("golden output should skip library files, got %q", got)
	}
	want := "warning SEM3101 node_modules/lib/index.d.ts:1:1 mixed"
	if got := FormatShortDiagnostics(diags, fs, false); got != want {
		t.Fatalf("short output = %q, want %q", got, want)
	}
}
