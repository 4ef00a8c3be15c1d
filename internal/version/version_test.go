package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColoredKeepsText(t *testing.T) {
	color.NoColor = true
	orig := Version
	defer func() { Version = orig }()

	for _, v := range []string{"0.1.0", "1.2.3-rc.1", "weird"} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestStringIncludesBuildInfo(t *testing.T) {
	color.NoColor = true
	origV, origC, origD := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origV, origC, origD }()

	Version, GitCommit, BuildDate = "1.2.3", "abc123", "2024-01-15"
	if got, want := String(), "tsluau 1.2.3 (abc123) built 2024-01-15"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	GitCommit, BuildDate = "", ""
	if got, want := String(), "tsluau 1.2.3"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
