package driver

import (
	"path/filepath"

	"tsluau/internal/project"
	"tsluau/internal/snapshot"
	"tsluau/internal/store"
)

// Options configure one Classify run.
type Options struct {
	// Root anchors relative paths and is the base for rendered file names.
	Root            string
	Package         string
	CompilerOptions project.CompilerOptions
	NodeModules     string

	// SnapshotPath is read unless Snapshot is already loaded.
	SnapshotPath string
	Snapshot     *snapshot.Snapshot

	Jobs           int
	MaxDiagnostics int // 0 keeps every diagnostic
	// Database enables the run store when non-empty.
	Database string
	Timings  bool
	Progress ProgressSink
}

// OptionsFromManifest fills Options from a project manifest. Paths are
// resolved against the manifest directory.
func OptionsFromManifest(m *project.Manifest) Options {
	cfg := m.Config
	opts := Options{
		Root:            m.Root,
		Package:         cfg.Package.Name,
		CompilerOptions: cfg.CompilerOptions,
		NodeModules:     m.Resolve(cfg.Classify.NodeModules),
		SnapshotPath:    m.Resolve(cfg.Classify.Snapshot),
		Jobs:            cfg.Classify.Jobs,
	}
	if cfg.Classify.Database != "" {
		opts.Database = m.Resolve(cfg.Classify.Database)
	}
	return opts
}

// DefaultDatabase is the store location used by --db without a path.
func DefaultDatabase(root string) string {
	return filepath.Join(root, store.DefaultPath)
}
