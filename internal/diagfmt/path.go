package diagfmt

import (
	"path/filepath"

	"tsluau/internal/source"
)

const autoBasenameLimit = 40

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		return f.RelativePath(fs.BaseDir())
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		rel := f.RelativePath(fs.BaseDir())
		if rel == f.Path && filepath.IsAbs(f.Path) && len(f.Path) > autoBasenameLimit {
			return filepath.Base(f.Path)
		}
		return rel
	}
}
