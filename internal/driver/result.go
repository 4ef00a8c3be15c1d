package driver

import (
	"tsluau/internal/ast"
	"tsluau/internal/diag"
	"tsluau/internal/observ"
	"tsluau/internal/project"
	"tsluau/internal/source"
)

// Decision is the classifier's answer for one query node.
type Decision struct {
	File   string      `json:"file"`
	Node   ast.NodeID  `json:"-"`
	Kind   string      `json:"kind"`
	Name   string      `json:"name,omitempty"`
	Span   source.Span `json:"-"`
	Start  uint32      `json:"start"`
	End    uint32      `json:"end"`
	Line   uint32      `json:"line"`
	Col    uint32      `json:"col"`
	Method bool        `json:"method"`
}

// Result is the outcome of a Classify run.
type Result struct {
	RunID     string
	Package   string
	Digest    project.Digest
	FileSet   *source.FileSet
	Bag       *diag.Bag
	Decisions []Decision
	Timer     *observ.Timer
}

// Summary is the JSON payload attached to --format=json output.
type Summary struct {
	RunID     string     `json:"run_id,omitempty"`
	Package   string     `json:"package"`
	Digest    string     `json:"digest,omitempty"`
	Methods   int        `json:"methods"`
	Callbacks int        `json:"callbacks"`
	Decisions []Decision `json:"decisions"`
}

func (r *Result) Summary() Summary {
	s := Summary{RunID: r.RunID, Package: r.Package, Decisions: r.Decisions}
	if !r.Digest.IsZero() {
		s.Digest = r.Digest.String()
	}
	for _, d := range r.Decisions {
		if d.Method {
			s.Methods++
		} else {
			s.Callbacks++
		}
	}
	return s
}
