package store

import "time"

// Run is one recorded classify invocation.
type Run struct {
	ID          string
	Package     string
	StartedAt   time.Time
	Digest      string // snapshot fingerprint
	Decisions   int
	Diagnostics int
}

// Decision is the stored answer for one queried node.
type Decision struct {
	File   string
	Start  uint32
	End    uint32
	Kind   string
	Name   string
	Method bool
}
