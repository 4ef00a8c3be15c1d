package driver

import (
	"context"
	"fmt"
	"time"

	"tsluau/internal/store"
)

// saveRun records res in the run store at path and returns the new run ID.
func saveRun(ctx context.Context, path string, res *Result, started time.Time) (id string, err error) {
	st, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close run store: %w", cerr)
		}
	}()

	run := store.Run{
		Package:     res.Package,
		StartedAt:   started,
		Decisions:   len(res.Decisions),
		Diagnostics: res.Bag.Len(),
	}
	if !res.Digest.IsZero() {
		run.Digest = res.Digest.String()
	}
	decisions := make([]store.Decision, len(res.Decisions))
	for i, d := range res.Decisions {
		decisions[i] = store.Decision{
			File:   d.File,
			Start:  d.Start,
			End:    d.End,
			Kind:   d.Kind,
			Name:   d.Name,
			Method: d.Method,
		}
	}
	return st.SaveRun(ctx, run, decisions)
}
