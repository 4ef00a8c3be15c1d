package driver

import (
	"encoding/json"
	"fmt"

	"tsluau/internal/diag"
	"tsluau/internal/observ"
	"tsluau/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// timingDiagnostic renders the phases of timer as one OBS6001 info
// diagnostic; the note carries the report as JSON.
func timingDiagnostic(timer *observ.Timer, kind, path string) (diag.Diagnostic, error) {
	report := timer.Report()
	payload := timingPayload{Kind: kind, Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", kind, report.TotalMS)
	if path != "" {
		msg += ", " + path
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return diag.Diagnostic{}, fmt.Errorf("encode timings: %w", err)
	}
	return diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data)), nil
}

// addUnbounded adds d even when the bag is at its limit.
func addUnbounded(bag *diag.Bag, d diag.Diagnostic) {
	if bag.Add(d) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(d)
	bag.Merge(overflow)
}
