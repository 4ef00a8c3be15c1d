package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// semantic
	SemaInfo           Code = 3000
	SemaError          Code = 3001
	SemaMixedCallShape Code = 3101

	// input / output
	IOLoadFileError Code = 4001

	// project
	ProjInfo           Code = 5000
	ProjInvalidOptions Code = 5001

	// observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:        "Unknown error",
		SemaInfo:           "Semantic information",
		SemaError:          "Semantic error",
		SemaMixedCallShape: "function type mixes method and callback definitions",
		IOLoadFileError:    "I/O load file error",
		ProjInfo:           "Project information",
		ProjInvalidOptions: "Invalid compiler options",
		ObsInfo:            "Observability information",
		ObsTimings:         "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
