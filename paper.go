package quill

import (
	"math"

	"github.com/akeil/quill/internal/errors"
)

// PaperType is the background pattern of a page.
//
// The numeric values are stored in page records and must not change.
type PaperType int32

const (
	PaperEmpty PaperType = iota
	PaperRuled
	PaperCollegeRuled
	PaperNarrowRuled
	PaperQuad
	PaperCornellNotes
	PaperDayPlanner
	PaperMusic
	PaperHex
)

var paperNames = map[PaperType]string{
	PaperEmpty:        "empty",
	PaperRuled:        "ruled",
	PaperCollegeRuled: "college ruled",
	PaperNarrowRuled:  "narrow ruled",
	PaperQuad:         "quad",
	PaperCornellNotes: "cornell notes",
	PaperDayPlanner:   "day planner",
	PaperMusic:        "music",
	PaperHex:          "hex",
}

func (p PaperType) String() string {
	s, ok := paperNames[p]
	if !ok {
		return "UNKNOWN"
	}
	return s
}

// Validate returns an error for paper types that are not defined.
func (p PaperType) Validate() error {
	if _, ok := paperNames[p]; !ok {
		return errors.NewValidationError("invalid paper type %d", int32(p))
	}
	return nil
}

// AspectRatio is a named page format, width divided by height.
type AspectRatio struct {
	Name  string
	Ratio float32
}

// AspectRatios lists the supported page formats.
// The first entry is the default for new pages.
var AspectRatios = []AspectRatio{
	{"A4 portrait", float32(1 / math.Sqrt2)},
	{"A4 landscape", float32(math.Sqrt2)},
	{"US letter portrait", 8.5 / 11},
	{"US letter landscape", 11 / 8.5},
	{"Square", 1},
}

// DefaultAspectRatio is the aspect ratio of new pages.
var DefaultAspectRatio = AspectRatios[0].Ratio
