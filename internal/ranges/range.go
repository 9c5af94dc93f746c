// Package ranges holds the per-file line range engine: ordered sets of
// disjoint whole-line ranges and the translation of those ranges through
// line-level edits.
package ranges

import (
	"errors"
	"fmt"
)

// LineRange is an inclusive, 0-indexed span of whole lines together with a
// cached copy of the text it covered the last time it could be read.
type LineRange struct {
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Content   string `json:"content"`
}

// Span is the boundary part of a LineRange. It is used for probes and for
// render instructions.
type Span struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

var ErrInvalidRange = errors.New("ranges: invalid line range")

// OverlapError is returned when an added range intersects a stored one.
type OverlapError struct {
	Span     Span
	Existing Span
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf(
		"ranges: lines %d-%d overlap existing selection %d-%d",
		e.Span.StartLine, e.Span.EndLine,
		e.Existing.StartLine, e.Existing.EndLine,
	)
}

// Valid reports whether 0 <= StartLine <= EndLine.
func (r LineRange) Valid() bool {
	return r.Span().Valid()
}

func (r LineRange) Span() Span {
	return Span{StartLine: r.StartLine, EndLine: r.EndLine}
}

// Lines returns the number of lines covered.
func (r LineRange) Lines() int {
	return r.EndLine - r.StartLine + 1
}

func (s Span) Valid() bool {
	return s.StartLine >= 0 && s.EndLine >= s.StartLine
}

// Overlaps is the closed interval test used for both rejection and removal.
func (s Span) Overlaps(start, end int) bool {
	return start <= s.EndLine && end >= s.StartLine
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.StartLine, s.EndLine)
}
