package ranges

import "fmt"

// Edit describes a change to a document at line granularity: the inclusive
// span of lines that was replaced and how many lines replaced it.
type Edit struct {
	StartLine     int
	EndLine       int
	InsertedLines int
}

// Delta is the change in the document's line count caused by the edit.
func (e Edit) Delta() int {
	return e.InsertedLines - (e.EndLine - e.StartLine + 1)
}

func (e Edit) Valid() bool {
	return e.StartLine >= 0 && e.EndLine >= e.StartLine && e.InsertedLines >= 0
}

func (e Edit) String() string {
	return fmt.Sprintf("%d-%d+%d", e.StartLine, e.EndLine, e.InsertedLines)
}

// Collapse decides what happens to a range whose lines an edit removed.
type Collapse int

const (
	// CollapseDrop removes collapsed ranges from the set.
	CollapseDrop Collapse = iota
	// CollapseClamp keeps collapsed ranges as a single line at their start.
	CollapseClamp
)

func (c Collapse) String() string {
	switch c {
	case CollapseDrop:
		return "drop"
	case CollapseClamp:
		return "clamp"
	default:
		return fmt.Sprintf("Collapse(%d)", int(c))
	}
}

func ParseCollapse(name string) (Collapse, error) {
	switch name {
	case "", "drop":
		return CollapseDrop, nil
	case "clamp":
		return CollapseClamp, nil
	}
	return 0, fmt.Errorf("ranges: unknown collapse policy %q", name)
}

// Translate moves r through e so that it keeps covering the same logical
// lines. The returned range always satisfies 0 <= start <= end. collapsed
// is true when the shifted end fell below the start and had to be clamped.
func Translate(r LineRange, e Edit) (out LineRange, collapsed bool) {
	delta := e.Delta()
	out = r

	switch {
	case r.StartLine > e.EndLine:
		out.StartLine += delta
		out.EndLine += delta

	case r.EndLine >= e.StartLine:
		if e.StartLine <= r.StartLine {
			out.StartLine = max(0, r.StartLine+delta)
		}
		end := r.EndLine + delta
		collapsed = end < out.StartLine
		out.EndLine = max(out.StartLine, end)
	}

	return out, collapsed
}

// Apply translates every range of the set through e. Collapsed ranges are
// dropped or clamped according to c; the number dropped is returned.
// Apply does not merge ranges that the edit made overlap, see Normalize.
func (s *Set) Apply(e Edit, c Collapse) (dropped int) {
	kept := s.ranges[:0]
	for _, r := range s.ranges {
		moved, collapsed := Translate(r, e)
		if collapsed {
			if c == CollapseDrop {
				dropped++
				continue
			}
			moved.EndLine = moved.StartLine
		}
		kept = append(kept, moved)
	}
	clear(s.ranges[len(kept):])
	s.ranges = kept
	s.sort()
	return dropped
}

// ApplyAll applies a batch of edits in order. Each edit's line numbers are
// relative to the document after the previous edits of the batch.
func (s *Set) ApplyAll(edits []Edit, c Collapse) (dropped int) {
	for _, e := range edits {
		dropped += s.Apply(e, c)
	}
	return dropped
}
