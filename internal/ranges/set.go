package ranges

import (
	"fmt"
	"slices"
)

// Policy decides what selecting a span does when ranges already exist.
type Policy int

const (
	// PolicyReject refuses any span that intersects a stored range.
	PolicyReject Policy = iota
	// PolicyToggle removes a range with exactly the same bounds and
	// otherwise behaves like PolicyReject.
	PolicyToggle
)

func (p Policy) String() string {
	switch p {
	case PolicyReject:
		return "reject"
	case PolicyToggle:
		return "toggle"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts the names produced by Policy.String.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "reject":
		return PolicyReject, nil
	case "toggle":
		return PolicyToggle, nil
	}
	return 0, fmt.Errorf("ranges: unknown policy %q", name)
}

// Set is the collection of ranges for a single file. Ranges are kept
// sorted by StartLine after every mutation.
type Set struct {
	ranges []LineRange
}

func NewSet() *Set {
	return &Set{}
}

// Len returns the number of stored ranges.
func (s *Set) Len() int {
	return len(s.ranges)
}

// Ranges returns a sorted copy of the stored ranges.
func (s *Set) Ranges() []LineRange {
	return slices.Clone(s.ranges)
}

// Spans returns the bounds of the stored ranges in order.
func (s *Set) Spans() []Span {
	spans := make([]Span, len(s.ranges))
	for i, r := range s.ranges {
		spans[i] = r.Span()
	}
	return spans
}

// Add stores a new range unless it intersects one already present.
func (s *Set) Add(start, end int, content string) error {
	span := Span{StartLine: start, EndLine: end}
	if !span.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidRange, span)
	}
	if err := s.check(span); err != nil {
		return err
	}
	s.restore(LineRange{StartLine: start, EndLine: end, Content: content})
	return nil
}

// RemoveOverlapping deletes every range intersecting [start, end] and
// returns how many were removed.
func (s *Set) RemoveOverlapping(start, end int) int {
	kept := s.ranges[:0]
	for _, r := range s.ranges {
		if !r.Span().Overlaps(start, end) {
			kept = append(kept, r)
		}
	}
	removed := len(s.ranges) - len(kept)
	clear(s.ranges[len(kept):])
	s.ranges = kept
	return removed
}

func (s *Set) Clear() {
	s.ranges = nil
}

// Toggle removes the range with exactly these bounds if there is one,
// otherwise it adds the range. added reports which of the two happened.
func (s *Set) Toggle(start, end int, content string) (added bool, err error) {
	for i, r := range s.ranges {
		if r.StartLine == start && r.EndLine == end {
			s.ranges = slices.Delete(s.ranges, i, i+1)
			return false, nil
		}
	}
	if err := s.Add(start, end, content); err != nil {
		return false, err
	}
	return true, nil
}

// Insert selects [start, end] under the given policy. removed is only ever
// true under PolicyToggle.
func (s *Set) Insert(p Policy, start, end int, content string) (removed bool, err error) {
	if p == PolicyToggle {
		added, err := s.Toggle(start, end, content)
		if err != nil {
			return false, err
		}
		return !added, nil
	}
	return false, s.Add(start, end, content)
}

// Query reports whether any stored range intersects [start, end].
func (s *Set) Query(start, end int) bool {
	for _, r := range s.ranges {
		if r.Span().Overlaps(start, end) {
			return true
		}
	}
	return false
}

// SetContent replaces the cached content of the i-th range.
func (s *Set) SetContent(i int, content string) {
	s.ranges[i].Content = content
}

// Normalize sorts the set and merges ranges that intersect. Translation
// can make two disjoint ranges meet; merging restores the invariant. join
// builds the content of a merged range and may be nil.
func (s *Set) Normalize(join func(a, b LineRange) string) int {
	s.sort()
	if len(s.ranges) < 2 {
		return 0
	}
	merged := 0
	out := s.ranges[:1]
	for _, r := range s.ranges[1:] {
		last := &out[len(out)-1]
		if !last.Span().Overlaps(r.StartLine, r.EndLine) {
			out = append(out, r)
			continue
		}
		if join != nil {
			last.Content = join(*last, r)
		}
		last.EndLine = max(last.EndLine, r.EndLine)
		merged++
	}
	clear(s.ranges[len(out):])
	s.ranges = out
	return merged
}

// restore appends a range that was already checked against the set.
func (s *Set) restore(r LineRange) {
	s.ranges = append(s.ranges, r)
	s.sort()
}

// Restore rebuilds a set from persisted ranges. Entries that are invalid or
// overlap an earlier entry are returned instead of stored.
func Restore(rs []LineRange) (*Set, []error) {
	set := NewSet()
	var errs []error
	for _, r := range rs {
		if !r.Valid() {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidRange, r.Span()))
			continue
		}
		if err := set.check(r.Span()); err != nil {
			errs = append(errs, err)
			continue
		}
		set.restore(r)
	}
	return set, errs
}

func (s *Set) check(span Span) error {
	for _, r := range s.ranges {
		if r.Span().Overlaps(span.StartLine, span.EndLine) {
			return &OverlapError{Span: span, Existing: r.Span()}
		}
	}
	return nil
}

func (s *Set) sort() {
	slices.SortStableFunc(s.ranges, func(a, b LineRange) int {
		return a.StartLine - b.StartLine
	})
}
