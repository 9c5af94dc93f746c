// Package cache owns the selections of every file: it dispatches explicit
// selects and live edits to the per-file range sets, keeps the cached text
// of each range fresh and writes every mutation through to a store.Backend.
package cache

import (
	"errors"
	"fmt"

	"copyselect/internal/ranges"
)

// Path identifies a file. It is the cleaned absolute path.
type Path = string

// TextSource gives access to the live text of open documents. Text returns
// the lines start..end (inclusive, joined by "\n") and false when the file
// or the lines are not readable right now.
//
// Text is called while the Store is locked and must not call back into it.
type TextSource interface {
	Text(path Path, start, end int) (string, bool)
}

// Change reports what a mutation did to one file so that the host can
// re-render it once.
type Change struct {
	Path    Path
	Added   bool // a range was stored
	Removed int  // ranges removed by unselect or toggle
	Dropped int  // ranges collapsed by an edit
	Merged  int  // ranges merged after an edit made them meet
}

// Excerpt is one collected range.
type Excerpt struct {
	Path Path
	Span ranges.Span
	Text string
}

// Highlight is the render instruction for one file: the spans to decorate.
// An empty Spans slice clears the decorations.
type Highlight struct {
	Path  Path
	Spans []ranges.Span
}

// FileSummary is one row of the list of touched files.
type FileSummary struct {
	Path   Path
	Ranges int
	Lines  int
}

// ErrNotFound is returned when an unselect or removal found nothing to do.
// It is a no-op, not a failure.
var ErrNotFound = errors.New("cache: no selections found")

// PersistenceError wraps a failed load or save. The in-memory state stays
// authoritative and the operation that triggered the save is not undone.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cache: %s selections: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
