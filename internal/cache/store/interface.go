// Package store persists selection snapshots. A snapshot is always written
// as a whole; backends never append.
package store

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"copyselect/internal/ranges"
)

// Snapshot maps an absolute file path to its ranges.
type Snapshot map[string][]ranges.LineRange

// Backend loads and saves snapshots.
type Backend interface {
	// Load returns the stored snapshot. A missing store is an empty
	// snapshot. When only some entries could be decoded, Load returns the
	// rest together with a *MalformedError.
	Load() (Snapshot, error)

	// Save replaces the stored snapshot with s.
	Save(s Snapshot) error

	Close() error
}

var ErrClosed = errors.New("store: backend closed")

// EntryError describes a single snapshot entry that was skipped. Index is
// -1 when the whole list of a path could not be read.
type EntryError struct {
	Path  string
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s[%d]: %v", e.Path, e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// MalformedError lists the entries dropped while loading a snapshot. It is
// not fatal: the snapshot returned alongside it is usable.
type MalformedError struct {
	Entries []*EntryError
}

func (e *MalformedError) Error() string {
	msgs := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		msgs[i] = entry.Error()
	}
	return fmt.Sprintf("store: %d malformed entries: %s", len(e.Entries), strings.Join(msgs, "; "))
}

func (e *MalformedError) Add(path string, index int, err error) {
	e.Entries = append(e.Entries, &EntryError{Path: path, Index: index, Err: err})
}

// Err returns e, or nil when nothing was dropped.
func (e *MalformedError) Err() error {
	if len(e.Entries) == 0 {
		return nil
	}
	return e
}

// Paths returns the snapshot keys in ascending order.
func (s Snapshot) Paths() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone deep-copies the snapshot, sorting every range list and leaving out
// paths without ranges.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for p, rs := range s {
		if len(rs) == 0 {
			continue
		}
		sorted := slices.Clone(rs)
		slices.SortStableFunc(sorted, func(a, b ranges.LineRange) int {
			return a.StartLine - b.StartLine
		})
		out[p] = sorted
	}
	return out
}
