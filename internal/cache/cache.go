package cache

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"copyselect/internal/cache/store"
	"copyselect/internal/ranges"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("copyselect.cache")

type Options struct {
	Policy   ranges.Policy
	Collapse ranges.Collapse
	Source   TextSource
}

// Store maps files to their range sets. All methods are safe for concurrent
// use; they serialize on a single lock, so events are applied one at a time.
type Store struct {
	mu      sync.Mutex
	files   map[Path]*ranges.Set
	backend store.Backend
	opts    Options
}

func New(backend store.Backend, opts Options) *Store {
	return &Store{
		files:   make(map[Path]*ranges.Set),
		backend: backend,
		opts:    opts,
	}
}

// SetSource replaces the text source used for content refreshes.
func (s *Store) SetSource(src TextSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Source = src
}

// Select stores [span] for path under the configured policy. content is
// used when the live text cannot be read.
func (s *Store) Select(path Path, span ranges.Span, content string) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := Change{Path: path}
	if text, ok := s.read(path, span); ok {
		content = text
	}

	set, ok := s.files[path]
	if !ok {
		set = ranges.NewSet()
	}
	removed, err := set.Insert(s.opts.Policy, span.StartLine, span.EndLine, content)
	if err != nil {
		return change, err
	}
	if removed {
		change.Removed = 1
	} else {
		change.Added = true
	}
	s.put(path, set)

	log.Debugf("select %s %s (added %v)", path, span, change.Added)
	return change, s.persist()
}

// Unselect removes every range of path intersecting span. It returns
// ErrNotFound when nothing intersects.
func (s *Store) Unselect(path Path, span ranges.Span) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := Change{Path: path}
	set, ok := s.files[path]
	if !ok {
		return change, ErrNotFound
	}
	change.Removed = set.RemoveOverlapping(span.StartLine, span.EndLine)
	if change.Removed == 0 {
		return change, ErrNotFound
	}
	s.put(path, set)

	log.Debugf("unselect %s %s removed %d", path, span, change.Removed)
	return change, s.persist()
}

// UnselectAll drops every range of path.
func (s *Store) UnselectAll(path Path) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := Change{Path: path}
	set, ok := s.files[path]
	if !ok {
		return change, ErrNotFound
	}
	change.Removed = set.Len()
	set.Clear()
	s.put(path, set)

	log.Debugf("unselect all %s removed %d", path, change.Removed)
	return change, s.persist()
}

// RemoveFile forgets path entirely. It is UnselectAll addressed by key,
// used when the file is not the active document.
func (s *Store) RemoveFile(path Path) (Change, error) {
	return s.UnselectAll(path)
}

// ApplyEdits translates the ranges of path through a batch of edits, in the
// order given. Ranges that meet afterwards are merged, contents are re-read
// and the result is persisted. Files without selections are ignored.
func (s *Store) ApplyEdits(path Path, edits []ranges.Edit) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := Change{Path: path}
	set, ok := s.files[path]
	if !ok || len(edits) == 0 {
		return change, nil
	}

	valid := make([]ranges.Edit, 0, len(edits))
	for _, e := range edits {
		if !e.Valid() {
			log.Warningf("ignoring invalid edit %s on %s", e, path)
			continue
		}
		valid = append(valid, e)
	}
	change.Dropped = set.ApplyAll(valid, s.opts.Collapse)
	change.Merged = set.Normalize(joinContent)
	s.refresh(path, set)
	s.put(path, set)

	if change.Dropped > 0 || change.Merged > 0 {
		log.Infof("edit on %s dropped %d and merged %d ranges", path, change.Dropped, change.Merged)
	}
	return change, s.persist()
}

// Refresh re-reads the content of every range of path from the text
// source. Unreadable ranges keep their cached content. It persists only
// when some content changed.
func (s *Store) Refresh(path Path) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.files[path]
	if !ok {
		return false, nil
	}
	if !s.refresh(path, set) {
		return false, nil
	}
	return true, s.persist()
}

// Query reports whether any range of path intersects span.
func (s *Store) Query(path Path, span ranges.Span) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.files[path]
	return ok && set.Query(span.StartLine, span.EndLine)
}

// Ranges returns the sorted ranges of path.
func (s *Store) Ranges(path Path) []ranges.LineRange {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.files[path]
	if !ok {
		return nil
	}
	return set.Ranges()
}

// Paths returns every file with selections in ascending order. This is the
// order Collect and RenderAll visit files in.
func (s *Store) Paths() []Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paths()
}

// Collect returns the text of every range: files ascending by path, ranges
// ascending by start line. Live text is preferred over cached content.
func (s *Store) Collect() []Excerpt {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Excerpt
	for _, path := range s.paths() {
		for _, r := range s.files[path].Ranges() {
			text, ok := s.read(path, r.Span())
			if !ok {
				text = r.Content
			}
			out = append(out, Excerpt{Path: path, Span: r.Span(), Text: text})
		}
	}
	return out
}

// Join concatenates excerpts, each followed by sep, and trims surrounding
// whitespace from the result.
func Join(excerpts []Excerpt, sep string) string {
	var b strings.Builder
	for _, e := range excerpts {
		b.WriteString(e.Text)
		b.WriteString(sep)
	}
	return strings.TrimSpace(b.String())
}

// Render returns the highlight instruction for path.
func (s *Store) Render(path Path) Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(path)
}

// RenderAll returns highlight instructions for every file with selections.
func (s *Store) RenderAll() []Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Highlight, 0, len(s.files))
	for _, path := range s.paths() {
		out = append(out, s.render(path))
	}
	return out
}

// Files summarises every file with selections.
func (s *Store) Files() []FileSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]FileSummary, 0, len(s.files))
	for _, path := range s.paths() {
		sum := FileSummary{Path: path}
		for _, r := range s.files[path].Ranges() {
			sum.Ranges++
			sum.Lines += r.Lines()
		}
		out = append(out, sum)
	}
	return out
}

func (s *Store) render(path Path) Highlight {
	h := Highlight{Path: path, Spans: []ranges.Span{}}
	if set, ok := s.files[path]; ok {
		h.Spans = set.Spans()
	}
	return h
}

func (s *Store) paths() []Path {
	paths := make([]Path, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// put stores set under path, or removes the key when the set is empty.
func (s *Store) put(path Path, set *ranges.Set) {
	if set.Len() == 0 {
		delete(s.files, path)
		return
	}
	s.files[path] = set
}

func (s *Store) read(path Path, span ranges.Span) (string, bool) {
	if s.opts.Source == nil {
		return "", false
	}
	return s.opts.Source.Text(path, span.StartLine, span.EndLine)
}

// refresh re-reads the content of every range of set and reports whether
// anything changed.
func (s *Store) refresh(path Path, set *ranges.Set) bool {
	changed := false
	for i, r := range set.Ranges() {
		text, ok := s.read(path, r.Span())
		if !ok || text == r.Content {
			continue
		}
		set.SetContent(i, text)
		changed = true
	}
	return changed
}

func (s *Store) persist() error {
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Save(s.snapshot()); err != nil {
		log.Warningf("failed to save selections: %v", err)
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func joinContent(a, b ranges.LineRange) string {
	return a.Content + "\n" + b.Content
}

// IsWarning reports whether err leaves the Store changed as requested and
// only signals that the change was not written to disk.
func IsWarning(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}

func (c Change) String() string {
	return fmt.Sprintf("%s: added=%v removed=%d dropped=%d merged=%d",
		c.Path, c.Added, c.Removed, c.Dropped, c.Merged)
}
