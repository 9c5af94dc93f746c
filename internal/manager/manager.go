package manager

import (
	"fmt"
	"strings"
	"sync"

	"copyselect/internal/ranges"
	"copyselect/internal/sitteradapter"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentManager keeps the text of every open document. It is the live
// text source the selection cache reads from.
type DocumentManager struct {
	mu   sync.Mutex
	docs map[string]string
}

// NewDocumentManager creates an initialized DocumentManager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		docs: make(map[string]string),
	}
}

// Open registers the full text of a document.
func (dm *DocumentManager) Open(path string, text string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.docs[path] = text
}

// Close forgets a document.
func (dm *DocumentManager) Close(path string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.docs, path)
}

// IsOpen reports whether the text of path is known.
func (dm *DocumentManager) IsOpen(path string) bool {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	_, ok := dm.docs[path]
	return ok
}

// Document returns the current text of path.
func (dm *DocumentManager) Document(path string) (string, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.docs[path]
	if !ok {
		return "", fmt.Errorf("document not loaded for %s", path)
	}
	return doc, nil
}

// ApplyChange applies one content change event to the stored text. For an
// incremental change it returns the line-level edit; ok is false for a
// whole-document replacement, which carries no line geometry.
func (dm *DocumentManager) ApplyChange(path string, raw any) (edit ranges.Edit, ok bool, err error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, loaded := dm.docs[path]
	if !loaded {
		return edit, false, fmt.Errorf("no document for %s", path)
	}

	switch change := raw.(type) {
	case protocol.TextDocumentContentChangeEvent:
		tsEdit := sitteradapter.CreateTSEditAdapter(change, doc)
		dm.docs[path] = sitteradapter.ApplyTextEdit(change, doc)
		return sitteradapter.LineEdit(tsEdit), true, nil
	case protocol.TextDocumentContentChangeEventWhole:
		dm.docs[path] = change.Text
		return edit, false, nil
	default:
		return edit, false, fmt.Errorf("unexpected change event type %T", raw)
	}
}

// Text returns lines start..end of path joined by "\n". end is clamped to
// the last line; a start past the end of the document is unreadable.
func (dm *DocumentManager) Text(path string, start, end int) (string, bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.docs[path]
	if !ok {
		return "", false
	}
	lines := strings.Split(doc, "\n")
	if start < 0 || start >= len(lines) || end < start {
		return "", false
	}
	end = min(end, len(lines)-1)
	return strings.Join(lines[start:end+1], "\n"), true
}

// LineCount returns the number of lines of path, or 0 if it is not open.
func (dm *DocumentManager) LineCount(path string) int {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.docs[path]
	if !ok {
		return 0
	}
	return strings.Count(doc, "\n") + 1
}

// CloseAll forgets every document.
func (dm *DocumentManager) CloseAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.docs = make(map[string]string)
}
